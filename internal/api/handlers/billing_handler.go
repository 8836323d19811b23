package handlers

import (
	"fluxpense-backend/domain"
	"fluxpense-backend/internal/api/presenters"
	"fluxpense-backend/pkg/billing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	BillingHandler interface {
		GetPlans(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		GetSubscription(c *fiber.Ctx) error
		CancelSubscription(c *fiber.Ctx) error
		MidtransWebhookHandler(c *fiber.Ctx) error
	}

	billingHandler struct {
		billingService billing.BillingService
		validator      *validator.Validate
	}
)

func NewBillingHandler(billingService billing.BillingService, validator *validator.Validate) BillingHandler {
	return &billingHandler{
		billingService: billingService,
		validator:      validator,
	}
}

func (h *billingHandler) GetPlans(c *fiber.Ctx) error {
	res, err := h.billingService.GetPlans(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetPlans, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPlans)
}

func (h *billingHandler) Subscribe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.SubscribeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubscribe, err)
	}

	res, err := h.billingService.Subscribe(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubscribe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *billingHandler) GetSubscription(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.billingService.GetSubscription(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSubscription, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSubscription)
}

func (h *billingHandler) CancelSubscription(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.billingService.CancelSubscription(c.Context(), userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCancelSubscription, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCancelSubscription)
}

func (h *billingHandler) MidtransWebhookHandler(c *fiber.Ctx) error {
	req := new(domain.MidtransWebhookRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.billingService.HandleWebhook(c.Context(), *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedWebhook, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessWebhook)
}
