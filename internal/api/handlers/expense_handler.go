package handlers

import (
	"strconv"
	"time"

	"fluxpense-backend/domain"
	"fluxpense-backend/internal/api/presenters"
	"fluxpense-backend/pkg/expense"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ExpenseHandler interface {
		AddExpense(c *fiber.Ctx) error
		UpdateExpense(c *fiber.Ctx) error
		DeleteExpense(c *fiber.Ctx) error
		GetExpenses(c *fiber.Ctx) error
		GetExpenseDetails(c *fiber.Ctx) error
		GetCategories(c *fiber.Ctx) error
		CreateCategory(c *fiber.Ctx) error
	}

	expenseHandler struct {
		expenseService expense.ExpenseService
		validator      *validator.Validate
	}
)

func NewExpenseHandler(expenseService expense.ExpenseService, validator *validator.Validate) ExpenseHandler {
	return &expenseHandler{
		expenseService: expenseService,
		validator:      validator,
	}
}

func (h *expenseHandler) AddExpense(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddExpenseRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddExpense, err)
	}

	res, err := h.expenseService.AddExpense(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddExpense, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddExpense)
}

func (h *expenseHandler) UpdateExpense(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	expenseID := c.Params("id")
	req := new(domain.UpdateExpenseRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateExpense, err)
	}

	if err := h.expenseService.UpdateExpense(c.Context(), expenseID, *req, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateExpense, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateExpense)
}

func (h *expenseHandler) DeleteExpense(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	expenseID := c.Params("id")

	if err := h.expenseService.DeleteExpense(c.Context(), expenseID, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteExpense, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteExpense)
}

func (h *expenseHandler) GetExpenses(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	filter := expense.ExpenseFilter{
		CategoryID: c.Query("category_id"),
	}

	if from := c.Query("from"); from != "" {
		if startDate, err := time.Parse("2006-01-02", from); err == nil {
			filter.StartDate = &startDate
		}
	}
	if to := c.Query("to"); to != "" {
		if endDate, err := time.Parse("2006-01-02", to); err == nil {
			filter.EndDate = &endDate
		}
	}

	items, count, err := h.expenseService.GetExpenses(c.Context(), userID, filter, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetExpenses, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"expenses": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetExpenses)
}

func (h *expenseHandler) GetExpenseDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	expenseID := c.Params("id")

	res, err := h.expenseService.GetExpenseByID(c.Context(), expenseID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetExpenses, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetExpenses)
}

func (h *expenseHandler) GetCategories(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.expenseService.GetCategories(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetCategories, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetCategories)
}

func (h *expenseHandler) CreateCategory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateCategoryRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateCategory, err)
	}

	res, err := h.expenseService.CreateCategory(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateCategory, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateCategory)
}
