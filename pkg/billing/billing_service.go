package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fluxpense-backend/domain"
	"fluxpense-backend/entities"
	"fluxpense-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

type (
	BillingService interface {
		GetPlans(ctx context.Context) ([]domain.PlanResponse, error)
		Subscribe(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error)
		GetSubscription(ctx context.Context, userID string) (domain.SubscriptionResponse, error)
		CancelSubscription(ctx context.Context, userID string) error
		HandleWebhook(ctx context.Context, req domain.MidtransWebhookRequest) error
	}

	billingService struct {
		billingRepository BillingRepository
		snapClient        snap.Client
	}
)

func NewBillingService(billingRepository BillingRepository) BillingService {
	env := midtrans.Sandbox
	if utils.GetConfig("IS_PROD") == "true" {
		env = midtrans.Production
	}

	var client snap.Client
	client.New(utils.GetConfig("SERVER_KEY"), env)

	return &billingService{
		billingRepository: billingRepository,
		snapClient:        client,
	}
}

func (s *billingService) GetPlans(ctx context.Context) ([]domain.PlanResponse, error) {
	plans, err := s.billingRepository.GetPlans(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]domain.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		response = append(response, domain.PlanResponse{
			ID:          plan.ID.String(),
			Name:        plan.Name,
			Price:       plan.Price,
			Currency:    plan.Currency,
			Interval:    plan.Interval,
			Description: plan.Description,
			Features:    plan.Features,
		})
	}

	return response, nil
}

func (s *billingService) Subscribe(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscribeResponse{}, domain.ErrParseUUID
	}

	plan, err := s.billingRepository.GetPlanByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscribeResponse{}, domain.ErrPlanNotFound
		}
		return domain.SubscribeResponse{}, err
	}

	if existing, err := s.billingRepository.GetActiveSubscription(ctx, userID); err == nil && existing.Status == "active" {
		return domain.SubscribeResponse{}, domain.ErrAlreadySubscribed
	}

	subscriptionID := uuid.New()
	orderID := fmt.Sprintf("FLUX-%s", strings.ToUpper(subscriptionID.String()[:8]))

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: int64(plan.Price),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: req.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    plan.ID.String(),
				Name:  fmt.Sprintf("FluxPense %s (%s)", plan.Name, plan.Interval),
				Price: int64(plan.Price),
				Qty:   1,
			},
		},
	}

	snapResp, snapErr := s.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		return domain.SubscribeResponse{}, domain.ErrPaymentFailed
	}

	subscription := &entities.Subscription{
		ID:      subscriptionID,
		UserID:  userUUID,
		PlanID:  plan.ID,
		Status:  "pending",
		OrderID: orderID,
	}

	if err := s.billingRepository.CreateSubscription(ctx, subscription); err != nil {
		return domain.SubscribeResponse{}, err
	}

	return domain.SubscribeResponse{
		SubscriptionID: subscription.ID.String(),
		OrderID:        orderID,
		InvoiceURL:     snapResp.RedirectURL,
	}, nil
}

func (s *billingService) GetSubscription(ctx context.Context, userID string) (domain.SubscriptionResponse, error) {
	subscription, err := s.billingRepository.GetActiveSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscriptionResponse{}, domain.ErrSubscriptionNotFound
		}
		return domain.SubscriptionResponse{}, err
	}

	res := domain.SubscriptionResponse{
		ID:        subscription.ID.String(),
		PlanID:    subscription.PlanID.String(),
		Status:    subscription.Status,
		ExpiresAt: subscription.ExpiresAt,
	}
	if subscription.Plan != nil {
		res.PlanName = subscription.Plan.Name
	}
	return res, nil
}

func (s *billingService) CancelSubscription(ctx context.Context, userID string) error {
	subscription, err := s.billingRepository.GetActiveSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrSubscriptionNotFound
		}
		return err
	}

	subscription.Status = "cancelled"
	return s.billingRepository.UpdateSubscription(ctx, subscription)
}

func (s *billingService) HandleWebhook(ctx context.Context, req domain.MidtransWebhookRequest) error {
	subscription, err := s.billingRepository.GetSubscriptionByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrSubscriptionNotFound
		}
		return err
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		if req.FraudStatus != "" && req.FraudStatus != "accept" {
			subscription.Status = "cancelled"
			break
		}
		subscription.Status = "active"

		plan, err := s.billingRepository.GetPlanByID(ctx, subscription.PlanID.String())
		if err == nil {
			expiresAt := time.Now().AddDate(0, 1, 0)
			if plan.Interval == "yearly" {
				expiresAt = time.Now().AddDate(1, 0, 0)
			}
			subscription.ExpiresAt = &expiresAt
		}
	case "deny", "cancel", "expire", "failure":
		subscription.Status = "cancelled"
	default:
		// "pending" and unknown statuses leave the subscription untouched
		return nil
	}

	return s.billingRepository.UpdateSubscription(ctx, subscription)
}
