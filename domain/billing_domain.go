package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetPlans           = "plans retrieved successfully"
	MessageSuccessSubscribe          = "subscription created successfully"
	MessageSuccessGetSubscription    = "subscription retrieved successfully"
	MessageSuccessCancelSubscription = "subscription cancelled successfully"
	MessageSuccessWebhook            = "webhook processed successfully"

	MessageFailedGetPlans           = "failed to retrieve plans"
	MessageFailedSubscribe          = "failed to create subscription"
	MessageFailedGetSubscription    = "failed to retrieve subscription"
	MessageFailedCancelSubscription = "failed to cancel subscription"
	MessageFailedWebhook            = "failed to process webhook"

	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadySubscribed    = errors.New("user already has an active subscription")
	ErrPaymentFailed        = errors.New("payment processing failed")
)

type (
	PlanResponse struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Currency    string  `json:"currency"`
		Interval    string  `json:"interval"`
		Description string  `json:"description,omitempty"`
		Features    string  `json:"features,omitempty"`
	}

	SubscribeRequest struct {
		PlanID string `json:"plan_id" validate:"required,uuid"`
		Email  string `json:"email" validate:"required,email"`
	}

	SubscribeResponse struct {
		SubscriptionID string `json:"subscription_id"`
		OrderID        string `json:"order_id"`
		InvoiceURL     string `json:"invoice_url"`
	}

	SubscriptionResponse struct {
		ID        string     `json:"id"`
		PlanID    string     `json:"plan_id"`
		PlanName  string     `json:"plan_name"`
		Status    string     `json:"status"`
		ExpiresAt *time.Time `json:"expires_at,omitempty"`
	}

	MidtransWebhookRequest struct {
		OrderID           string `json:"order_id"`
		TransactionStatus string `json:"transaction_status"`
		FraudStatus       string `json:"fraud_status"`
	}
)
