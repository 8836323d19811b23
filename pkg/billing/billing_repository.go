package billing

import (
	"context"

	"fluxpense-backend/entities"

	"gorm.io/gorm"
)

type (
	BillingRepository interface {
		GetPlans(ctx context.Context) ([]*entities.Plan, error)
		GetPlanByID(ctx context.Context, id string) (*entities.Plan, error)
		CreateSubscription(ctx context.Context, subscription *entities.Subscription) error
		GetSubscriptionByOrderID(ctx context.Context, orderID string) (*entities.Subscription, error)
		GetActiveSubscription(ctx context.Context, userID string) (*entities.Subscription, error)
		UpdateSubscription(ctx context.Context, subscription *entities.Subscription) error
	}

	billingRepository struct {
		db *gorm.DB
	}
)

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) GetPlans(ctx context.Context) ([]*entities.Plan, error) {
	var plans []*entities.Plan
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price asc").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *billingRepository) GetPlanByID(ctx context.Context, id string) (*entities.Plan, error) {
	var plan entities.Plan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *billingRepository) CreateSubscription(ctx context.Context, subscription *entities.Subscription) error {
	return r.db.WithContext(ctx).Create(subscription).Error
}

func (r *billingRepository) GetSubscriptionByOrderID(ctx context.Context, orderID string) (*entities.Subscription, error) {
	var subscription entities.Subscription
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&subscription).Error; err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *billingRepository) GetActiveSubscription(ctx context.Context, userID string) (*entities.Subscription, error) {
	var subscription entities.Subscription
	if err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ? AND status IN ?", userID, []string{"pending", "active"}).
		Order("created_at desc").
		First(&subscription).Error; err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *billingRepository) UpdateSubscription(ctx context.Context, subscription *entities.Subscription) error {
	return r.db.WithContext(ctx).Save(subscription).Error
}
