package expense

import (
	"context"
	"time"

	"fluxpense-backend/entities"

	"gorm.io/gorm"
)

type (
	// ExpenseFilter narrows user-scoped expense listings. Zero values mean
	// "no constraint".
	ExpenseFilter struct {
		CategoryID string
		StartDate  *time.Time
		EndDate    *time.Time
	}

	ExpenseRepository interface {
		AddExpense(ctx context.Context, expense *entities.Expense) error
		GetExpenseByID(ctx context.Context, id string) (*entities.Expense, error)
		UpdateExpense(ctx context.Context, expense *entities.Expense) error
		DeleteExpense(ctx context.Context, id string) error
		GetExpenses(ctx context.Context, userID string, filter ExpenseFilter, page, limit int) ([]*entities.Expense, int64, error)
		GetExpensesByDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*entities.Expense, error)

		GetCategories(ctx context.Context, userID string) ([]*entities.Category, error)
		GetCategoryByID(ctx context.Context, id string) (*entities.Category, error)
		CreateCategory(ctx context.Context, category *entities.Category) error
		CreateCategories(ctx context.Context, categories []*entities.Category) error
	}

	expenseRepository struct {
		db *gorm.DB
	}
)

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) AddExpense(ctx context.Context, expense *entities.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) GetExpenseByID(ctx context.Context, id string) (*entities.Expense, error) {
	var expense entities.Expense
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) UpdateExpense(ctx context.Context, expense *entities.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepository) DeleteExpense(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Expense{}).Error
}

func (r *expenseRepository) GetExpenses(ctx context.Context, userID string, filter ExpenseFilter, page, limit int) ([]*entities.Expense, int64, error) {
	var expenses []*entities.Expense
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}

	if err := query.Model(&entities.Expense{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Category").Offset(offset).Limit(limit).Order("date desc").Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, count, nil
}

func (r *expenseRepository) GetExpensesByDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*entities.Expense, error) {
	var expenses []*entities.Expense

	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, startDate, endDate).
		Order("date asc").
		Find(&expenses).Error; err != nil {
		return nil, err
	}

	return expenses, nil
}

func (r *expenseRepository) GetCategories(ctx context.Context, userID string) ([]*entities.Category, error) {
	var categories []*entities.Category

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *expenseRepository) GetCategoryByID(ctx context.Context, id string) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *expenseRepository) CreateCategory(ctx context.Context, category *entities.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *expenseRepository) CreateCategories(ctx context.Context, categories []*entities.Category) error {
	return r.db.WithContext(ctx).Create(categories).Error
}
