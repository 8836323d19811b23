package expense

import (
	"context"
	"errors"
	"strings"
	"time"

	"fluxpense-backend/domain"
	"fluxpense-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ExpenseService interface {
		AddExpense(ctx context.Context, req domain.AddExpenseRequest, userID string) (domain.ExpenseResponse, error)
		UpdateExpense(ctx context.Context, id string, req domain.UpdateExpenseRequest, userID string) error
		DeleteExpense(ctx context.Context, id string, userID string) error
		GetExpenses(ctx context.Context, userID string, filter ExpenseFilter, page, limit int) ([]domain.ExpenseResponse, int64, error)
		GetExpenseByID(ctx context.Context, id string, userID string) (domain.ExpenseResponse, error)

		GetCategories(ctx context.Context, userID string) ([]domain.CategoryResponse, error)
		CreateCategory(ctx context.Context, req domain.CreateCategoryRequest, userID string) (domain.CategoryResponse, error)
		SeedDefaultCategories(ctx context.Context, userID string) error
	}

	expenseService struct {
		expenseRepository ExpenseRepository
	}
)

func NewExpenseService(expenseRepository ExpenseRepository) ExpenseService {
	return &expenseService{
		expenseRepository: expenseRepository,
	}
}

func (s *expenseService) AddExpense(ctx context.Context, req domain.AddExpenseRequest, userID string) (domain.ExpenseResponse, error) {
	if userID == "" {
		return domain.ExpenseResponse{}, domain.ErrUserNotAuthenticated
	}

	// Required-field check happens before any repository call.
	if req.Amount <= 0 || strings.TrimSpace(req.Description) == "" {
		return domain.ExpenseResponse{}, domain.ErrMissingRequiredField
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ExpenseResponse{}, domain.ErrParseUUID
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return domain.ExpenseResponse{}, domain.ErrInvalidDate
		}
	}

	var categoryID *uuid.UUID
	var categoryName string
	if req.CategoryID != "" {
		category, err := s.ownedCategory(ctx, req.CategoryID, userID)
		if err != nil {
			return domain.ExpenseResponse{}, err
		}
		categoryID = &category.ID
		categoryName = category.Name
	}

	expense := &entities.Expense{
		ID:            uuid.New(),
		UserID:        userUUID,
		Amount:        req.Amount,
		Description:   req.Description,
		CategoryID:    categoryID,
		Date:          date,
		MerchantName:  req.MerchantName,
		PaymentMethod: req.PaymentMethod,
		Location:      req.Location,
		Tags:          req.Tags,
	}

	if err := s.expenseRepository.AddExpense(ctx, expense); err != nil {
		return domain.ExpenseResponse{}, err
	}

	res := toExpenseResponse(expense)
	res.CategoryName = categoryName
	return res, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, id string, req domain.UpdateExpenseRequest, userID string) error {
	expense, err := s.expenseRepository.GetExpenseByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrExpenseNotFound
		}
		return err
	}

	if expense.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	if req.Amount > 0 {
		expense.Amount = req.Amount
	}

	if req.Description != "" {
		expense.Description = req.Description
	}

	if req.CategoryID != "" {
		category, err := s.ownedCategory(ctx, req.CategoryID, userID)
		if err != nil {
			return err
		}
		expense.CategoryID = &category.ID
	}

	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return domain.ErrInvalidDate
		}
		expense.Date = date
	}

	if req.MerchantName != "" {
		expense.MerchantName = req.MerchantName
	}

	if req.PaymentMethod != "" {
		expense.PaymentMethod = req.PaymentMethod
	}

	if req.Location != "" {
		expense.Location = req.Location
	}

	if req.Tags != "" {
		expense.Tags = req.Tags
	}

	return s.expenseRepository.UpdateExpense(ctx, expense)
}

func (s *expenseService) DeleteExpense(ctx context.Context, id string, userID string) error {
	expense, err := s.expenseRepository.GetExpenseByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrExpenseNotFound
		}
		return err
	}

	if expense.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	return s.expenseRepository.DeleteExpense(ctx, id)
}

func (s *expenseService) GetExpenses(ctx context.Context, userID string, filter ExpenseFilter, page, limit int) ([]domain.ExpenseResponse, int64, error) {
	expenses, count, err := s.expenseRepository.GetExpenses(ctx, userID, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		res := toExpenseResponse(expense)
		if expense.Category != nil {
			res.CategoryName = expense.Category.Name
		}
		response = append(response, res)
	}

	return response, count, nil
}

func (s *expenseService) GetExpenseByID(ctx context.Context, id string, userID string) (domain.ExpenseResponse, error) {
	expense, err := s.expenseRepository.GetExpenseByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ExpenseResponse{}, domain.ErrExpenseNotFound
		}
		return domain.ExpenseResponse{}, err
	}

	if expense.UserID.String() != userID {
		return domain.ExpenseResponse{}, domain.ErrUnauthorizedAccess
	}

	res := toExpenseResponse(expense)
	if expense.Category != nil {
		res.CategoryName = expense.Category.Name
	}
	return res, nil
}

func (s *expenseService) GetCategories(ctx context.Context, userID string) ([]domain.CategoryResponse, error) {
	categories, err := s.expenseRepository.GetCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, domain.CategoryResponse{
			ID:        category.ID.String(),
			Name:      category.Name,
			Icon:      category.Icon,
			Color:     category.Color,
			IsDefault: category.IsDefault,
		})
	}

	return response, nil
}

func (s *expenseService) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest, userID string) (domain.CategoryResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CategoryResponse{}, domain.ErrParseUUID
	}

	category := &entities.Category{
		ID:     uuid.New(),
		UserID: userUUID,
		Name:   req.Name,
		Icon:   req.Icon,
		Color:  req.Color,
	}

	if err := s.expenseRepository.CreateCategory(ctx, category); err != nil {
		return domain.CategoryResponse{}, err
	}

	return domain.CategoryResponse{
		ID:    category.ID.String(),
		Name:  category.Name,
		Icon:  category.Icon,
		Color: category.Color,
	}, nil
}

func (s *expenseService) SeedDefaultCategories(ctx context.Context, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	categories := make([]*entities.Category, 0, len(domain.DefaultCategories))
	for _, name := range domain.DefaultCategories {
		categories = append(categories, &entities.Category{
			ID:        uuid.New(),
			UserID:    userUUID,
			Name:      name,
			IsDefault: true,
		})
	}

	return s.expenseRepository.CreateCategories(ctx, categories)
}

func (s *expenseService) ownedCategory(ctx context.Context, categoryID, userID string) (*entities.Category, error) {
	category, err := s.expenseRepository.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}

	if category.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedAccess
	}

	return category, nil
}

func toExpenseResponse(expense *entities.Expense) domain.ExpenseResponse {
	res := domain.ExpenseResponse{
		ID:            expense.ID.String(),
		Amount:        expense.Amount,
		Description:   expense.Description,
		Date:          expense.Date,
		MerchantName:  expense.MerchantName,
		PaymentMethod: expense.PaymentMethod,
		Location:      expense.Location,
		Tags:          expense.Tags,
		ReceiptURL:    expense.ReceiptURL,
		CreatedAt:     expense.CreatedAt,
	}
	if expense.CategoryID != nil {
		res.CategoryID = expense.CategoryID.String()
	}
	return res
}
