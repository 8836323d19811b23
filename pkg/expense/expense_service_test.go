package expense

import (
	"context"
	"testing"
	"time"

	"fluxpense-backend/domain"
	"fluxpense-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeExpenseRepository struct {
	expenses   map[string]*entities.Expense
	categories map[string]*entities.Category
	calls      int
}

func newFakeExpenseRepository() *fakeExpenseRepository {
	return &fakeExpenseRepository{
		expenses:   make(map[string]*entities.Expense),
		categories: make(map[string]*entities.Category),
	}
}

func (r *fakeExpenseRepository) AddExpense(_ context.Context, expense *entities.Expense) error {
	r.calls++
	r.expenses[expense.ID.String()] = expense
	return nil
}

func (r *fakeExpenseRepository) GetExpenseByID(_ context.Context, id string) (*entities.Expense, error) {
	r.calls++
	if expense, ok := r.expenses[id]; ok {
		return expense, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeExpenseRepository) UpdateExpense(_ context.Context, expense *entities.Expense) error {
	r.calls++
	r.expenses[expense.ID.String()] = expense
	return nil
}

func (r *fakeExpenseRepository) DeleteExpense(_ context.Context, id string) error {
	r.calls++
	delete(r.expenses, id)
	return nil
}

func (r *fakeExpenseRepository) GetExpenses(_ context.Context, userID string, filter ExpenseFilter, page, limit int) ([]*entities.Expense, int64, error) {
	r.calls++
	var matched []*entities.Expense
	for _, expense := range r.expenses {
		if expense.UserID.String() != userID {
			continue
		}
		if filter.CategoryID != "" && (expense.CategoryID == nil || expense.CategoryID.String() != filter.CategoryID) {
			continue
		}
		matched = append(matched, expense)
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeExpenseRepository) GetExpensesByDateRange(_ context.Context, userID string, startDate, endDate time.Time) ([]*entities.Expense, error) {
	r.calls++
	var matched []*entities.Expense
	for _, expense := range r.expenses {
		if expense.UserID.String() == userID && !expense.Date.Before(startDate) && !expense.Date.After(endDate) {
			matched = append(matched, expense)
		}
	}
	return matched, nil
}

func (r *fakeExpenseRepository) GetCategories(_ context.Context, userID string) ([]*entities.Category, error) {
	r.calls++
	var matched []*entities.Category
	for _, category := range r.categories {
		if category.UserID.String() == userID {
			matched = append(matched, category)
		}
	}
	return matched, nil
}

func (r *fakeExpenseRepository) GetCategoryByID(_ context.Context, id string) (*entities.Category, error) {
	r.calls++
	if category, ok := r.categories[id]; ok {
		return category, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeExpenseRepository) CreateCategory(_ context.Context, category *entities.Category) error {
	r.calls++
	r.categories[category.ID.String()] = category
	return nil
}

func (r *fakeExpenseRepository) CreateCategories(_ context.Context, categories []*entities.Category) error {
	r.calls++
	for _, category := range categories {
		r.categories[category.ID.String()] = category
	}
	return nil
}

func TestAddExpense(t *testing.T) {
	repo := newFakeExpenseRepository()
	service := NewExpenseService(repo)
	userID := uuid.New().String()

	res, err := service.AddExpense(context.Background(), domain.AddExpenseRequest{
		Amount:       45.67,
		Description:  "Walmart groceries",
		Date:         "2024-01-15",
		MerchantName: "Walmart",
	}, userID)
	require.NoError(t, err)

	assert.Equal(t, 45.67, res.Amount)
	assert.Equal(t, "Walmart groceries", res.Description)
	assert.Equal(t, "2024-01-15", res.Date.Format("2006-01-02"))
	assert.Len(t, repo.expenses, 1)
}

func TestAddExpenseMissingRequiredFields(t *testing.T) {
	userID := uuid.New().String()

	tests := []struct {
		name string
		req  domain.AddExpenseRequest
	}{
		{"zero amount", domain.AddExpenseRequest{Description: "coffee"}},
		{"negative amount", domain.AddExpenseRequest{Amount: -3, Description: "coffee"}},
		{"blank description", domain.AddExpenseRequest{Amount: 3.50, Description: "   "}},
		{"empty request", domain.AddExpenseRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeExpenseRepository()
			service := NewExpenseService(repo)

			_, err := service.AddExpense(context.Background(), tt.req, userID)
			assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
			assert.Zero(t, repo.calls, "validation must reject before touching the store")
		})
	}
}

func TestAddExpenseUnauthenticated(t *testing.T) {
	repo := newFakeExpenseRepository()
	service := NewExpenseService(repo)

	_, err := service.AddExpense(context.Background(), domain.AddExpenseRequest{
		Amount:      10,
		Description: "lunch",
	}, "")
	assert.ErrorIs(t, err, domain.ErrUserNotAuthenticated)
	assert.Zero(t, repo.calls)
}

func TestAddExpenseInvalidDate(t *testing.T) {
	repo := newFakeExpenseRepository()
	service := NewExpenseService(repo)

	_, err := service.AddExpense(context.Background(), domain.AddExpenseRequest{
		Amount:      10,
		Description: "lunch",
		Date:        "15/01/2024",
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestAddExpenseWithCategory(t *testing.T) {
	repo := newFakeExpenseRepository()
	service := NewExpenseService(repo)
	userID := uuid.New().String()

	category, err := service.CreateCategory(context.Background(), domain.CreateCategoryRequest{
		Name: "🍔 Food & Dining",
	}, userID)
	require.NoError(t, err)

	res, err := service.AddExpense(context.Background(), domain.AddExpenseRequest{
		Amount:      12,
		Description: "lunch",
		CategoryID:  category.ID,
	}, userID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, res.CategoryID)
	assert.Equal(t, "🍔 Food & Dining", res.CategoryName)
}

func TestAddExpenseRejectsForeignCategory(t *testing.T) {
	repo := newFakeExpenseRepository()
	service := NewExpenseService(repo)

	category, err := service.CreateCategory(context.Background(), domain.CreateCategoryRequest{
		Name: "Travel",
	}, uuid.New().String())
	require.NoError(t, err)

	_, err = service.AddExpense(context.Background(), domain.AddExpenseRequest{
		Amount:      12,
		Description: "flight",
		CategoryID:  category.ID,
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
}

func TestUpdateExpense(t *testing.T) {
	repo := newFakeExpenseRepository()
	service := NewExpenseService(repo)
	userID := uuid.New().String()

	res, err := service.AddExpense(context.Background(), domain.AddExpenseRequest{
		Amount:      10,
		Description: "lunch",
	}, userID)
	require.NoError(t, err)

	err = service.UpdateExpense(context.Background(), res.ID, domain.UpdateExpenseRequest{
		Amount:      15.50,
		Description: "team lunch",
	}, userID)
	require.NoError(t, err)

	updated, err := service.GetExpenseByID(context.Background(), res.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 15.50, updated.Amount)
	assert.Equal(t, "team lunch", updated.Description)
}

func TestUpdateExpenseNotOwner(t *testing.T) {
	repo := newFakeExpenseRepository()
	service := NewExpenseService(repo)

	res, err := service.AddExpense(context.Background(), domain.AddExpenseRequest{
		Amount:      10,
		Description: "lunch",
	}, uuid.New().String())
	require.NoError(t, err)

	err = service.UpdateExpense(context.Background(), res.ID, domain.UpdateExpenseRequest{
		Amount: 999,
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
}

func TestUpdateExpenseNotFound(t *testing.T) {
	service := NewExpenseService(newFakeExpenseRepository())

	err := service.UpdateExpense(context.Background(), uuid.New().String(), domain.UpdateExpenseRequest{
		Amount: 10,
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
}

func TestDeleteExpense(t *testing.T) {
	repo := newFakeExpenseRepository()
	service := NewExpenseService(repo)
	userID := uuid.New().String()

	res, err := service.AddExpense(context.Background(), domain.AddExpenseRequest{
		Amount:      10,
		Description: "lunch",
	}, userID)
	require.NoError(t, err)

	require.NoError(t, service.DeleteExpense(context.Background(), res.ID, userID))

	_, err = service.GetExpenseByID(context.Background(), res.ID, userID)
	assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
}

func TestDeleteExpenseNotOwner(t *testing.T) {
	repo := newFakeExpenseRepository()
	service := NewExpenseService(repo)

	res, err := service.AddExpense(context.Background(), domain.AddExpenseRequest{
		Amount:      10,
		Description: "lunch",
	}, uuid.New().String())
	require.NoError(t, err)

	err = service.DeleteExpense(context.Background(), res.ID, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
	assert.Len(t, repo.expenses, 1)
}

func TestGetExpensesScopedToUser(t *testing.T) {
	repo := newFakeExpenseRepository()
	service := NewExpenseService(repo)
	userID := uuid.New().String()
	otherID := uuid.New().String()

	_, err := service.AddExpense(context.Background(), domain.AddExpenseRequest{Amount: 10, Description: "a"}, userID)
	require.NoError(t, err)
	_, err = service.AddExpense(context.Background(), domain.AddExpenseRequest{Amount: 20, Description: "b"}, userID)
	require.NoError(t, err)
	_, err = service.AddExpense(context.Background(), domain.AddExpenseRequest{Amount: 30, Description: "c"}, otherID)
	require.NoError(t, err)

	expenses, count, err := service.GetExpenses(context.Background(), userID, ExpenseFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, expenses, 2)
	assert.EqualValues(t, 2, count)
}

func TestSeedDefaultCategories(t *testing.T) {
	repo := newFakeExpenseRepository()
	service := NewExpenseService(repo)
	userID := uuid.New().String()

	require.NoError(t, service.SeedDefaultCategories(context.Background(), userID))

	categories, err := service.GetCategories(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, categories, len(domain.DefaultCategories))

	names := make(map[string]bool, len(categories))
	for _, category := range categories {
		assert.True(t, category.IsDefault)
		names[category.Name] = true
	}
	assert.True(t, names["🍔 Food & Dining"])
}
