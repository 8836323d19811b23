package report

import (
	"context"
	"testing"
	"time"

	"fluxpense-backend/domain"
	"fluxpense-backend/entities"
	"fluxpense-backend/pkg/expense"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReportExpenseRepository struct {
	expenses []*entities.Expense
}

func (r *fakeReportExpenseRepository) AddExpense(_ context.Context, e *entities.Expense) error {
	r.expenses = append(r.expenses, e)
	return nil
}

func (r *fakeReportExpenseRepository) GetExpenseByID(_ context.Context, _ string) (*entities.Expense, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReportExpenseRepository) UpdateExpense(_ context.Context, _ *entities.Expense) error {
	return nil
}

func (r *fakeReportExpenseRepository) DeleteExpense(_ context.Context, _ string) error { return nil }

func (r *fakeReportExpenseRepository) GetExpenses(_ context.Context, _ string, _ expense.ExpenseFilter, _, _ int) ([]*entities.Expense, int64, error) {
	return r.expenses, int64(len(r.expenses)), nil
}

func (r *fakeReportExpenseRepository) GetExpensesByDateRange(_ context.Context, userID string, startDate, endDate time.Time) ([]*entities.Expense, error) {
	var matched []*entities.Expense
	for _, e := range r.expenses {
		if e.UserID.String() == userID && !e.Date.Before(startDate) && !e.Date.After(endDate) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (r *fakeReportExpenseRepository) GetCategories(_ context.Context, _ string) ([]*entities.Category, error) {
	return nil, nil
}

func (r *fakeReportExpenseRepository) GetCategoryByID(_ context.Context, _ string) (*entities.Category, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReportExpenseRepository) CreateCategory(_ context.Context, _ *entities.Category) error {
	return nil
}

func (r *fakeReportExpenseRepository) CreateCategories(_ context.Context, _ []*entities.Category) error {
	return nil
}

func seedReportData(userID uuid.UUID) *fakeReportExpenseRepository {
	food := &entities.Category{ID: uuid.New(), UserID: userID, Name: "🍔 Food & Dining"}
	transport := &entities.Category{ID: uuid.New(), UserID: userID, Name: "🚗 Transport"}
	now := time.Now()

	return &fakeReportExpenseRepository{expenses: []*entities.Expense{
		{ID: uuid.New(), UserID: userID, Amount: 40, Description: "groceries", MerchantName: "Walmart",
			CategoryID: &food.ID, Category: food, Date: now.AddDate(0, 0, -1)},
		{ID: uuid.New(), UserID: userID, Amount: 25, Description: "dinner", MerchantName: "Walmart",
			CategoryID: &food.ID, Category: food, Date: now.AddDate(0, 0, -2)},
		{ID: uuid.New(), UserID: userID, Amount: 30, Description: "fuel", MerchantName: "Shell",
			CategoryID: &transport.ID, Category: transport, Date: now.AddDate(0, 0, -2)},
		{ID: uuid.New(), UserID: userID, Amount: 5, Description: "parking",
			Date: now.AddDate(0, 0, -3)},
	}}
}

func TestGetSpendingSummary(t *testing.T) {
	userID := uuid.New()
	service := NewReportService(seedReportData(userID))

	summary, err := service.GetSpendingSummary(context.Background(), userID.String(), PeriodWeek)
	require.NoError(t, err)

	assert.Equal(t, PeriodWeek, summary.Period)
	assert.Equal(t, 100.0, summary.TotalSpent)
	assert.EqualValues(t, 4, summary.ExpenseCount)
	assert.Equal(t, "Walmart", summary.TopMerchant)
	assert.InDelta(t, 100.0/7, summary.AveragePerDay, 0.01)

	require.Len(t, summary.ByCategory, 3)
	assert.Equal(t, "🍔 Food & Dining", summary.ByCategory[0].CategoryName)
	assert.Equal(t, 65.0, summary.ByCategory[0].Total)
	assert.EqualValues(t, 2, summary.ByCategory[0].Count)
	assert.Equal(t, "🚗 Transport", summary.ByCategory[1].CategoryName)
	assert.Equal(t, "Uncategorized", summary.ByCategory[2].CategoryName)

	require.Len(t, summary.DailyTrend, 3)
	assert.True(t, summary.DailyTrend[0].Date < summary.DailyTrend[1].Date)
	assert.True(t, summary.DailyTrend[1].Date < summary.DailyTrend[2].Date)
}

func TestGetSpendingSummaryEmptyPeriod(t *testing.T) {
	service := NewReportService(&fakeReportExpenseRepository{})

	summary, err := service.GetSpendingSummary(context.Background(), uuid.New().String(), PeriodMonth)
	require.NoError(t, err)

	assert.Zero(t, summary.TotalSpent)
	assert.Zero(t, summary.ExpenseCount)
	assert.Empty(t, summary.ByCategory)
	assert.Empty(t, summary.DailyTrend)
	assert.Empty(t, summary.TopMerchant)
}

func TestGetSpendingSummaryInvalidPeriod(t *testing.T) {
	service := NewReportService(&fakeReportExpenseRepository{})

	_, err := service.GetSpendingSummary(context.Background(), uuid.New().String(), "fortnight")
	assert.ErrorIs(t, err, domain.ErrInvalidReportPeriod)
}

func TestGetSpendingSummaryScopedToUser(t *testing.T) {
	userID := uuid.New()
	service := NewReportService(seedReportData(userID))

	summary, err := service.GetSpendingSummary(context.Background(), uuid.New().String(), PeriodWeek)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSpent)
}

func TestRenderSpendingChart(t *testing.T) {
	userID := uuid.New()
	service := NewReportService(seedReportData(userID))

	png, err := service.RenderSpendingChart(context.Background(), userID.String(), PeriodWeek)
	require.NoError(t, err)

	require.NotEmpty(t, png)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderSpendingChartNoData(t *testing.T) {
	service := NewReportService(&fakeReportExpenseRepository{})

	_, err := service.RenderSpendingChart(context.Background(), uuid.New().String(), PeriodWeek)
	assert.ErrorIs(t, err, domain.ErrNoReportData)
}
