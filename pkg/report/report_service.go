package report

import (
	"bytes"
	"context"
	"sort"
	"time"

	"fluxpense-backend/domain"
	"fluxpense-backend/pkg/expense"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

type (
	ReportService interface {
		GetSpendingSummary(ctx context.Context, userID string, period string) (domain.SpendingSummaryResponse, error)
		RenderSpendingChart(ctx context.Context, userID string, period string) ([]byte, error)
	}

	reportService struct {
		expenseRepository expense.ExpenseRepository
	}
)

func NewReportService(expenseRepository expense.ExpenseRepository) ReportService {
	return &reportService{
		expenseRepository: expenseRepository,
	}
}

func periodRange(period string) (time.Time, time.Time, error) {
	now := time.Now()
	end := now

	var start time.Time
	switch period {
	case PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case PeriodMonth:
		start = now.AddDate(0, -1, 0)
	case PeriodYear:
		start = now.AddDate(-1, 0, 0)
	default:
		return time.Time{}, time.Time{}, domain.ErrInvalidReportPeriod
	}

	return start, end, nil
}

func (s *reportService) GetSpendingSummary(ctx context.Context, userID string, period string) (domain.SpendingSummaryResponse, error) {
	start, end, err := periodRange(period)
	if err != nil {
		return domain.SpendingSummaryResponse{}, err
	}

	expenses, err := s.expenseRepository.GetExpensesByDateRange(ctx, userID, start, end)
	if err != nil {
		return domain.SpendingSummaryResponse{}, err
	}

	summary := domain.SpendingSummaryResponse{
		Period:       period,
		ExpenseCount: int64(len(expenses)),
		ByCategory:   []domain.CategorySpending{},
		DailyTrend:   []domain.DailySpending{},
	}

	byCategory := map[string]*domain.CategorySpending{}
	byDay := map[string]float64{}
	byMerchant := map[string]float64{}

	for _, item := range expenses {
		summary.TotalSpent += item.Amount

		name := "Uncategorized"
		id := ""
		if item.Category != nil {
			name = item.Category.Name
			id = item.Category.ID.String()
		}
		if _, ok := byCategory[name]; !ok {
			byCategory[name] = &domain.CategorySpending{CategoryID: id, CategoryName: name}
		}
		byCategory[name].Total += item.Amount
		byCategory[name].Count++

		day := item.Date.Format("2006-01-02")
		byDay[day] += item.Amount

		if item.MerchantName != "" {
			byMerchant[item.MerchantName] += item.Amount
		}
	}

	for _, spending := range byCategory {
		summary.ByCategory = append(summary.ByCategory, *spending)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Total > summary.ByCategory[j].Total
	})

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		summary.DailyTrend = append(summary.DailyTrend, domain.DailySpending{Date: day, Total: byDay[day]})
	}

	topTotal := 0.0
	for merchant, total := range byMerchant {
		if total > topTotal {
			topTotal = total
			summary.TopMerchant = merchant
		}
	}

	elapsedDays := end.Sub(start).Hours() / 24
	if elapsedDays > 0 {
		summary.AveragePerDay = summary.TotalSpent / elapsedDays
	}

	return summary, nil
}

// RenderSpendingChart renders the per-category breakdown of the period as a
// PNG bar chart.
func (s *reportService) RenderSpendingChart(ctx context.Context, userID string, period string) ([]byte, error) {
	summary, err := s.GetSpendingSummary(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	if len(summary.ByCategory) == 0 {
		return nil, domain.ErrNoReportData
	}

	values := make([]chart.Value, 0, len(summary.ByCategory))
	for _, spending := range summary.ByCategory {
		values = append(values, chart.Value{
			Label: spending.CategoryName,
			Value: spending.Total,
		})
	}

	barChart := chart.BarChart{
		Title:    "Spending by category",
		Width:    800,
		Height:   400,
		BarWidth: 48,
		Bars:     values,
	}

	var buf bytes.Buffer
	if err := barChart.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
