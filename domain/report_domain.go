package domain

import (
	"errors"
)

var (
	MessageSuccessGetSpendingSummary = "spending summary retrieved successfully"
	MessageSuccessRenderChart        = "spending chart rendered successfully"

	MessageFailedGetSpendingSummary = "failed to retrieve spending summary"
	MessageFailedRenderChart        = "failed to render spending chart"

	ErrInvalidReportPeriod = errors.New("invalid report period")
	ErrNoReportData        = errors.New("no expenses in the requested period")
)

type (
	CategorySpending struct {
		CategoryID   string  `json:"category_id,omitempty"`
		CategoryName string  `json:"category_name"`
		Total        float64 `json:"total"`
		Count        int     `json:"count"`
	}

	DailySpending struct {
		Date  string  `json:"date"`
		Total float64 `json:"total"`
	}

	SpendingSummaryResponse struct {
		Period        string             `json:"period"`
		TotalSpent    float64            `json:"total_spent"`
		ExpenseCount  int64              `json:"expense_count"`
		AveragePerDay float64            `json:"average_per_day"`
		TopMerchant   string             `json:"top_merchant,omitempty"`
		ByCategory    []CategorySpending `json:"by_category"`
		DailyTrend    []DailySpending    `json:"daily_trend"`
	}
)
