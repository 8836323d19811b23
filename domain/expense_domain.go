package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessAddExpense     = "expense added successfully"
	MessageSuccessUpdateExpense  = "expense updated successfully"
	MessageSuccessDeleteExpense  = "expense deleted successfully"
	MessageSuccessGetExpenses    = "expenses retrieved successfully"
	MessageSuccessGetCategories  = "categories retrieved successfully"
	MessageSuccessCreateCategory = "category created successfully"

	MessageFailedAddExpense     = "failed to add expense"
	MessageFailedUpdateExpense  = "failed to update expense"
	MessageFailedDeleteExpense  = "failed to delete expense"
	MessageFailedGetExpenses    = "failed to retrieve expenses"
	MessageFailedGetCategories  = "failed to retrieve categories"
	MessageFailedCreateCategory = "failed to create category"

	ErrExpenseNotFound      = errors.New("expense not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrMissingRequiredField = errors.New("amount and description are required")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrInvalidDate          = errors.New("invalid date format, expected YYYY-MM-DD")
)

// DefaultCategories is the closed set of labels every new account is seeded with.
var DefaultCategories = []string{
	"🍔 Food & Dining",
	"🚗 Transportation",
	"🛒 Groceries",
	"🏠 Housing & Utilities",
	"🎬 Entertainment",
	"💊 Health",
	"✈️ Travel",
	"🛍️ Shopping",
	"📚 Education",
	"📦 Other",
}

type (
	AddExpenseRequest struct {
		Amount        float64 `json:"amount" validate:"required,gt=0"`
		Description   string  `json:"description" validate:"required"`
		CategoryID    string  `json:"category_id" validate:"omitempty,uuid"`
		Date          string  `json:"date" validate:"omitempty"`
		MerchantName  string  `json:"merchant_name" validate:"omitempty"`
		PaymentMethod string  `json:"payment_method" validate:"omitempty"`
		Location      string  `json:"location" validate:"omitempty"`
		Tags          string  `json:"tags" validate:"omitempty"`
	}

	UpdateExpenseRequest struct {
		Amount        float64 `json:"amount" validate:"omitempty,gt=0"`
		Description   string  `json:"description" validate:"omitempty"`
		CategoryID    string  `json:"category_id" validate:"omitempty,uuid"`
		Date          string  `json:"date" validate:"omitempty"`
		MerchantName  string  `json:"merchant_name" validate:"omitempty"`
		PaymentMethod string  `json:"payment_method" validate:"omitempty"`
		Location      string  `json:"location" validate:"omitempty"`
		Tags          string  `json:"tags" validate:"omitempty"`
	}

	ExpenseResponse struct {
		ID            string    `json:"id"`
		Amount        float64   `json:"amount"`
		Description   string    `json:"description"`
		CategoryID    string    `json:"category_id,omitempty"`
		CategoryName  string    `json:"category_name,omitempty"`
		Date          time.Time `json:"date"`
		MerchantName  string    `json:"merchant_name,omitempty"`
		PaymentMethod string    `json:"payment_method,omitempty"`
		Location      string    `json:"location,omitempty"`
		Tags          string    `json:"tags,omitempty"`
		ReceiptURL    string    `json:"receipt_url,omitempty"`
		CreatedAt     time.Time `json:"created_at"`
	}

	CreateCategoryRequest struct {
		Name  string `json:"name" validate:"required"`
		Icon  string `json:"icon" validate:"omitempty"`
		Color string `json:"color" validate:"omitempty"`
	}

	CategoryResponse struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Icon      string `json:"icon,omitempty"`
		Color     string `json:"color,omitempty"`
		IsDefault bool   `json:"is_default"`
	}
)
