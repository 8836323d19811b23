package domain

import (
	"errors"
	"time"
)

const (
	// MinExtractionConfidence is the threshold below which an extraction
	// result is reported as "no expense found" instead of a candidate.
	MinExtractionConfidence = 0.3

	MaxReceiptSize = 10 * 1024 * 1024
	MaxAvatarSize  = 5 * 1024 * 1024
)

const (
	OcrStatusPending    = "pending"
	OcrStatusProcessing = "processing"
	OcrStatusCompleted  = "completed"
	OcrStatusFailed     = "failed"
)

var (
	MessageSuccessScanReceipt   = "receipt scanned successfully"
	MessageSuccessScanEmail     = "email scanned successfully"
	MessageSuccessCommitExpense = "expense created from receipt successfully"
	MessageSuccessGetReceipts   = "receipts retrieved successfully"
	MessageInfoNoExpenseFound   = "no expense found"

	MessageFailedScanReceipt   = "failed to scan receipt"
	MessageFailedScanEmail     = "failed to scan email"
	MessageFailedCommitExpense = "failed to create expense from receipt"
	MessageFailedGetReceipts   = "failed to retrieve receipts"

	ErrCameraAccessDenied = errors.New("camera access denied")
	ErrInvalidFileType    = errors.New("file must be an image")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrEmptyInput         = errors.New("input is empty")
	ErrFileReadError      = errors.New("failed to read file")
	ErrExtractionFailed   = errors.New("extraction failed")
	ErrNoExpenseFound     = errors.New("no expense found in input")
	ErrReceiptNotFound    = errors.New("receipt not found")
	ErrNoActiveSession    = errors.New("no active camera session")
)

type (
	// CandidateExpense is the provisional record produced by the extraction
	// endpoint. It is never stored as-is; the client reviews and commits it
	// through CommitExpenseRequest.
	CandidateExpense struct {
		Amount     float64  `json:"amount"`
		Merchant   string   `json:"merchant"`
		Date       string   `json:"date"`
		Category   string   `json:"category"`
		Items      []string `json:"items,omitempty"`
		Confidence float64  `json:"confidence"`
	}

	ScanReceiptResponse struct {
		ReceiptID string           `json:"receipt_id"`
		ImageURL  string           `json:"image_url"`
		OcrStatus string           `json:"ocr_status"`
		Candidate CandidateExpense `json:"candidate"`
	}

	ScanEmailRequest struct {
		Content string `json:"content" validate:"required"`
		Subject string `json:"subject" validate:"omitempty"`
		Sender  string `json:"sender" validate:"omitempty"`
	}

	ScanEmailResponse struct {
		Candidate CandidateExpense `json:"candidate"`
	}

	// CommitExpenseRequest is the reviewed and possibly corrected buffer the
	// client sends back to persist an expense. ReceiptID is set only for
	// image-sourced captures.
	CommitExpenseRequest struct {
		Amount        float64 `json:"amount" validate:"required"`
		Description   string  `json:"description" validate:"required"`
		CategoryID    string  `json:"category_id" validate:"omitempty,uuid"`
		Date          string  `json:"date" validate:"omitempty"`
		MerchantName  string  `json:"merchant_name" validate:"omitempty"`
		PaymentMethod string  `json:"payment_method" validate:"omitempty"`
		Location      string  `json:"location" validate:"omitempty"`
		Tags          string  `json:"tags" validate:"omitempty"`
		ReceiptID     string  `json:"receipt_id" validate:"omitempty,uuid"`
	}

	ReceiptResponse struct {
		ID                string    `json:"id"`
		ImageURL          string    `json:"image_url"`
		OriginalFilename  string    `json:"original_filename,omitempty"`
		FileSize          int64     `json:"file_size,omitempty"`
		OcrStatus         string    `json:"ocr_status"`
		ExtractedAmount   float64   `json:"extracted_amount,omitempty"`
		ExtractedMerchant string    `json:"extracted_merchant,omitempty"`
		ExtractedDate     string    `json:"extracted_date,omitempty"`
		ConfidenceScore   float64   `json:"confidence_score,omitempty"`
		ExpenseID         string    `json:"expense_id,omitempty"`
		CreatedAt         time.Time `json:"created_at"`
	}
)
