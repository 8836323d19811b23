package entities

import (
	"time"

	"github.com/google/uuid"
)

type Receipt struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	ImageURL          string     `json:"image_url"`
	OriginalFilename  string     `json:"original_filename,omitempty"`
	FileSize          int64      `json:"file_size,omitempty"`
	OcrStatus         string     `json:"ocr_status"` // "pending", "processing", "completed", "failed"
	OcrData           string     `json:"ocr_data,omitempty" gorm:"type:text"`
	ExtractedAmount   float64    `json:"extracted_amount,omitempty"`
	ExtractedMerchant string     `json:"extracted_merchant,omitempty"`
	ExtractedDate     *time.Time `json:"extracted_date,omitempty"`
	ConfidenceScore   float64    `json:"confidence_score,omitempty"`
	ExpenseID         *uuid.UUID `json:"expense_id,omitempty"`

	User    *User    `gorm:"foreignKey:UserID"`
	Expense *Expense `gorm:"foreignKey:ExpenseID"`
	Timestamp
}
