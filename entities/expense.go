package entities

import (
	"time"

	"github.com/google/uuid"
)

type Expense struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Amount        float64    `json:"amount"`
	Description   string     `json:"description"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	Date          time.Time  `json:"date"`
	MerchantName  string     `json:"merchant_name,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Location      string     `json:"location,omitempty"`
	Tags          string     `json:"tags,omitempty"`
	ReceiptURL    string     `json:"receipt_url,omitempty"`
	ReceiptData   string     `json:"receipt_data,omitempty" gorm:"type:text"`

	User     *User     `gorm:"foreignKey:UserID"`
	Category *Category `gorm:"foreignKey:CategoryID"`
	Timestamp
}

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	Color     string    `json:"color,omitempty"`
	IsDefault bool      `json:"is_default"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
