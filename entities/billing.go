package entities

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Interval    string    `json:"interval"` // "monthly", "yearly"
	Description string    `json:"description,omitempty"`
	Features    string    `json:"features,omitempty" gorm:"type:text"`
	IsActive    bool      `json:"is_active"`

	Timestamp
}

type Subscription struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	PlanID    uuid.UUID  `json:"plan_id"`
	Status    string     `json:"status"` // "pending", "active", "cancelled", "expired"
	OrderID   string     `gorm:"uniqueIndex" json:"order_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Plan *Plan `gorm:"foreignKey:PlanID"`
	Timestamp
}
