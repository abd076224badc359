package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Milestone kinds recorded on an open usage session.
const (
	MilestoneOrderPlaced      = "order_placed"
	MilestoneFoodServed       = "food_served"
	MilestonePaymentCompleted = "payment_completed"
)

// UsageSession is one row of the append-only occupancy ledger. A row is
// opened when a table turns occupied and closed exactly once when it leaves
// occupancy; EndTime == nil marks the single open session a table may have.
type UsageSession struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	UsageID       string  `gorm:"type:varchar(36);uniqueIndex;not null" json:"usage_id"`
	TableID       uint    `gorm:"not null;index" json:"table_id"`
	Table         Table   `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	OrderID       *string `gorm:"type:varchar(64)" json:"order_id,omitempty"`
	CustomerName  *string `gorm:"type:varchar(100)" json:"customer_name,omitempty"`
	CustomerPhone *string `gorm:"type:varchar(30)" json:"customer_phone,omitempty"`
	GuestCount    int     `gorm:"not null;default:1" json:"guest_count"`

	StartTime       time.Time  `gorm:"not null" json:"start_time"`
	EndTime         *time.Time `gorm:"index" json:"end_time,omitempty"`
	DurationMinutes *int64     `json:"duration_minutes,omitempty"`

	TotalOrderAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_order_amount"`
	TotalPaymentAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_payment_amount"`

	UsageType      string  `gorm:"type:varchar(50);not null;default:'dine_in'" json:"usage_type"`
	WaiterAssigned *string `gorm:"type:varchar(100)" json:"waiter_assigned,omitempty"`

	OrderPlacedAt      *time.Time `json:"order_placed_at,omitempty"`
	FoodServedAt       *time.Time `json:"food_served_at,omitempty"`
	PaymentCompletedAt *time.Time `json:"payment_completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// IsOpen reports whether the session is still accumulating.
func (s *UsageSession) IsOpen() bool {
	return s.EndTime == nil
}
