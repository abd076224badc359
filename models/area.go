package models

import "time"

// AreaOption is a seating area label (indoor, outdoor, VIP, ...). The set is
// dynamic but referentially constrained: an area stays as long as any active
// table points at it. Listing order is insertion order (ascending ID).
type AreaOption struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Value     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"value"`
	Label     string    `gorm:"type:varchar(100);not null" json:"label"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
