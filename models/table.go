package models

import "time"

type Table struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	TableNumber         string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"table_number"`
	Capacity            int         `gorm:"not null" json:"capacity"`
	Status              TableStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	Area                string      `gorm:"type:varchar(50);not null;index" json:"area"`
	LocationDescription *string     `gorm:"type:varchar(255)" json:"location_description,omitempty"`
	Notes               *string     `gorm:"type:text" json:"notes,omitempty"`
	IsActive            bool        `gorm:"not null;default:true" json:"is_active"`
	// Version is bumped on every status write; the UPDATE carries the value
	// that was read, so a concurrent writer makes the CAS miss.
	Version   uint      `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
