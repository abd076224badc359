package models

import "time"

// QRBinding maps a table to the opaque token printed on its QR sticker.
// One binding per table; deleted together with the table so a stale sticker
// stops resolving.
type QRBinding struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TableID   uint      `gorm:"uniqueIndex;not null" json:"table_id"`
	Table     Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Token     string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"token"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
