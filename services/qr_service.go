package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-table-service/models"
)

// QRService binds each table to the opaque token encoded in its QR sticker.
type QRService struct {
	DB *gorm.DB
}

func NewQRService(db *gorm.DB) *QRService {
	return &QRService{DB: db}
}

// GetOrCreate returns the table's binding, generating one on first call.
// Idempotent: repeated calls hand back the same token.
func (qs *QRService) GetOrCreate(tableID uint) (*models.QRBinding, error) {
	var binding models.QRBinding
	err := qs.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrTableNotFound
			}
			return err
		}

		err := tx.Where("table_id = ?", tableID).First(&binding).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		binding = models.QRBinding{
			TableID: tableID,
			Token:   uuid.NewString(),
		}
		return tx.Create(&binding).Error
	})
	if err != nil {
		return nil, err
	}
	return &binding, nil
}

// Regenerate replaces the table's token, invalidating printed stickers.
func (qs *QRService) Regenerate(tableID uint) (*models.QRBinding, error) {
	binding, err := qs.GetOrCreate(tableID)
	if err != nil {
		return nil, err
	}
	binding.Token = uuid.NewString()
	if err := qs.DB.Save(binding).Error; err != nil {
		return nil, err
	}
	return binding, nil
}

// Resolve maps a token back to its table. Tokens of deleted or deactivated
// tables do not resolve.
func (qs *QRService) Resolve(token string) (*models.Table, error) {
	var binding models.QRBinding
	if err := qs.DB.Where("token = ?", token).First(&binding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrTokenNotFound
		}
		return nil, err
	}

	var table models.Table
	if err := qs.DB.First(&table, binding.TableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrTokenNotFound
		}
		return nil, err
	}
	if !table.IsActive {
		return nil, models.ErrTokenNotFound
	}
	return &table, nil
}

// Revoke drops the binding for a table. No-op when none exists.
func (qs *QRService) Revoke(tableID uint) error {
	return qs.DB.Where("table_id = ?", tableID).Delete(&models.QRBinding{}).Error
}
