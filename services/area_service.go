package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-table-service/models"
)

// AreaService is the registry of seating areas. Removal is refused while any
// active table still references the area; the check runs inside the delete
// transaction so a concurrent table create cannot race past it.
type AreaService struct {
	DB *gorm.DB
}

func NewAreaService(db *gorm.DB) *AreaService {
	return &AreaService{DB: db}
}

func (as *AreaService) Add(value, label string) (*models.AreaOption, error) {
	var area models.AreaOption
	err := as.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.AreaOption{}).Where("value = ?", value).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.ErrDuplicateArea
		}
		area = models.AreaOption{Value: value, Label: label}
		return tx.Create(&area).Error
	})
	if err != nil {
		return nil, err
	}
	return &area, nil
}

func (as *AreaService) Remove(value string) error {
	return as.DB.Transaction(func(tx *gorm.DB) error {
		var area models.AreaOption
		if err := tx.Where("value = ?", value).First(&area).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrUnknownArea
			}
			return err
		}

		var refs int64
		if err := tx.Model(&models.Table{}).
			Where("area = ? AND is_active = ?", value, true).
			Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return models.ErrAreaInUse
		}
		return tx.Delete(&area).Error
	})
}

// List returns areas in insertion order; the UI relies on the order being
// stable, nothing more.
func (as *AreaService) List() ([]models.AreaOption, error) {
	var areas []models.AreaOption
	if err := as.DB.Order("id ASC").Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}
