package services

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-table-service/models"
	"github.com/yeremiapane/restaurant-table-service/utils"
)

// TableService owns table rows and runs the status state machine. A status
// transition is one atomic unit: read current state, validate the edge,
// write the new status and open/close the ledger session in a single
// transaction. Same-table requests are serialized by a per-table mutex; the
// version CAS on the UPDATE catches writers outside this process.
type TableService struct {
	DB     *gorm.DB
	Ledger *UsageLedger

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewTableService(db *gorm.DB, ledger *UsageLedger) *TableService {
	return &TableService{
		DB:     db,
		Ledger: ledger,
		locks:  make(map[uint]*sync.Mutex),
	}
}

func (ts *TableService) tableLock(id uint) *sync.Mutex {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	l, ok := ts.locks[id]
	if !ok {
		l = &sync.Mutex{}
		ts.locks[id] = l
	}
	return l
}

// runTx retries the transaction a bounded number of times on infrastructure
// errors. Safe because gorm rolls back before returning, so nothing was
// observably applied. Domain errors are never retried.
func (ts *TableService) runTx(fn func(tx *gorm.DB) error) error {
	const attempts = 3
	var err error
	for i := 0; i < attempts; i++ {
		err = ts.DB.Transaction(fn)
		var derr *models.DomainError
		if err == nil || errors.As(err, &derr) {
			return err
		}
		utils.ErrorLogger.Printf("transaction attempt %d failed: %v", i+1, err)
	}
	return err
}

type CreateTableInput struct {
	TableNumber         string
	Capacity            int
	Area                string
	LocationDescription *string
	Notes               *string
}

type UpdateTableInput struct {
	TableNumber         *string
	Capacity            *int
	Area                *string
	LocationDescription *string
	Notes               *string
	IsActive            *bool
}

type TransitionInput struct {
	GuestCount     int
	Notes          *string
	CustomerName   *string
	CustomerPhone  *string
	WaiterAssigned *string
}

type TableFilter struct {
	Status string
	Area   string
	Query  string
}

// TableStats is the dashboard aggregate: table counts keyed by status and
// by area, active tables only.
type TableStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	ByArea   map[string]int64 `json:"by_area"`
}

func (ts *TableService) Create(input CreateTableInput) (*models.Table, error) {
	if input.Capacity <= 0 {
		return nil, models.ErrInvalidCapacity
	}

	var created models.Table
	err := ts.runTx(func(tx *gorm.DB) error {
		// Area existence is checked inside the same transaction as the
		// insert, so a concurrent area removal cannot slip between the two.
		var area models.AreaOption
		if err := tx.Where("value = ?", input.Area).First(&area).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrUnknownArea
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Table{}).Where("table_number = ?", input.TableNumber).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.ErrDuplicateTableNumber
		}

		created = models.Table{
			TableNumber:         input.TableNumber,
			Capacity:            input.Capacity,
			Status:              models.StatusAvailable,
			Area:                input.Area,
			LocationDescription: input.LocationDescription,
			Notes:               input.Notes,
			IsActive:            true,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (ts *TableService) Get(id uint) (*models.Table, error) {
	var table models.Table
	if err := ts.DB.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrTableNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (ts *TableService) List(filter TableFilter) ([]models.Table, error) {
	q := ts.DB.Model(&models.Table{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Area != "" {
		q = q.Where("area = ?", filter.Area)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("table_number LIKE ? OR location_description LIKE ? OR notes LIKE ?", like, like, like)
	}

	var tables []models.Table
	if err := q.Order("table_number ASC").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (ts *TableService) Stats() (*TableStats, error) {
	stats := &TableStats{
		ByStatus: make(map[string]int64),
		ByArea:   make(map[string]int64),
	}

	type row struct {
		Label string
		Count int64
	}

	var byStatus []row
	if err := ts.DB.Model(&models.Table{}).
		Select("status AS label, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, r := range byStatus {
		stats.ByStatus[r.Label] = r.Count
		stats.Total += r.Count
	}

	var byArea []row
	if err := ts.DB.Model(&models.Table{}).
		Select("area AS label, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("area").Scan(&byArea).Error; err != nil {
		return nil, err
	}
	for _, r := range byArea {
		stats.ByArea[r.Label] = r.Count
	}
	return stats, nil
}

// Update applies a partial administrative edit. It never writes the status
// column and goes through the same per-table lock and version CAS as a
// transition, so an edit cannot silently revert a status change that
// committed in between.
func (ts *TableService) Update(id uint, input UpdateTableInput) (*models.Table, error) {
	if input.Capacity != nil && *input.Capacity <= 0 {
		return nil, models.ErrInvalidCapacity
	}

	lock := ts.tableLock(id)
	lock.Lock()
	defer lock.Unlock()

	var updated models.Table
	err := ts.runTx(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrTableNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"version": table.Version + 1,
		}
		if input.Area != nil {
			var area models.AreaOption
			if err := tx.Where("value = ?", *input.Area).First(&area).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrUnknownArea
				}
				return err
			}
			updates["area"] = *input.Area
		}
		if input.TableNumber != nil && *input.TableNumber != table.TableNumber {
			var count int64
			if err := tx.Model(&models.Table{}).
				Where("table_number = ? AND id <> ?", *input.TableNumber, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return models.ErrDuplicateTableNumber
			}
			updates["table_number"] = *input.TableNumber
		}
		if input.Capacity != nil {
			updates["capacity"] = *input.Capacity
		}
		if input.LocationDescription != nil {
			updates["location_description"] = input.LocationDescription
		}
		if input.Notes != nil {
			updates["notes"] = input.Notes
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}

		res := tx.Model(&models.Table{}).
			Where("id = ? AND version = ?", table.ID, table.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrConcurrentModification
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete hard-deletes a table. Retention decision: the QR binding and all
// closed history rows go with it. An open session blocks deletion.
func (ts *TableService) Delete(id uint) error {
	lock := ts.tableLock(id)
	lock.Lock()
	defer lock.Unlock()

	return ts.runTx(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrTableNotFound
			}
			return err
		}

		var open int64
		if err := tx.Model(&models.UsageSession{}).
			Where("table_id = ? AND end_time IS NULL", id).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return models.ErrTableInUse
		}

		if err := tx.Where("table_id = ?", id).Delete(&models.QRBinding{}).Error; err != nil {
			return err
		}
		if err := tx.Where("table_id = ?", id).Delete(&models.UsageSession{}).Error; err != nil {
			return err
		}
		return tx.Delete(&table).Error
	})
}

// RequestTransition moves a table to target and keeps the ledger in step:
// entering occupied opens a session, leaving occupied closes it. The whole
// thing commits or none of it does. The session the transition opened or
// closed rides back with the table (nil when the ledger was untouched).
func (ts *TableService) RequestTransition(id uint, target models.TableStatus, input TransitionInput) (*models.Table, *models.UsageSession, error) {
	lock := ts.tableLock(id)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	var result models.Table
	var session *models.UsageSession
	err := ts.runTx(func(tx *gorm.DB) error {
		session = nil
		var table models.Table
		if err := tx.First(&table, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrTableNotFound
			}
			return err
		}
		if !table.IsActive {
			return models.ErrTableNotFound
		}
		if !table.Status.CanTransitionTo(target) {
			return models.ErrInvalidTransition
		}

		updates := map[string]interface{}{
			"status":  target,
			"version": table.Version + 1,
		}
		if input.Notes != nil {
			updates["notes"] = input.Notes
		}
		res := tx.Model(&models.Table{}).
			Where("id = ? AND version = ?", table.ID, table.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another writer got between our read and this write.
			return models.ErrConcurrentModification
		}

		if target == models.StatusOccupied {
			opened, err := ts.Ledger.OpenSessionTx(tx, table.ID, OpenSessionInput{
				GuestCount:     input.GuestCount,
				CustomerName:   input.CustomerName,
				CustomerPhone:  input.CustomerPhone,
				WaiterAssigned: input.WaiterAssigned,
			}, now)
			if err != nil {
				return err
			}
			session = opened
		} else if table.Status == models.StatusOccupied {
			// Covers occupied -> cleaning and the out_of_order escape hatch;
			// either way the party is gone and the session must freeze.
			closed, err := ts.Ledger.CloseSessionTx(tx, table.ID, now)
			if err != nil {
				return err
			}
			session = closed
		}

		return tx.First(&result, table.ID).Error
	})
	if err != nil {
		return nil, nil, err
	}

	utils.InfoLogger.Printf("Table %d status changed to %s", result.ID, result.Status)
	return &result, session, nil
}
