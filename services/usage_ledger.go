package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-table-service/models"
)

// UsageLedger owns the append-only occupancy session history. Sessions are
// opened and closed by the status transition flow; amount, customer and
// milestone updates land on the open session until it is frozen at close.
type UsageLedger struct {
	DB *gorm.DB
}

func NewUsageLedger(db *gorm.DB) *UsageLedger {
	return &UsageLedger{DB: db}
}

type OpenSessionInput struct {
	GuestCount     int
	CustomerName   *string
	CustomerPhone  *string
	UsageType      string
	WaiterAssigned *string
}

type SessionUpdateInput struct {
	OrderID            *string
	CustomerName       *string
	CustomerPhone      *string
	TotalOrderAmount   *decimal.Decimal
	TotalPaymentAmount *decimal.Decimal
	UsageType          *string
}

// OpenSession starts a new session for the table. The transition engine is
// the only expected caller, but the one-open-session invariant is enforced
// here too so an engine defect cannot corrupt the ledger.
func (ul *UsageLedger) OpenSession(tableID uint, input OpenSessionInput) (*models.UsageSession, error) {
	return ul.OpenSessionTx(ul.DB, tableID, input, time.Now())
}

func (ul *UsageLedger) OpenSessionTx(tx *gorm.DB, tableID uint, input OpenSessionInput, at time.Time) (*models.UsageSession, error) {
	var existing models.UsageSession
	err := tx.Where("table_id = ? AND end_time IS NULL", tableID).First(&existing).Error
	if err == nil {
		return nil, models.ErrSessionAlreadyOpen
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	guests := input.GuestCount
	if guests <= 0 {
		guests = 1
	}
	usageType := input.UsageType
	if usageType == "" {
		usageType = "dine_in"
	}

	session := models.UsageSession{
		UsageID:        uuid.NewString(),
		TableID:        tableID,
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		GuestCount:     guests,
		StartTime:      at,
		UsageType:      usageType,
		WaiterAssigned: input.WaiterAssigned,
	}
	if err := tx.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// CloseSession freezes the open session for the table and returns it.
// A retry after a successful close sees NoOpenSession, never a double close;
// callers resolving an ambiguous timeout should fetch history instead.
func (ul *UsageLedger) CloseSession(tableID uint) (*models.UsageSession, error) {
	return ul.CloseSessionTx(ul.DB, tableID, time.Now())
}

func (ul *UsageLedger) CloseSessionTx(tx *gorm.DB, tableID uint, at time.Time) (*models.UsageSession, error) {
	var session models.UsageSession
	err := tx.Where("table_id = ? AND end_time IS NULL", tableID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNoOpenSession
		}
		return nil, err
	}

	// Only the closing columns are written, guarded on the row still being
	// open; a full-row Save here would stomp milestone or amount writes that
	// land between the read and the write.
	duration := int64(at.Sub(session.StartTime).Minutes())
	res := tx.Model(&models.UsageSession{}).
		Where("id = ? AND end_time IS NULL", session.ID).
		Updates(map[string]interface{}{
			"end_time":         at,
			"duration_minutes": duration,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrNoOpenSession
	}
	session.EndTime = &at
	session.DurationMinutes = &duration
	return &session, nil
}

// OpenSessionFor returns the currently open session for a table.
func (ul *UsageLedger) OpenSessionFor(tableID uint) (*models.UsageSession, error) {
	var session models.UsageSession
	err := ul.DB.Where("table_id = ? AND end_time IS NULL", tableID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNoOpenSession
		}
		return nil, err
	}
	return &session, nil
}

// RecordMilestone stamps one of the milestone timestamps on the open session.
// Re-recording a kind with an earlier timestamp is rejected; equal or later
// timestamps overwrite (a late correction moving time forward is fine).
func (ul *UsageLedger) RecordMilestone(tableID uint, kind string, at time.Time) (*models.UsageSession, error) {
	var column string
	switch kind {
	case models.MilestoneOrderPlaced:
		column = "order_placed_at"
	case models.MilestoneFoodServed:
		column = "food_served_at"
	case models.MilestonePaymentCompleted:
		column = "payment_completed_at"
	default:
		return nil, models.ErrUnknownMilestone
	}

	session, err := ul.OpenSessionFor(tableID)
	if err != nil {
		return nil, err
	}

	var current *time.Time
	switch kind {
	case models.MilestoneOrderPlaced:
		current = session.OrderPlacedAt
	case models.MilestoneFoodServed:
		current = session.FoodServedAt
	case models.MilestonePaymentCompleted:
		current = session.PaymentCompletedAt
	}
	if current != nil && at.Before(*current) {
		return nil, models.ErrInvalidMilestoneOrder
	}

	// Single-column write, guarded on the row still being open and the stamp
	// not moving backwards. Whatever committed since the read above, this can
	// neither resurrect a closed session nor regress a milestone.
	res := ul.DB.Model(&models.UsageSession{}).
		Where("id = ? AND end_time IS NULL AND ("+column+" IS NULL OR "+column+" <= ?)", session.ID, at).
		Update(column, at)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost a race; re-read to tell a close from a forward stamp.
		var now models.UsageSession
		if err := ul.DB.First(&now, session.ID).Error; err != nil {
			return nil, err
		}
		if !now.IsOpen() {
			return nil, models.ErrNoOpenSession
		}
		return nil, models.ErrInvalidMilestoneOrder
	}

	stamp := at
	switch kind {
	case models.MilestoneOrderPlaced:
		session.OrderPlacedAt = &stamp
	case models.MilestoneFoodServed:
		session.FoodServedAt = &stamp
	case models.MilestonePaymentCompleted:
		session.PaymentCompletedAt = &stamp
	}
	return session, nil
}

// UpdateSession applies order/payment collaborator updates to a session,
// addressed by its public usage id. Closed sessions are immutable; the write
// only touches the submitted columns and is guarded on the row still being
// open, so a close committing mid-flight wins and the update is refused.
func (ul *UsageLedger) UpdateSession(usageID string, input SessionUpdateInput) (*models.UsageSession, error) {
	var session models.UsageSession
	err := ul.DB.Where("usage_id = ?", usageID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNoOpenSession
		}
		return nil, err
	}
	if !session.IsOpen() {
		return nil, models.ErrSessionClosed
	}

	updates := map[string]interface{}{}
	if input.OrderID != nil {
		updates["order_id"] = input.OrderID
		session.OrderID = input.OrderID
	}
	if input.CustomerName != nil {
		updates["customer_name"] = input.CustomerName
		session.CustomerName = input.CustomerName
	}
	if input.CustomerPhone != nil {
		updates["customer_phone"] = input.CustomerPhone
		session.CustomerPhone = input.CustomerPhone
	}
	if input.TotalOrderAmount != nil {
		updates["total_order_amount"] = *input.TotalOrderAmount
		session.TotalOrderAmount = *input.TotalOrderAmount
	}
	if input.TotalPaymentAmount != nil {
		updates["total_payment_amount"] = *input.TotalPaymentAmount
		session.TotalPaymentAmount = *input.TotalPaymentAmount
	}
	if input.UsageType != nil {
		updates["usage_type"] = *input.UsageType
		session.UsageType = *input.UsageType
	}
	if len(updates) == 0 {
		return &session, nil
	}

	res := ul.DB.Model(&models.UsageSession{}).
		Where("id = ? AND end_time IS NULL", session.ID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrSessionClosed
	}
	return &session, nil
}

// History returns a table's sessions newest-first, paginated.
func (ul *UsageLedger) History(tableID uint, page, pageSize int) ([]models.UsageSession, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := ul.DB.Model(&models.UsageSession{}).Where("table_id = ?", tableID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []models.UsageSession
	err := ul.DB.Where("table_id = ?", tableID).
		Order("start_time DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}
