package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-table-service/models"
)

func TestCreateTableValidation(t *testing.T) {
	db := setupServiceDB(t)
	ts := NewTableService(db, NewUsageLedger(db))

	_, err := ts.Create(CreateTableInput{TableNumber: "T001", Capacity: 0, Area: "indoor"})
	assert.Equal(t, models.ErrInvalidCapacity, err)

	_, err = ts.Create(CreateTableInput{TableNumber: "T001", Capacity: 4, Area: "rooftop"})
	assert.Equal(t, models.ErrUnknownArea, err)

	table, err := ts.Create(CreateTableInput{TableNumber: "T001", Capacity: 4, Area: "indoor"})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, table.Status)
	assert.True(t, table.IsActive)

	_, err = ts.Create(CreateTableInput{TableNumber: "T001", Capacity: 2, Area: "indoor"})
	assert.Equal(t, models.ErrDuplicateTableNumber, err)

	// Duplicate check covers inactive tables too.
	inactive := false
	_, err = ts.Update(table.ID, UpdateTableInput{IsActive: &inactive})
	assert.NoError(t, err)
	_, err = ts.Create(CreateTableInput{TableNumber: "T001", Capacity: 2, Area: "indoor"})
	assert.Equal(t, models.ErrDuplicateTableNumber, err)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	db := setupServiceDB(t)
	ts := NewTableService(db, NewUsageLedger(db))

	loc := "by the window"
	created, err := ts.Create(CreateTableInput{
		TableNumber:         "T001",
		Capacity:            4,
		Area:                "indoor",
		LocationDescription: &loc,
	})
	assert.NoError(t, err)

	got, err := ts.Get(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.TableNumber, got.TableNumber)
	assert.Equal(t, created.Capacity, got.Capacity)
	assert.Equal(t, created.Area, got.Area)
	assert.Equal(t, created.Status, got.Status)
	assert.NotNil(t, got.LocationDescription)
	assert.Equal(t, loc, *got.LocationDescription)
}

func TestTransitionOpensAndClosesSession(t *testing.T) {
	db := setupServiceDB(t)
	ledger := NewUsageLedger(db)
	ts := NewTableService(db, ledger)
	table := mustCreateTable(t, ts, "T001")

	updated, opened, err := ts.RequestTransition(table.ID, models.StatusOccupied, TransitionInput{GuestCount: 3})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusOccupied, updated.Status)
	assert.NotNil(t, opened)
	assert.True(t, opened.IsOpen())

	session, err := ledger.OpenSessionFor(table.ID)
	assert.NoError(t, err)
	assert.True(t, session.IsOpen())
	assert.Equal(t, 3, session.GuestCount)
	assert.False(t, session.StartTime.IsZero())

	updated, closed, err := ts.RequestTransition(table.ID, models.StatusCleaning, TransitionInput{})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCleaning, updated.Status)
	// The closed session rides back with the transition for broadcasting.
	assert.NotNil(t, closed)
	assert.NotNil(t, closed.EndTime)
	assert.Equal(t, session.UsageID, closed.UsageID)

	_, err = ledger.OpenSessionFor(table.ID)
	assert.Equal(t, models.ErrNoOpenSession, err)

	sessions, total, err := ledger.History(table.ID, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.NotNil(t, sessions[0].EndTime)
	assert.NotNil(t, sessions[0].DurationMinutes)
}

func TestTransitionRejectsBadEdges(t *testing.T) {
	db := setupServiceDB(t)
	ts := NewTableService(db, NewUsageLedger(db))
	table := mustCreateTable(t, ts, "T001")

	// available -> cleaning is not an edge.
	_, _, err := ts.RequestTransition(table.ID, models.StatusCleaning, TransitionInput{})
	assert.Equal(t, models.ErrInvalidTransition, err)

	// Resubmitting the current status is rejected, not a silent no-op.
	_, _, err = ts.RequestTransition(table.ID, models.StatusAvailable, TransitionInput{})
	assert.Equal(t, models.ErrInvalidTransition, err)

	// occupied -> available must pass through cleaning.
	_, _, err = ts.RequestTransition(table.ID, models.StatusOccupied, TransitionInput{GuestCount: 2})
	assert.NoError(t, err)
	_, _, err = ts.RequestTransition(table.ID, models.StatusAvailable, TransitionInput{})
	assert.Equal(t, models.ErrInvalidTransition, err)
}

func TestTransitionFullStateMachine(t *testing.T) {
	db := setupServiceDB(t)
	ts := NewTableService(db, NewUsageLedger(db))

	// Walk every allowed edge from a fresh table forced into the source state.
	i := 0
	for from, targets := range models.AllowedTransitions {
		for _, to := range targets {
			i++
			table := mustCreateTable(t, ts, "W"+string(rune('A'+i)))
			err := db.Model(&models.Table{}).Where("id = ?", table.ID).
				Update("status", from).Error
			assert.NoError(t, err)
			if from == models.StatusOccupied {
				_, err = ts.Ledger.OpenSession(table.ID, OpenSessionInput{GuestCount: 2})
				assert.NoError(t, err)
			}

			updated, _, err := ts.RequestTransition(table.ID, to, TransitionInput{GuestCount: 2})
			assert.NoError(t, err, "%s -> %s", from, to)
			assert.Equal(t, to, updated.Status)
		}
	}
}

func TestTransitionOnMissingOrInactiveTable(t *testing.T) {
	db := setupServiceDB(t)
	ts := NewTableService(db, NewUsageLedger(db))

	_, _, err := ts.RequestTransition(9999, models.StatusOccupied, TransitionInput{})
	assert.Equal(t, models.ErrTableNotFound, err)

	table := mustCreateTable(t, ts, "T001")
	inactive := false
	_, err = ts.Update(table.ID, UpdateTableInput{IsActive: &inactive})
	assert.NoError(t, err)

	_, _, err = ts.RequestTransition(table.ID, models.StatusOccupied, TransitionInput{})
	assert.Equal(t, models.ErrTableNotFound, err)
}

func TestConcurrentSeatingOnlyOneWins(t *testing.T) {
	db := setupServiceDB(t)
	ledger := NewUsageLedger(db)
	ts := NewTableService(db, ledger)
	table := mustCreateTable(t, ts, "T001")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = ts.RequestTransition(table.ID, models.StatusOccupied, TransitionInput{GuestCount: 2})
		}(i)
	}
	wg.Wait()

	var okCount, conflictCount int
	for _, err := range errs {
		switch err {
		case nil:
			okCount++
		case models.ErrInvalidTransition, models.ErrConcurrentModification:
			conflictCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, conflictCount)

	// Exactly one open session afterwards.
	var open int64
	err := db.Model(&models.UsageSession{}).
		Where("table_id = ? AND end_time IS NULL", table.ID).
		Count(&open).Error
	assert.NoError(t, err)
	assert.Equal(t, int64(1), open)
}

func TestTransitionBumpsVersion(t *testing.T) {
	db := setupServiceDB(t)
	ts := NewTableService(db, NewUsageLedger(db))
	table := mustCreateTable(t, ts, "T001")

	updated, _, err := ts.RequestTransition(table.ID, models.StatusReserved, TransitionInput{})
	assert.NoError(t, err)
	assert.Greater(t, updated.Version, table.Version)
}

func TestUpdatePreservesStatusAndBumpsVersion(t *testing.T) {
	db := setupServiceDB(t)
	ts := NewTableService(db, NewUsageLedger(db))
	table := mustCreateTable(t, ts, "T001")

	moved, _, err := ts.RequestTransition(table.ID, models.StatusReserved, TransitionInput{})
	assert.NoError(t, err)

	// An administrative edit must leave the status a transition wrote alone
	// and move the version forward, so interleaved transitions see the CAS
	// miss instead of a silent revert.
	notes := "window seat"
	updated, err := ts.Update(table.ID, UpdateTableInput{Notes: &notes})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusReserved, updated.Status)
	assert.Greater(t, updated.Version, moved.Version)
	assert.NotNil(t, updated.Notes)
	assert.Equal(t, notes, *updated.Notes)
}

func TestDeleteTableBlockedByOpenSession(t *testing.T) {
	db := setupServiceDB(t)
	ledger := NewUsageLedger(db)
	ts := NewTableService(db, ledger)
	table := mustCreateTable(t, ts, "T001")

	_, _, err := ts.RequestTransition(table.ID, models.StatusOccupied, TransitionInput{GuestCount: 2})
	assert.NoError(t, err)

	err = ts.Delete(table.ID)
	assert.Equal(t, models.ErrTableInUse, err)

	_, _, err = ts.RequestTransition(table.ID, models.StatusCleaning, TransitionInput{})
	assert.NoError(t, err)

	err = ts.Delete(table.ID)
	assert.NoError(t, err)

	_, err = ts.Get(table.ID)
	assert.Equal(t, models.ErrTableNotFound, err)

	// History rows go with the table (retention: cascade hard delete).
	var rows int64
	assert.NoError(t, db.Model(&models.UsageSession{}).Where("table_id = ?", table.ID).Count(&rows).Error)
	assert.Equal(t, int64(0), rows)
}

func TestStatsCountsActiveTables(t *testing.T) {
	db := setupServiceDB(t)
	ts := NewTableService(db, NewUsageLedger(db))

	mustCreateTable(t, ts, "T001")
	t2 := mustCreateTable(t, ts, "T002")
	_, _, err := ts.RequestTransition(t2.ID, models.StatusOccupied, TransitionInput{GuestCount: 2})
	assert.NoError(t, err)

	stats, err := ts.Stats()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.ByStatus["available"])
	assert.Equal(t, int64(1), stats.ByStatus["occupied"])
	assert.Equal(t, int64(2), stats.ByArea["indoor"])
}
