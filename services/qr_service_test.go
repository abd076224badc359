package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-table-service/models"
)

func TestGetOrCreateTokenIdempotent(t *testing.T) {
	db := setupServiceDB(t)
	qs := NewQRService(db)
	ts := NewTableService(db, NewUsageLedger(db))
	table := mustCreateTable(t, ts, "T001")

	first, err := qs.GetOrCreate(table.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, first.Token)

	second, err := qs.GetOrCreate(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)
}

func TestGetOrCreateTokenUnknownTable(t *testing.T) {
	db := setupServiceDB(t)
	qs := NewQRService(db)

	_, err := qs.GetOrCreate(9999)
	assert.Equal(t, models.ErrTableNotFound, err)
}

func TestResolveToken(t *testing.T) {
	db := setupServiceDB(t)
	qs := NewQRService(db)
	ts := NewTableService(db, NewUsageLedger(db))
	table := mustCreateTable(t, ts, "T001")

	binding, err := qs.GetOrCreate(table.ID)
	assert.NoError(t, err)

	resolved, err := qs.Resolve(binding.Token)
	assert.NoError(t, err)
	assert.Equal(t, table.ID, resolved.ID)

	_, err = qs.Resolve("not-a-token")
	assert.Equal(t, models.ErrTokenNotFound, err)
}

func TestRegenerateInvalidatesOldToken(t *testing.T) {
	db := setupServiceDB(t)
	qs := NewQRService(db)
	ts := NewTableService(db, NewUsageLedger(db))
	table := mustCreateTable(t, ts, "T001")

	old, err := qs.GetOrCreate(table.ID)
	assert.NoError(t, err)
	oldToken := old.Token

	fresh, err := qs.Regenerate(table.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, oldToken, fresh.Token)

	_, err = qs.Resolve(oldToken)
	assert.Equal(t, models.ErrTokenNotFound, err)

	resolved, err := qs.Resolve(fresh.Token)
	assert.NoError(t, err)
	assert.Equal(t, table.ID, resolved.ID)
}

func TestRevokeToken(t *testing.T) {
	db := setupServiceDB(t)
	qs := NewQRService(db)
	ts := NewTableService(db, NewUsageLedger(db))
	table := mustCreateTable(t, ts, "T001")

	binding, err := qs.GetOrCreate(table.ID)
	assert.NoError(t, err)

	assert.NoError(t, qs.Revoke(table.ID))
	_, err = qs.Resolve(binding.Token)
	assert.Equal(t, models.ErrTokenNotFound, err)

	// Revoking again is a no-op.
	assert.NoError(t, qs.Revoke(table.ID))

	// The table can be bound again afterwards, with a fresh token.
	fresh, err := qs.GetOrCreate(table.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, binding.Token, fresh.Token)
}

func TestTokenDiesWithTable(t *testing.T) {
	db := setupServiceDB(t)
	qs := NewQRService(db)
	ts := NewTableService(db, NewUsageLedger(db))
	table := mustCreateTable(t, ts, "T001")

	binding, err := qs.GetOrCreate(table.ID)
	assert.NoError(t, err)

	assert.NoError(t, ts.Delete(table.ID))

	_, err = qs.Resolve(binding.Token)
	assert.Equal(t, models.ErrTokenNotFound, err)
}

func TestTokenHiddenWhileTableInactive(t *testing.T) {
	db := setupServiceDB(t)
	qs := NewQRService(db)
	ts := NewTableService(db, NewUsageLedger(db))
	table := mustCreateTable(t, ts, "T001")

	binding, err := qs.GetOrCreate(table.ID)
	assert.NoError(t, err)

	inactive := false
	_, err = ts.Update(table.ID, UpdateTableInput{IsActive: &inactive})
	assert.NoError(t, err)

	_, err = qs.Resolve(binding.Token)
	assert.Equal(t, models.ErrTokenNotFound, err)
}
