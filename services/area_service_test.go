package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-table-service/models"
)

func TestAddAndListAreas(t *testing.T) {
	db := setupServiceDB(t)
	as := NewAreaService(db)

	_, err := as.Add("outdoor", "Outdoor")
	assert.NoError(t, err)
	_, err = as.Add("vip", "VIP Lounge")
	assert.NoError(t, err)

	_, err = as.Add("outdoor", "Terrace")
	assert.Equal(t, models.ErrDuplicateArea, err)

	areas, err := as.List()
	assert.NoError(t, err)
	// Insertion order: the seeded indoor first, then ours.
	assert.Len(t, areas, 3)
	assert.Equal(t, "indoor", areas[0].Value)
	assert.Equal(t, "outdoor", areas[1].Value)
	assert.Equal(t, "vip", areas[2].Value)
}

func TestRemoveAreaInUse(t *testing.T) {
	db := setupServiceDB(t)
	as := NewAreaService(db)
	ts := NewTableService(db, NewUsageLedger(db))

	table := mustCreateTable(t, ts, "T001")

	err := as.Remove("indoor")
	assert.Equal(t, models.ErrAreaInUse, err)

	// Deactivating the referencing table releases the area.
	inactive := false
	_, err = ts.Update(table.ID, UpdateTableInput{IsActive: &inactive})
	assert.NoError(t, err)

	assert.NoError(t, as.Remove("indoor"))

	err = as.Remove("indoor")
	assert.Equal(t, models.ErrUnknownArea, err)
}

func TestRemoveAreaAfterReassignment(t *testing.T) {
	db := setupServiceDB(t)
	as := NewAreaService(db)
	ts := NewTableService(db, NewUsageLedger(db))

	_, err := as.Add("outdoor", "Outdoor")
	assert.NoError(t, err)
	table := mustCreateTable(t, ts, "T001")

	err = as.Remove("indoor")
	assert.Equal(t, models.ErrAreaInUse, err)

	area := "outdoor"
	_, err = ts.Update(table.ID, UpdateTableInput{Area: &area})
	assert.NoError(t, err)

	assert.NoError(t, as.Remove("indoor"))

	// The table now depends on outdoor instead.
	err = as.Remove("outdoor")
	assert.Equal(t, models.ErrAreaInUse, err)
}
