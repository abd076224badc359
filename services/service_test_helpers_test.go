package services

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-table-service/models"
	"github.com/yeremiapane/restaurant-table-service/utils"
)

// setupServiceDB opens a named in-memory sqlite database (named so every
// pooled connection sees the same data) and migrates the core models.
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.AreaOption{},
		&models.Table{},
		&models.UsageSession{},
		&models.QRBinding{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	if err := db.Create(&models.AreaOption{Value: "indoor", Label: "Indoor"}).Error; err != nil {
		t.Fatalf("failed to seed area: %v", err)
	}
	return db
}

func mustCreateTable(t *testing.T, ts *TableService, number string) *models.Table {
	t.Helper()
	table, err := ts.Create(CreateTableInput{
		TableNumber: number,
		Capacity:    4,
		Area:        "indoor",
	})
	if err != nil {
		t.Fatalf("failed to create table %s: %v", number, err)
	}
	return table
}
