package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database from DB_* environment variables. With
// DB_DRIVER=sqlite (or no DB_HOST at all) it falls back to a local sqlite
// file so the service runs without a MySQL instance in development.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" && os.Getenv("DB_HOST") == "" {
		driver = "sqlite"
	}

	if driver == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "tables.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "3306"
	}
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}
