package config

import (
	"fmt"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_management/internal/models"
)

// InitDB opens the product store. A postgres DSN in DATABASE_URL wins;
// otherwise the file-backed sqlite store is used and switched to WAL so
// readers are not blocked during a writer's transaction.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	if cfg.DatabaseURL != "" {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("cannot connect to db: %w", err)
	}

	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return nil, fmt.Errorf("cannot run migration: %w", err)
	}

	if cfg.DatabaseURL == "" {
		if err := db.Exec("PRAGMA journal_mode = WAL;").Error; err != nil {
			return nil, fmt.Errorf("cannot enable WAL: %w", err)
		}
	}

	return db, nil
}
