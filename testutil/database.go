package testutil

import (
	"path/filepath"
	"testing"

	"github.com/rpupo63/inventory-catalog/database"
	"github.com/rpupo63/inventory-catalog/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database in a per-test temporary directory.
// The connection is closed when the test completes.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := database.OpenSQLite(path, logger.Default.LogMode(logger.Silent))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get connection pool: %v", err)
	}
	t.Cleanup(func() {
		sqlDB.Close()
	})

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return db
}

// NewDatabase wraps NewDB in the repository set
func NewDatabase(t *testing.T) database.Database {
	t.Helper()
	return database.New(NewDB(t))
}
