package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB opens the service database under dataDir. An empty dataDir
// yields an in-memory database, which the tests rely on. The in-memory DSN
// is named and shared so every pooled connection sees the same database.
func NewSQLiteDB(dataDir string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, err
		}
		dsn = filepath.Join(dataDir, "promotion.db")
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Build{}, &Promotion{}); err != nil {
		return nil, err
	}
	return db, nil
}
