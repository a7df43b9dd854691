package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenTest returns a migrated in-memory SQLite database private to t.
func OpenTest(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
