package database_test

import (
	"bytes"
	"fmt"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"luxe/internal/database"
	"luxe/internal/models"
)

func TestOpenMigratesSchema(t *testing.T) {
	db := database.OpenTest(t)
	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestNewLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   database.NewLogger(log.New(&buf, "", 0)),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.Migrate(db))

	var user models.User
	err = db.First(&user, "id = ?", "missing").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	err = db.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "no_such_table")
}
