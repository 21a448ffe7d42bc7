// Package testutil provides shared test helpers for setting up databases.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"catimporter/backend/internal/config"
	"catimporter/backend/internal/database"
)

// TestDB opens a migrated sqlite database in a temporary directory that
// is closed and removed when the test ends.
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(config.DriverSQLite, filepath.Join(t.TempDir(), "cats.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
