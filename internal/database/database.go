package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catimporter/backend/internal/config"
	"catimporter/backend/internal/logging"
	"catimporter/backend/internal/models"
)

// Connect opens the database for the given driver and runs migrations.
// For sqlite the dsn is a file path; its directory is created if needed.
func Connect(driver, dsn string, logger zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("ensure data dir: %w", err)
			}
		}
		dialector = sqlite.Open(dsn + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Str("driver", driver).Msg("Database connection established.")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info().Msg("Database migrated successfully.")
	return db, nil
}

// Migrate creates or updates the cats, tags and cat_tags tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Cat{}, &models.Tag{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
