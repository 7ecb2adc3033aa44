package main

import (
	"fmt"

	"community-event-planner/config"
	"community-event-planner/internal/store"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSQLiteFile = "events.db"

// InitDB opens the configured database and migrates the event tables.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres", "":
		dsn, err := cfg.PostgresDSN()
		if err != nil {
			return nil, err
		}
		dialector = postgres.Open(dsn)
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = defaultSQLiteFile
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := store.Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	log.Info().Str("driver", dialector.Name()).Msg("✅ Database connected and migrated successfully")
	return db, nil
}
