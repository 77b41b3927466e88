package db

import (
	"github.com/cockroachdb/errors"
	"github.com/diewo77/go-access/internal/config"
	"github.com/diewo77/go-access/internal/models"
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for all models.
// Call this at application startup or as part of a migration step.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		// Requesters & authorization
		&models.User{},
		&models.Profile{},
		&models.Permission{},
		// Guarded entities
		&models.Post{},
	)
	return errors.Wrap(err, "auto-migrate")
}

// Apply brings the schema up to date. With useSQL the versioned SQL
// migrations are run (PostgreSQL only); otherwise AutoMigrate is used.
func Apply(db *gorm.DB, cfg config.DatabaseConfig, useSQL bool) error {
	if !useSQL {
		return Migrate(db)
	}
	if cfg.Driver != config.DriverPostgres {
		return errors.Newf("sql migrations require %s, got %s", config.DriverPostgres, cfg.Driver)
	}
	return MigrateSQL(cfg.URL())
}
