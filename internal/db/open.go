package db

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/diewo77/go-access/internal/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connection retry policy, so the service can start before Postgres is ready.
const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Dialector returns the gorm dialector for the configured driver.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, errors.Newf("unsupported database driver %q", cfg.Driver)
	}
}

// Open connects to the database, retrying a few times before giving up.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("connecting to database",
		zap.String("driver", cfg.Driver),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.DBName),
		zap.String("path", cfg.Path))

	var conn *gorm.DB
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		conn, err = gorm.Open(dialector, &gorm.Config{})
		if err == nil {
			break
		}
		logger.Warn("database connection failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", connectAttempts),
			zap.Error(err))
		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "connect database")
		case <-time.After(connectBackoff):
		}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "connect database after %d attempts", connectAttempts)
	}

	if cfg.Driver == config.DriverSQLite {
		// One connection keeps ":memory:" databases shared and avoids SQLITE_BUSY.
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, errors.Wrap(err, "sqlite handle")
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return conn, nil
}
