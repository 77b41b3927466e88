package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/diewo77/go-access/internal/config"
	"github.com/diewo77/go-access/internal/db"
	"github.com/diewo77/go-access/internal/logx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:           "accessd",
	Short:         "Access-check reference service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("port", "", "HTTP listen port (PORT)")
	flags.String("db-driver", "", "database driver: postgres or sqlite (DB_DRIVER)")
	flags.String("db-path", "", "SQLite database file (DB_PATH)")
	flags.String("log-level", "", "log level (LOG_LEVEL)")
	flags.Bool("migrations", false, "use the versioned SQL migrations instead of AutoMigrate, postgres only (MIGRATIONS)")

	// Flags only override the environment when set explicitly.
	for key, flag := range map[string]string{
		"port":       "port",
		"db_driver":  "db-driver",
		"db_path":    "db-path",
		"log_level":  "log-level",
		"migrations": "migrations",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, checkCmd)
}

func main() {
	config.LoadDotEnv()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what every subcommand starts from.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func bootstrap(ctx context.Context) (*env, error) {
	cfg := config.Load(v)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	logger, err := logx.New(cfg.App.LogLevel, cfg.App.Dev)
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, db: conn}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.logger.Sync()
}

func (e *env) adminSeed() db.AdminSeed {
	return db.AdminSeed{Email: e.cfg.Auth.AdminEmail, Password: e.cfg.Auth.AdminPassword}
}
