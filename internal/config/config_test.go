package config_test

import (
	"testing"
	"time"

	"github.com/diewo77/go-access/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load(viper.New())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Cache.ProfileTTL)
	assert.True(t, cfg.App.Dev)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("PROFILE_CACHE_SIZE", "10")
	t.Setenv("DEV", "false")
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg := config.Load(viper.New())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Cache.ProfileSize)
	assert.False(t, cfg.App.Dev)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := config.Load(viper.New())
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = config.Load(viper.New())
	cfg.App.Dev = false
	assert.Error(t, cfg.Validate(), "default secret must be rejected in production")

	cfg = config.Load(viper.New())
	cfg.Auth.TokenTTL = 0
	assert.Error(t, cfg.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", d.DSN())
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=disable", d.URL())
}
