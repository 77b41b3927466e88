// Package config provides service configuration loaded from environment
// variables, an optional .env file and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevSessionSecret is the signing secret used when none is configured.
const DevSessionSecret = "devsessionsecret"

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Cache    CacheConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the profile store connection settings.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the SQLite database file (or ":memory:").
	Path string
}

// AuthConfig holds token and bootstrap admin settings.
type AuthConfig struct {
	SessionSecret string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

// CacheConfig sizes the profile cache consulted by access checks.
type CacheConfig struct {
	ProfileTTL  time.Duration
	ProfileSize int
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
	LogLevel   string
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// SetDefaults registers the local development defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("server_read_timeout", 15)
	v.SetDefault("server_write_timeout", 15)
	v.SetDefault("server_idle_timeout", 60)

	v.SetDefault("db_driver", DriverPostgres)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "access")
	v.SetDefault("db_password", "access123")
	v.SetDefault("db_name", "access")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_path", "access.db")

	v.SetDefault("session_secret", DevSessionSecret)
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("admin_email", "admin@example.com")
	v.SetDefault("admin_password", "")

	v.SetDefault("profile_cache_ttl", 5*time.Minute)
	v.SetDefault("profile_cache_size", 1024)

	v.SetDefault("dev", true)
	v.SetDefault("migrations", false)
	v.SetDefault("log_level", "info")
}

// LoadDotEnv loads a .env file into the process environment.
// A missing file is not an error; existing variables are not overridden.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load reads configuration from v, which falls back to environment variables
// (upper-cased keys) and then to the defaults.
func Load(v *viper.Viper) *Config {
	SetDefaults(v)
	v.AutomaticEnv()
	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("port"),
			ReadTimeout:  v.GetInt("server_read_timeout"),
			WriteTimeout: v.GetInt("server_write_timeout"),
			IdleTimeout:  v.GetInt("server_idle_timeout"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("db_driver"),
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
			Path:     v.GetString("db_path"),
		},
		Auth: AuthConfig{
			SessionSecret: v.GetString("session_secret"),
			TokenTTL:      v.GetDuration("token_ttl"),
			AdminEmail:    v.GetString("admin_email"),
			AdminPassword: v.GetString("admin_password"),
		},
		Cache: CacheConfig{
			ProfileTTL:  v.GetDuration("profile_cache_ttl"),
			ProfileSize: v.GetInt("profile_cache_size"),
		},
		App: AppConfig{
			Dev:        v.GetBool("dev"),
			Migrations: v.GetBool("migrations"),
			LogLevel:   v.GetString("log_level"),
		},
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.Newf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if !c.App.Dev && c.Auth.SessionSecret == DevSessionSecret {
		return errors.New("SESSION_SECRET must be set outside dev mode")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.Newf("TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}
