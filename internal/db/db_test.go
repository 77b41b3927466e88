package db_test

import (
	"context"
	"testing"

	"github.com/diewo77/go-access"
	"github.com/diewo77/go-access/auth"
	"github.com/diewo77/go-access/internal/config"
	"github.com/diewo77/go-access/internal/db"
	"github.com/diewo77/go-access/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: "file:" + t.Name() + "?mode=memory&cache=shared"}
	conn, err := db.Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	return conn
}

func TestDialector(t *testing.T) {
	d, err := db.Dialector(config.DatabaseConfig{Driver: config.DriverPostgres})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = db.Dialector(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = db.Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSeedIdempotent(t *testing.T) {
	conn := setupTestDB(t)
	admin := db.AdminSeed{Email: "admin@example.com", Password: "changeme"}

	require.NoError(t, db.Seed(conn, admin))
	require.NoError(t, db.Seed(conn, admin))

	var profiles, users, superPerms int64
	conn.Model(&models.Profile{}).Count(&profiles)
	conn.Model(&models.User{}).Count(&users)
	conn.Model(&models.Permission{}).Where("kind = ? AND action = ?", "*", "*").Count(&superPerms)
	assert.Equal(t, int64(3), profiles)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), superPerms)

	var author models.Profile
	require.NoError(t, conn.Preload("Permissions").Where("name = ?", db.ProfileAuthor).First(&author).Error)
	require.Len(t, author.Permissions, 1)
	assert.Equal(t, access.Permission("Posts:*"), author.Permissions[0].Code())

	var reader models.Profile
	require.NoError(t, conn.Preload("Permissions").Where("name = ?", db.ProfileReader).First(&reader).Error)
	assert.Len(t, reader.Permissions, 2)
}

func TestSeedAdmin(t *testing.T) {
	conn := setupTestDB(t)
	require.NoError(t, db.SeedProfiles(conn))
	require.NoError(t, db.SeedAdmin(conn, db.AdminSeed{Email: "root@example.com", Password: "pw"}))

	var user models.User
	require.NoError(t, conn.Preload("Profile").Where("email = ?", "root@example.com").First(&user).Error)
	require.NotNil(t, user.Profile)
	assert.Equal(t, db.ProfileAdmin, user.Profile.Name)
	assert.NoError(t, auth.CheckPassword(user.Password, "pw"))
}

func TestSeedAdmin_NoPassword(t *testing.T) {
	conn := setupTestDB(t)
	require.NoError(t, db.Seed(conn, db.AdminSeed{Email: "root@example.com"}))

	var users int64
	conn.Model(&models.User{}).Count(&users)
	assert.Zero(t, users)
}

func TestMigrationSource(t *testing.T) {
	src, err := db.MigrationSource()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)

	r, ident, err := src.ReadUp(next)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "posts", ident)
}

func TestApply(t *testing.T) {
	conn := setupTestDB(t)
	sqlite := config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}

	assert.NoError(t, db.Apply(conn, sqlite, false))
	assert.True(t, conn.Migrator().HasTable(&models.Post{}))

	// Versioned SQL migrations target PostgreSQL only.
	assert.Error(t, db.Apply(conn, sqlite, true))
}
