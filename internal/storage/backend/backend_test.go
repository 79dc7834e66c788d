package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipes-api/backend/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		StorageDriver: config.DriverSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "recipes.db"),
		LogLevel:      "error",
	}
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, sqliteConfig(t))
	require.NoError(t, err)
	defer store.Close(ctx)

	assert.NoError(t, store.Ping(ctx))
	recipes, err := store.Recipes.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestOpenClosesConnectionWhenMigrationFails(t *testing.T) {
	var opened *gorm.DB
	original := migrateSchema
	migrateSchema = func(_ context.Context, _ *config.Config, db *gorm.DB) error {
		opened = db
		return errors.New("migration 0002 failed")
	}
	t.Cleanup(func() { migrateSchema = original })

	store, err := Open(context.Background(), sqliteConfig(t))
	require.Error(t, err)
	assert.Nil(t, store)

	require.NotNil(t, opened)
	sqlDB, err := opened.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "connection should be closed")
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StorageDriver: "cassandra"})
	assert.Error(t, err)
}
