// Package backend opens the repositories for the configured storage driver.
package backend

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipes-api/backend/config"
	"github.com/pageza/recipes-api/backend/internal/database"
	"github.com/pageza/recipes-api/backend/internal/storage"
	"github.com/pageza/recipes-api/backend/internal/storage/gormstore"
	"github.com/pageza/recipes-api/backend/internal/storage/mongostore"
	"github.com/pageza/recipes-api/backend/migrations"
)

// Backend bundles the repositories of one storage driver with its lifecycle hooks.
type Backend struct {
	Recipes  storage.RecipeRepository
	Comments storage.CommentRepository

	ping  func(context.Context) error
	close func(context.Context) error
}

// Ping checks that the store is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

// Close releases the store connections.
func (b *Backend) Close(ctx context.Context) error {
	return b.close(ctx)
}

// Open connects to the store selected by cfg.StorageDriver and prepares its schema.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.New(cfg)
		if err != nil {
			return nil, err
		}
		store := FromGorm(db)
		if err := migrateSchema(ctx, cfg, db); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// FromGorm builds a Backend on an open gorm connection.
func FromGorm(db *gorm.DB) *Backend {
	return &Backend{
		Recipes:  gormstore.NewRecipeRepository(db),
		Comments: gormstore.NewCommentRepository(db),
		ping: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func openMongo(ctx context.Context, cfg *config.Config) (*Backend, error) {
	client, err := database.NewMongoClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDatabase)

	recipes := mongostore.NewRecipeRepository(db)
	if err := recipes.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Backend{
		Recipes:  recipes,
		Comments: mongostore.NewCommentRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: client.Disconnect,
	}, nil
}

var migrateSchema = migrate

func migrate(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg.StorageDriver == config.DriverSQLite {
		return database.AutoMigrate(db)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	_, err = database.RunMigrations(ctx, sqlDB, migrations.FS)
	return err
}
