// Package storage opens the repositories for the configured STORE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/nixfunds/finance-api/internal/config"
	"github.com/nixfunds/finance-api/internal/database"
	"github.com/nixfunds/finance-api/internal/logging"
	"github.com/nixfunds/finance-api/internal/transaction"
	"github.com/nixfunds/finance-api/internal/user"
)

// Stores bundles the repositories of one backend and knows how to prepare
// and release it.
type Stores struct {
	Users        user.Repository
	Transactions transaction.Repository

	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Migrate brings the schema up to date: goose migrations on Postgres, indexes
// on Mongo, nothing in memory.
func (s *Stores) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the backend named by cfg.Store.Driver
func Open(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, err := database.OpenMongo(ctx, cfg.Mongo.URL, cfg.Mongo.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to mongo", "database", cfg.Mongo.Database)
		return mongoStores(client, cfg.Mongo.Database), nil

	case config.StorePostgres:
		db, err := database.OpenPostgres(ctx, cfg.Database.ConnectionString())
		if err != nil {
			return nil, err
		}
		logger.Info("connected to postgres", "host", cfg.Database.Host, "database", cfg.Database.DBName)
		return postgresStores(db), nil

	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return Memory(), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// Memory returns process-local repositories
func Memory() *Stores {
	return &Stores{
		Users:        user.NewMemoryRepository(),
		Transactions: transaction.NewMemoryRepository(),
	}
}

func mongoStores(client *mongo.Client, dbName string) *Stores {
	db := client.Database(dbName)
	return &Stores{
		Users:        user.NewMongoRepository(db),
		Transactions: transaction.NewMongoRepository(db),
		migrate: func(ctx context.Context) error {
			return database.EnsureMongoIndexes(ctx, db)
		},
		close: client.Disconnect,
	}
}

func postgresStores(db *bun.DB) *Stores {
	return &Stores{
		Users:        user.NewPostgresRepository(db),
		Transactions: transaction.NewPostgresRepository(db),
		migrate: func(ctx context.Context) error {
			return database.MigratePostgres(ctx, db)
		},
		close: func(context.Context) error {
			return db.Close()
		},
	}
}
