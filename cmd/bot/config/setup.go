package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/kira/pkg/dataaccess"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess/connection"
)

// OpenStore connects to the configured store and prepares its schema.
func OpenStore(ctx context.Context, l *slog.Logger, c *Config) (dataaccess.Store, error) {
	switch c.StoreDriver {
	case dataaccess.DriverMongo:
		return connectMongo(ctx, l, c)
	case dataaccess.DriverSQLite:
		return openSQLite(l, c)
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
}

func connectMongo(ctx context.Context, l *slog.Logger, c *Config) (dataaccess.Store, error) {
	mongoConn := new(connection.MongoDB)
	mongoConn.ConnectionString = c.MongoUri

	client, err := mongoConn.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	} else if client == nil {
		return nil, fmt.Errorf("mongo client came back nil")
	}

	store := dataaccess.NewMongoStore(l, client, c.MongoDatabase)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}

	l.Debug("Connected to MongoDB", slog.String("database", c.MongoDatabase))
	return store, nil
}

func openSQLite(l *slog.Logger, c *Config) (dataaccess.Store, error) {
	db, err := connection.OpenSQLite(c.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite: %w", err)
	}

	store := dataaccess.NewSQLiteStore(l, db)
	if err := store.AutoMigrate(); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}

	l.Debug("Opened SQLite store", slog.String("path", c.SQLitePath))
	return store, nil
}
