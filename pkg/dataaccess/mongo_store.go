package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/kira/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// DefaultMongoDatabase is the database used when none is configured.
	DefaultMongoDatabase = "kira"

	collectionGuildConfigs     = "guild_configs"
	collectionCategoryBindings = "category_bindings"
	collectionTickets          = "tickets"

	guildDalName  = "guild_dal"
	ticketDalName = "ticket_dal"
)

// MongoStore is the MongoDB implementation of Store.
type MongoStore struct {
	// l is the logger.
	l *slog.Logger

	// client is the Mongo client. This is a connection pool.
	client *mongo.Client

	// database is the name of the database.
	database string
}

// NewMongoStore creates a new MongoDB store.
func NewMongoStore(l *slog.Logger, client *mongo.Client, database string) *MongoStore {
	if database == "" {
		database = DefaultMongoDatabase
	}

	l = l.With(slog.String(logging.KeyDal, "mongo"))

	if client == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &MongoStore{
		l:        l,
		client:   client,
		database: database,
	}
}

func (m *MongoStore) collection(name string) *mongo.Collection {
	return m.client.Database(m.database).Collection(name)
}

// EnsureIndexes creates the indexes the store relies on. The unique ticket index is what makes CreateTicket a
// check-and-insert.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collectionGuildConfigs: {
			{
				Keys:    bson.D{{Key: "guild_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("guild_unique"),
			},
		},
		collectionCategoryBindings: {
			{
				Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "key", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("guild_key_unique"),
			},
		},
		collectionTickets: {
			{
				Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "category_key", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("guild_user_category_unique"),
			},
			{
				Keys:    bson.D{{Key: "guild_id", Value: 1}, {Key: "channel_id", Value: 1}},
				Options: options.Index().SetName("guild_channel"),
			},
		},
	}

	for coll, models := range indexes {
		done := monitoring.Observe(DriverMongo, "store", "ensure_indexes", coll)
		_, err := m.collection(coll).Indexes().CreateMany(ctx, models)
		done()
		if err != nil {
			monitoring.Failed(DriverMongo, "store", "ensure_indexes", coll)
			return fmt.Errorf("error creating indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Ping checks that MongoDB is reachable.
func (m *MongoStore) Ping(ctx context.Context) error {
	defer monitoring.Observe(DriverMongo, "health_check", "ping", "-")()

	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		monitoring.Failed(DriverMongo, "health_check", "ping", "-")
		return fmt.Errorf("error pinging mongo: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoStore) Close(ctx context.Context) error {
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("error disconnecting from mongo: %w", err)
	}
	return nil
}
