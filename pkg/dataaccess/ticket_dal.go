package dataaccess

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/kira/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HasOpenTicket reports whether the user has an open ticket in the category.
func (m *MongoStore) HasOpenTicket(ctx context.Context, guildID, userID string, key entities.CategoryKey) (bool, error) {
	defer monitoring.Observe(DriverMongo, ticketDalName, "has_open_ticket", collectionTickets)()

	filter := bson.M{"guild_id": guildID, "user_id": userID, "category_key": key}
	count, err := m.collection(collectionTickets).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		monitoring.Failed(DriverMongo, ticketDalName, "has_open_ticket", collectionTickets)
		return false, fmt.Errorf("error checking for open ticket: %w", err)
	}
	return count > 0, nil
}

// CreateTicket inserts a ticket. The unique index on (guild_id, user_id, category_key) rejects a second ticket.
func (m *MongoStore) CreateTicket(ctx context.Context, ticket *entities.Ticket) error {
	defer monitoring.Observe(DriverMongo, ticketDalName, "create_ticket", collectionTickets)()

	if _, err := m.collection(collectionTickets).InsertOne(ctx, ticket); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrTicketExists
		}
		monitoring.Failed(DriverMongo, ticketDalName, "create_ticket", collectionTickets)
		return fmt.Errorf("error creating ticket: %w", err)
	}
	return nil
}

// FindTicketByChannel gets the ticket held in a channel.
func (m *MongoStore) FindTicketByChannel(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	defer monitoring.Observe(DriverMongo, ticketDalName, "find_ticket_by_channel", collectionTickets)()

	ticket := new(entities.Ticket)
	err := m.collection(collectionTickets).FindOne(ctx, bson.M{
		"guild_id":   guildID,
		"channel_id": channelID,
	}).Decode(ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		monitoring.Failed(DriverMongo, ticketDalName, "find_ticket_by_channel", collectionTickets)
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return ticket, nil
}

// DeleteTicketByChannel deletes the ticket held in a channel.
func (m *MongoStore) DeleteTicketByChannel(ctx context.Context, guildID, channelID string) (bool, error) {
	defer monitoring.Observe(DriverMongo, ticketDalName, "delete_ticket_by_channel", collectionTickets)()

	res, err := m.collection(collectionTickets).DeleteOne(ctx, bson.M{
		"guild_id":   guildID,
		"channel_id": channelID,
	})
	if err != nil {
		monitoring.Failed(DriverMongo, ticketDalName, "delete_ticket_by_channel", collectionTickets)
		return false, fmt.Errorf("error deleting ticket: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// CountOpenTickets counts the open tickets of a guild per category.
func (m *MongoStore) CountOpenTickets(ctx context.Context, guildID string) (map[entities.CategoryKey]int, error) {
	defer monitoring.Observe(DriverMongo, ticketDalName, "count_open_tickets", collectionTickets)()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"guild_id": guildID}}},
		{{Key: "$group", Value: bson.M{"_id": "$category_key", "count": bson.M{"$sum": 1}}}},
	}

	cur, err := m.collection(collectionTickets).Aggregate(ctx, pipeline)
	if err != nil {
		monitoring.Failed(DriverMongo, ticketDalName, "count_open_tickets", collectionTickets)
		return nil, fmt.Errorf("error counting tickets: %w", err)
	}
	defer cur.Close(ctx)

	counts := make(map[entities.CategoryKey]int)
	for cur.Next(ctx) {
		var row struct {
			Key   entities.CategoryKey `bson:"_id"`
			Count int                  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("error decoding ticket count: %w", err)
		}
		counts[row.Key] = row.Count
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticket counts: %w", err)
	}
	return counts, nil
}
