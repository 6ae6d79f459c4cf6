package dataaccess

import (
	"context"
	"errors"

	"github.com/Jacobbrewer1/kira/pkg/entities"
)

const (
	// DriverMongo selects the MongoDB store.
	DriverMongo = "mongo"

	// DriverSQLite selects the SQLite store.
	DriverSQLite = "sqlite"
)

var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("not found")

	// ErrTicketExists is returned when a ticket already exists for the guild, user and category.
	ErrTicketExists = errors.New("ticket already exists")
)

// GuildDal is the data access layer for guild configuration and category bindings.
type GuildDal interface {
	// GetGuildConfig gets the configuration of a guild. A guild that was never configured returns a config with only
	// the guild ID set.
	GetGuildConfig(ctx context.Context, guildID string) (*entities.GuildConfig, error)

	// UpsertGuildConfig applies a partial update to the configuration of a guild, creating it if needed.
	UpsertGuildConfig(ctx context.Context, guildID string, update *entities.GuildConfigUpdate) error

	// BindCategory binds a category key to a container, replacing any previous binding.
	BindCategory(ctx context.Context, guildID string, key entities.CategoryKey, containerID, name string) error

	// LookupCategory gets the binding for a category key. ErrNotFound is returned if there is none.
	LookupCategory(ctx context.Context, guildID string, key entities.CategoryKey) (*entities.CategoryBinding, error)
}

// TicketDal is the data access layer for open tickets.
type TicketDal interface {
	// HasOpenTicket reports whether the user has an open ticket in the category.
	HasOpenTicket(ctx context.Context, guildID, userID string, key entities.CategoryKey) (bool, error)

	// CreateTicket inserts a ticket. ErrTicketExists is returned if the user already has a ticket in the category.
	CreateTicket(ctx context.Context, ticket *entities.Ticket) error

	// FindTicketByChannel gets the ticket held in a channel. ErrNotFound is returned if there is none.
	FindTicketByChannel(ctx context.Context, guildID, channelID string) (*entities.Ticket, error)

	// DeleteTicketByChannel deletes the ticket held in a channel and reports whether it was there. Deleting a
	// missing ticket is not an error.
	DeleteTicketByChannel(ctx context.Context, guildID, channelID string) (bool, error)

	// CountOpenTickets counts the open tickets of a guild per category.
	CountOpenTickets(ctx context.Context, guildID string) (map[entities.CategoryKey]int, error)
}

// Store is the persistent store.
type Store interface {
	GuildDal
	TicketDal

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store.
	Close(ctx context.Context) error
}
