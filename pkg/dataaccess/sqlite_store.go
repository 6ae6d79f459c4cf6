package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/kira/pkg/custom"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type guildConfigRecord struct {
	GuildID        string `gorm:"primaryKey"`
	PanelChannelID string
	LogChannelID   string
	StaffRoleID    string
}

func (guildConfigRecord) TableName() string { return collectionGuildConfigs }

type categoryBindingRecord struct {
	GuildID     string `gorm:"primaryKey"`
	Key         string `gorm:"primaryKey;column:category_key"`
	ContainerID string
	DisplayName string
}

func (categoryBindingRecord) TableName() string { return collectionCategoryBindings }

type ticketRecord struct {
	GuildID     string `gorm:"primaryKey;index:idx_tickets_guild_channel,priority:1"`
	UserID      string `gorm:"primaryKey"`
	CategoryKey string `gorm:"primaryKey"`
	ChannelID   string `gorm:"not null;index:idx_tickets_guild_channel,priority:2"`
	CreatedAt   custom.Datetime
}

func (ticketRecord) TableName() string { return collectionTickets }

func (r *ticketRecord) toEntity() *entities.Ticket {
	return &entities.Ticket{
		GuildID:   r.GuildID,
		UserID:    r.UserID,
		Category:  entities.CategoryKey(r.CategoryKey),
		ChannelID: r.ChannelID,
		CreatedAt: r.CreatedAt,
	}
}

// SQLiteStore is the GORM/SQLite implementation of Store.
type SQLiteStore struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *gorm.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(l *slog.Logger, db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{
		l:  l.With(slog.String(logging.KeyDal, DriverSQLite)),
		db: db,
	}
}

// AutoMigrate creates or updates the tables.
func (s *SQLiteStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(&guildConfigRecord{}, &categoryBindingRecord{}, &ticketRecord{}); err != nil {
		return fmt.Errorf("error migrating sqlite store: %w", err)
	}
	return nil
}

// GetGuildConfig gets the configuration of a guild.
func (s *SQLiteStore) GetGuildConfig(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	defer monitoring.Observe(DriverSQLite, guildDalName, "get_guild_config", collectionGuildConfigs)()

	rec := new(guildConfigRecord)
	err := s.db.WithContext(ctx).Where("guild_id = ?", guildID).Take(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entities.GuildConfig{GuildID: guildID}, nil
	} else if err != nil {
		monitoring.Failed(DriverSQLite, guildDalName, "get_guild_config", collectionGuildConfigs)
		return nil, fmt.Errorf("error getting guild config: %w", err)
	}

	return &entities.GuildConfig{
		GuildID:        rec.GuildID,
		PanelChannelID: rec.PanelChannelID,
		LogChannelID:   rec.LogChannelID,
		StaffRoleID:    rec.StaffRoleID,
	}, nil
}

// UpsertGuildConfig applies a partial update in a single statement.
func (s *SQLiteStore) UpsertGuildConfig(ctx context.Context, guildID string, update *entities.GuildConfigUpdate) error {
	defer monitoring.Observe(DriverSQLite, guildDalName, "upsert_guild_config", collectionGuildConfigs)()

	rec := &guildConfigRecord{GuildID: guildID}
	var columns []string
	if update != nil {
		if update.PanelChannelID != nil {
			rec.PanelChannelID = *update.PanelChannelID
			columns = append(columns, "panel_channel_id")
		}
		if update.LogChannelID != nil {
			rec.LogChannelID = *update.LogChannelID
			columns = append(columns, "log_channel_id")
		}
		if update.StaffRoleID != nil {
			rec.StaffRoleID = *update.StaffRoleID
			columns = append(columns, "staff_role_id")
		}
	}

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}},
		DoNothing: len(columns) == 0,
	}
	if len(columns) > 0 {
		onConflict.DoUpdates = clause.AssignmentColumns(columns)
	}

	if err := s.db.WithContext(ctx).Clauses(onConflict).Create(rec).Error; err != nil {
		monitoring.Failed(DriverSQLite, guildDalName, "upsert_guild_config", collectionGuildConfigs)
		return fmt.Errorf("error upserting guild config: %w", err)
	}
	return nil
}

// BindCategory binds a category key to a container.
func (s *SQLiteStore) BindCategory(ctx context.Context, guildID string, key entities.CategoryKey, containerID, name string) error {
	defer monitoring.Observe(DriverSQLite, guildDalName, "bind_category", collectionCategoryBindings)()

	rec := &categoryBindingRecord{
		GuildID:     guildID,
		Key:         string(key),
		ContainerID: containerID,
		DisplayName: name,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}, {Name: "category_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"container_id", "display_name"}),
	}).Create(rec).Error
	if err != nil {
		monitoring.Failed(DriverSQLite, guildDalName, "bind_category", collectionCategoryBindings)
		return fmt.Errorf("error binding category: %w", err)
	}
	return nil
}

// LookupCategory gets the binding for a category key.
func (s *SQLiteStore) LookupCategory(ctx context.Context, guildID string, key entities.CategoryKey) (*entities.CategoryBinding, error) {
	defer monitoring.Observe(DriverSQLite, guildDalName, "lookup_category", collectionCategoryBindings)()

	rec := new(categoryBindingRecord)
	err := s.db.WithContext(ctx).Where("guild_id = ? AND category_key = ?", guildID, string(key)).Take(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		monitoring.Failed(DriverSQLite, guildDalName, "lookup_category", collectionCategoryBindings)
		return nil, fmt.Errorf("error getting category binding: %w", err)
	}

	return &entities.CategoryBinding{
		GuildID:     rec.GuildID,
		Key:         entities.CategoryKey(rec.Key),
		ContainerID: rec.ContainerID,
		DisplayName: rec.DisplayName,
	}, nil
}

// HasOpenTicket reports whether the user has an open ticket in the category.
func (s *SQLiteStore) HasOpenTicket(ctx context.Context, guildID, userID string, key entities.CategoryKey) (bool, error) {
	defer monitoring.Observe(DriverSQLite, ticketDalName, "has_open_ticket", collectionTickets)()

	var count int64
	err := s.db.WithContext(ctx).Model(&ticketRecord{}).
		Where("guild_id = ? AND user_id = ? AND category_key = ?", guildID, userID, string(key)).
		Limit(1).
		Count(&count).Error
	if err != nil {
		monitoring.Failed(DriverSQLite, ticketDalName, "has_open_ticket", collectionTickets)
		return false, fmt.Errorf("error checking for open ticket: %w", err)
	}
	return count > 0, nil
}

// CreateTicket inserts a ticket. The composite primary key rejects a second ticket for the same key.
func (s *SQLiteStore) CreateTicket(ctx context.Context, ticket *entities.Ticket) error {
	defer monitoring.Observe(DriverSQLite, ticketDalName, "create_ticket", collectionTickets)()

	rec := &ticketRecord{
		GuildID:     ticket.GuildID,
		UserID:      ticket.UserID,
		CategoryKey: string(ticket.Category),
		ChannelID:   ticket.ChannelID,
		CreatedAt:   ticket.CreatedAt,
	}

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrTicketExists
		}
		monitoring.Failed(DriverSQLite, ticketDalName, "create_ticket", collectionTickets)
		return fmt.Errorf("error creating ticket: %w", err)
	}
	return nil
}

// FindTicketByChannel gets the ticket held in a channel.
func (s *SQLiteStore) FindTicketByChannel(ctx context.Context, guildID, channelID string) (*entities.Ticket, error) {
	defer monitoring.Observe(DriverSQLite, ticketDalName, "find_ticket_by_channel", collectionTickets)()

	rec := new(ticketRecord)
	err := s.db.WithContext(ctx).Where("guild_id = ? AND channel_id = ?", guildID, channelID).Take(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		monitoring.Failed(DriverSQLite, ticketDalName, "find_ticket_by_channel", collectionTickets)
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	return rec.toEntity(), nil
}

// DeleteTicketByChannel deletes the ticket held in a channel.
func (s *SQLiteStore) DeleteTicketByChannel(ctx context.Context, guildID, channelID string) (bool, error) {
	defer monitoring.Observe(DriverSQLite, ticketDalName, "delete_ticket_by_channel", collectionTickets)()

	res := s.db.WithContext(ctx).Where("guild_id = ? AND channel_id = ?", guildID, channelID).Delete(&ticketRecord{})
	if res.Error != nil {
		monitoring.Failed(DriverSQLite, ticketDalName, "delete_ticket_by_channel", collectionTickets)
		return false, fmt.Errorf("error deleting ticket: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CountOpenTickets counts the open tickets of a guild per category.
func (s *SQLiteStore) CountOpenTickets(ctx context.Context, guildID string) (map[entities.CategoryKey]int, error) {
	defer monitoring.Observe(DriverSQLite, ticketDalName, "count_open_tickets", collectionTickets)()

	var rows []struct {
		CategoryKey string
		Count       int
	}
	err := s.db.WithContext(ctx).Model(&ticketRecord{}).
		Select("category_key, COUNT(*) AS count").
		Where("guild_id = ?", guildID).
		Group("category_key").
		Scan(&rows).Error
	if err != nil {
		monitoring.Failed(DriverSQLite, ticketDalName, "count_open_tickets", collectionTickets)
		return nil, fmt.Errorf("error counting tickets: %w", err)
	}

	counts := make(map[entities.CategoryKey]int, len(rows))
	for _, r := range rows {
		counts[entities.CategoryKey(r.CategoryKey)] = r.Count
	}
	return counts, nil
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	defer monitoring.Observe(DriverSQLite, "health_check", "ping", "-")()

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("error getting sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		monitoring.Failed(DriverSQLite, "health_check", "ping", "-")
		return fmt.Errorf("error pinging sqlite: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("error getting sql db: %w", err)
	}
	return sqlDB.Close()
}

// isUniqueViolation matches unique violations. glebarez/sqlite often returns plain-text errors for them.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}
