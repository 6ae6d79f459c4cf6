// Package guildconfig resolves per guild settings: where audit messages go, which role is staff and where the
// panel lives.
package guildconfig

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/Jacobbrewer1/kira/pkg/logging"
)

// Resolver reads and writes guild configuration.
type Resolver struct {
	// l is the logger.
	l *slog.Logger

	// dal is the guild data access layer.
	dal dataaccess.GuildDal
}

// NewResolver creates a new Resolver.
func NewResolver(l *slog.Logger, dal dataaccess.GuildDal) *Resolver {
	return &Resolver{
		l:   l.With(slog.String(logging.KeyComponent, "guild_config")),
		dal: dal,
	}
}

// Get returns the configuration of a guild. Guilds that were never configured get an empty configuration.
func (r *Resolver) Get(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	cfg, err := r.dal.GetGuildConfig(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild configuration: %w", err)
	}
	if cfg == nil {
		cfg = &entities.GuildConfig{GuildID: guildID}
	}
	return cfg, nil
}

// LogChannel returns the configured log channel, or an empty string.
func (r *Resolver) LogChannel(ctx context.Context, guildID string) (string, error) {
	cfg, err := r.Get(ctx, guildID)
	if err != nil {
		return "", err
	}
	return cfg.LogChannelID, nil
}

// SetStaffRole sets the staff role.
func (r *Resolver) SetStaffRole(ctx context.Context, guildID, roleID string) error {
	return r.update(ctx, guildID, &entities.GuildConfigUpdate{StaffRoleID: &roleID})
}

// SetLogChannel sets the log channel.
func (r *Resolver) SetLogChannel(ctx context.Context, guildID, channelID string) error {
	return r.update(ctx, guildID, &entities.GuildConfigUpdate{LogChannelID: &channelID})
}

// SetPanelChannel sets the panel channel.
func (r *Resolver) SetPanelChannel(ctx context.Context, guildID, channelID string) error {
	return r.update(ctx, guildID, &entities.GuildConfigUpdate{PanelChannelID: &channelID})
}

func (r *Resolver) update(ctx context.Context, guildID string, u *entities.GuildConfigUpdate) error {
	if err := r.dal.UpsertGuildConfig(ctx, guildID, u); err != nil {
		return fmt.Errorf("error saving guild configuration: %w", err)
	}
	r.l.Debug("Guild configuration updated", slog.String(logging.KeyGuildID, guildID))
	return nil
}

// IsStaff reports whether the member is an administrator or holds the configured staff role.
func IsStaff(member *discordgo.Member, cfg *entities.GuildConfig) bool {
	if member == nil {
		return false
	}
	if member.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator {
		return true
	}
	if cfg == nil || cfg.StaffRoleID == "" {
		return false
	}
	return slices.Contains(member.Roles, cfg.StaffRoleID)
}
