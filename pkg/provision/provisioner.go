// Package provision makes sure the Discord containers the ticket system needs exist, reusing what is already there
// before creating anything.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/Jacobbrewer1/kira/pkg/platform"
)

// DefaultPanelChannelName is the name of the channel the panel is provisioned in.
const DefaultPanelChannelName = "painel-ticket"

// Provisioner ensures categories and well known channels exist.
type Provisioner struct {
	// l is the logger.
	l *slog.Logger

	// dal is the guild data access layer. It holds the category bindings.
	dal dataaccess.GuildDal

	// p is the platform.
	p platform.Platform
}

// NewProvisioner creates a new Provisioner.
func NewProvisioner(l *slog.Logger, dal dataaccess.GuildDal, p platform.Platform) *Provisioner {
	return &Provisioner{
		l:   l.With(slog.String(logging.KeyComponent, "provisioner")),
		dal: dal,
		p:   p,
	}
}

// EnsureCategory returns the ID of the category channel bound to key, in this order:
//  1. the bound category if it still exists;
//  2. an existing category whose name matches displayName, ignoring case, which is then bound;
//  3. a newly created category, which is then bound.
func (p *Provisioner) EnsureCategory(ctx context.Context, guildID string, key entities.CategoryKey, displayName string) (string, error) {
	l := p.l.With(slog.String(logging.KeyGuildID, guildID), slog.String(logging.KeyCategory, string(key)))

	binding, err := p.dal.LookupCategory(ctx, guildID, key)
	if err != nil && !errors.Is(err, dataaccess.ErrNotFound) {
		return "", fmt.Errorf("error looking up category binding: %w", err)
	}

	channels, err := p.p.GuildChannels(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("error listing guild channels: %w", err)
	}

	if binding != nil {
		exists, err := p.categoryExists(ctx, channels, binding.ContainerID)
		if err != nil {
			return "", err
		} else if exists {
			return binding.ContainerID, nil
		}
		l.Warn("Bound category no longer exists, rebinding", slog.String(logging.KeyChannelID, binding.ContainerID))
	}

	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory && strings.EqualFold(ch.Name, displayName) {
			if err := p.dal.BindCategory(ctx, guildID, key, ch.ID, ch.Name); err != nil {
				return "", fmt.Errorf("error binding category: %w", err)
			}
			l.Info("Bound existing category", slog.String(logging.KeyChannelID, ch.ID))
			return ch.ID, nil
		}
	}

	created, err := p.p.CreateChannel(ctx, guildID, discordgo.GuildChannelCreateData{
		Name: displayName,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return "", fmt.Errorf("error creating category: %w", err)
	}

	if err := p.dal.BindCategory(ctx, guildID, key, created.ID, created.Name); err != nil {
		return "", fmt.Errorf("error binding category: %w", err)
	}

	l.Info("Created category", slog.String(logging.KeyChannelID, created.ID))
	return created.ID, nil
}

// categoryExists reports whether id is a category channel. A listing can lag behind recent creations, so an ID
// missing from it is looked up directly.
func (p *Provisioner) categoryExists(ctx context.Context, channels []*discordgo.Channel, id string) (bool, error) {
	for _, ch := range channels {
		if ch.ID == id {
			return ch.Type == discordgo.ChannelTypeGuildCategory, nil
		}
	}

	ch, err := p.p.Channel(ctx, id)
	if errors.Is(err, platform.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("error getting bound category: %w", err)
	}
	return ch.Type == discordgo.ChannelTypeGuildCategory, nil
}

// EnsureTextChannel returns a text channel named name, creating it under parentID when none exists. A channel only
// matches if it sits under parentID, unless parentID is empty.
func (p *Provisioner) EnsureTextChannel(ctx context.Context, guildID, name, parentID string) (*discordgo.Channel, error) {
	channels, err := p.p.GuildChannels(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error listing guild channels: %w", err)
	}

	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText || !strings.EqualFold(ch.Name, name) {
			continue
		}
		if parentID == "" || ch.ParentID == parentID {
			return ch, nil
		}
	}

	created, err := p.p.CreateChannel(ctx, guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: parentID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating text channel: %w", err)
	}
	return created, nil
}

// EnsureGuildSetup provisions every ticket category and, when no panel channel is configured, the panel channel.
func (p *Provisioner) EnsureGuildSetup(ctx context.Context, guildID string) error {
	ids := make(map[entities.CategoryKey]string, len(entities.Categories))
	for _, key := range entities.Categories {
		id, err := p.EnsureCategory(ctx, guildID, key, key.DisplayName())
		if err != nil {
			return fmt.Errorf("error ensuring category %s: %w", key, err)
		}
		ids[key] = id
	}

	cfg, err := p.dal.GetGuildConfig(ctx, guildID)
	if err != nil {
		return fmt.Errorf("error getting guild configuration: %w", err)
	}
	if cfg.PanelChannelID != "" {
		return nil
	}

	panel, err := p.EnsureTextChannel(ctx, guildID, DefaultPanelChannelName, ids[entities.CategorySupport])
	if err != nil {
		return fmt.Errorf("error ensuring panel channel: %w", err)
	}

	if err := p.dal.UpsertGuildConfig(ctx, guildID, &entities.GuildConfigUpdate{PanelChannelID: &panel.ID}); err != nil {
		return fmt.Errorf("error saving panel channel: %w", err)
	}
	return nil
}
