package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

// Discord implements Platform on top of a discordgo session.
type Discord struct {
	// s is the discord session.
	s *discordgo.Session
}

// NewDiscord creates a new Discord platform.
func NewDiscord(s *discordgo.Session) *Discord {
	return &Discord{s: s}
}

// BotUserID is the user ID of the bot. It is only known once the session is ready.
func (d *Discord) BotUserID() string {
	if d.s.State != nil && d.s.State.User != nil {
		return d.s.State.User.ID
	}
	return ""
}

// GuildChannels lists the channels of a guild, preferring the state cache.
func (d *Discord) GuildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error) {
	if channels := d.cachedChannels(guildID); len(channels) > 0 {
		return channels, nil
	}

	channels, err := d.s.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting guild channels: %w", wrapRESTError(err))
	}
	return channels, nil
}

// cachedChannels copies the channels of a cached guild. The slice is appended to by the gateway handlers, so it is
// copied under the state lock.
func (d *Discord) cachedChannels(guildID string) []*discordgo.Channel {
	if d.s.State == nil {
		return nil
	}

	g, err := d.s.State.Guild(guildID)
	if err != nil {
		return nil
	}

	d.s.State.RLock()
	defer d.s.State.RUnlock()

	channels := make([]*discordgo.Channel, len(g.Channels))
	copy(channels, g.Channels)
	return channels
}

// Channel gets a channel. The state cache lags behind the REST API until the gateway event arrives, so a miss is
// confirmed over REST before ErrNotFound is returned.
func (d *Discord) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if d.s.State != nil {
		if ch, err := d.s.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}

	ch, err := d.s.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting channel %s: %w", channelID, wrapRESTError(err))
	}
	d.cacheChannel(ch)
	return ch, nil
}

// CreateChannel creates a channel in a guild. The channel is cached right away so a listing made before the
// CHANNEL_CREATE event arrives still sees it.
func (d *Discord) CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	ch, err := d.s.GuildChannelCreateComplex(guildID, data, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error creating channel %s: %w", data.Name, wrapRESTError(err))
	}
	d.cacheChannel(ch)
	return ch, nil
}

// DeleteChannel deletes a channel and drops it from the state cache.
func (d *Discord) DeleteChannel(ctx context.Context, channelID string) error {
	ch, err := d.s.ChannelDelete(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error deleting channel %s: %w", channelID, wrapRESTError(err))
	}

	if d.s.State != nil && ch != nil {
		// Not cached is fine.
		_ = d.s.State.ChannelRemove(ch)
	}
	return nil
}

func (d *Discord) cacheChannel(ch *discordgo.Channel) {
	if d.s.State == nil || ch == nil {
		return
	}
	// Guilds that are not cached are listed over REST, so there is nothing to update.
	_ = d.s.State.ChannelAdd(ch)
}

// SendMessage sends a message to a channel.
func (d *Discord) SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	m, err := d.s.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error sending message: %w", wrapRESTError(err))
	}
	return m, nil
}

// ChannelMessages gets up to limit messages posted after afterID.
func (d *Discord) ChannelMessages(ctx context.Context, channelID string, limit int, afterID string) ([]*discordgo.Message, error) {
	msgs, err := d.s.ChannelMessages(channelID, limit, "", afterID, "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting channel messages: %w", wrapRESTError(err))
	}
	return msgs, nil
}

// GuildRoles lists the roles of a guild.
func (d *Discord) GuildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	roles, err := d.s.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error getting guild roles: %w", wrapRESTError(err))
	}
	return roles, nil
}

// CreateRole creates a role in a guild.
func (d *Discord) CreateRole(ctx context.Context, guildID, name string) (*discordgo.Role, error) {
	role, err := d.s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: name}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("error creating role %s: %w", name, wrapRESTError(err))
	}
	return role, nil
}

// AddMemberRole grants a role to a member.
func (d *Discord) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	if err := d.s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error adding role: %w", wrapRESTError(err))
	}
	return nil
}

// wrapRESTError maps unknown resource errors to ErrNotFound while keeping the original error in the chain.
func wrapRESTError(err error) error {
	er := new(discordgo.RESTError)
	if errors.As(err, &er) && er.Message != nil {
		switch er.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownRole, discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeGeneralError: // General is thrown when a 404 is returned.
			return errors.Join(ErrNotFound, err)
		}
	}
	return err
}
