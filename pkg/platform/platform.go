// Package platform is the boundary to the chat platform. Everything the ticket system asks Discord to do goes
// through Platform so the lifecycle can be exercised without a gateway connection.
package platform

import (
	"context"
	"errors"

	"github.com/Jacobbrewer1/discordgo"
)

// ErrNotFound is returned when the requested channel, role or message does not exist.
var ErrNotFound = errors.New("not found on platform")

// Platform is the set of platform calls the ticket system makes.
type Platform interface {
	// BotUserID is the user ID of the bot itself.
	BotUserID() string

	// GuildChannels lists every channel of a guild.
	GuildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error)

	// Channel gets a channel. ErrNotFound is returned when it no longer exists.
	Channel(ctx context.Context, channelID string) (*discordgo.Channel, error)

	// CreateChannel creates a channel in a guild.
	CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)

	// DeleteChannel deletes a channel.
	DeleteChannel(ctx context.Context, channelID string) error

	// SendMessage sends a message to a channel.
	SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)

	// ChannelMessages gets up to limit messages posted after afterID.
	ChannelMessages(ctx context.Context, channelID string, limit int, afterID string) ([]*discordgo.Message, error)

	// GuildRoles lists every role of a guild.
	GuildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error)

	// CreateRole creates a role in a guild.
	CreateRole(ctx context.Context, guildID, name string) (*discordgo.Role, error)

	// AddMemberRole grants a role to a member.
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
}
