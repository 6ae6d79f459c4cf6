package entities

import (
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/kira/pkg/custom"
)

// Ticket is an open ticket. Closed tickets are deleted.
type Ticket struct {
	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// UserID is the ID of the user that created the ticket.
	UserID string `json:"user_id" bson:"user_id"`

	// Category is the category of the ticket.
	Category CategoryKey `json:"category_key" bson:"category_key"`

	// ChannelID is the ID of the channel that the ticket is in.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`
}

// ChannelName builds the name of a ticket channel.
// For example, a financeiro ticket for "Big Wolf" is named "financeiro-big-wolf".
func ChannelName(key CategoryKey, displayName string) string {
	safe := strings.ReplaceAll(strings.ToLower(displayName), " ", "-")
	return fmt.Sprintf("%s-%s", key.ChannelPrefix(), safe)
}
