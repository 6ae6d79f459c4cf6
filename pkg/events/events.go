// Package events decodes component interactions into the ticket system events.
package events

import (
	"errors"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/entities"
)

const (
	// CustomIDOpenSupport is the custom ID of the button that opens a support ticket.
	CustomIDOpenSupport = "ticket:open_support"

	// CustomIDCategorySelect is the custom ID of the select menu that opens a ticket of the chosen category.
	CustomIDCategorySelect = "ticket:category_select"

	// CustomIDClose is the custom ID of the button that closes the ticket of the channel it is posted in.
	CustomIDClose = "ticket:close"

	// CustomIDVerify is the custom ID of the button that verifies the member.
	CustomIDVerify = "verify:button"
)

var (
	// ErrNotComponent is returned when the interaction is not a message component interaction.
	ErrNotComponent = errors.New("interaction is not a message component")

	// ErrNotInGuild is returned when the interaction did not happen in a guild.
	ErrNotInGuild = errors.New("interaction did not happen in a guild")

	// ErrUnknownComponent is returned when the custom ID is not one of ours.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrInvalidCategory is returned when the selected category is not a known category.
	ErrInvalidCategory = errors.New("invalid category")
)

// Event is a decoded interaction. It is one of OpenTicket, SelectCategory, CloseTicket or Verify.
type Event interface {
	event()
}

// Base holds what every event carries.
type Base struct {
	GuildID   string
	ChannelID string
	Member    *discordgo.Member
}

// OpenTicket is a click on the open support ticket button.
type OpenTicket struct {
	Base
	Category entities.CategoryKey
}

// SelectCategory is a choice in the category select menu.
type SelectCategory struct {
	Base
	Category entities.CategoryKey
}

// CloseTicket is a click on the close button of a ticket channel.
type CloseTicket struct {
	Base
}

// Verify is a click on the verify button.
type Verify struct {
	Base
}

func (OpenTicket) event()     {}
func (SelectCategory) event() {}
func (CloseTicket) event()    {}
func (Verify) event()         {}

// Decode decodes a component interaction.
func Decode(i *discordgo.Interaction) (Event, error) {
	if i == nil || i.Type != discordgo.InteractionMessageComponent {
		return nil, ErrNotComponent
	}

	data := i.MessageComponentData()
	switch data.CustomID {
	case CustomIDOpenSupport, CustomIDCategorySelect, CustomIDClose, CustomIDVerify:
	default:
		return nil, ErrUnknownComponent
	}

	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		return nil, ErrNotInGuild
	}

	base := Base{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Member:    i.Member,
	}

	switch data.CustomID {
	case CustomIDOpenSupport:
		return OpenTicket{Base: base, Category: entities.CategorySupport}, nil
	case CustomIDCategorySelect:
		if len(data.Values) == 0 {
			return nil, ErrInvalidCategory
		}
		key, err := entities.ParseCategoryKey(data.Values[0])
		if err != nil {
			return nil, ErrInvalidCategory
		}
		return SelectCategory{Base: base, Category: key}, nil
	case CustomIDClose:
		return CloseTicket{Base: base}, nil
	default:
		return Verify{Base: base}, nil
	}
}
