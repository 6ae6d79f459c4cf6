package main

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/Jacobbrewer1/kira/pkg/events"
	"github.com/Jacobbrewer1/kira/pkg/messages"
)

const (
	colorBlue  = 0x3498db
	colorGreen = 0x2ecc71
)

// ticketPanel is the message with the open ticket button and the category select menu.
func ticketPanel() *discordgo.MessageSend {
	options := make([]discordgo.SelectMenuOption, 0, len(entities.Categories)-1)
	for _, key := range entities.Categories {
		if key == entities.CategorySupport {
			// Support has its own button.
			continue
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       key.Label(),
			Value:       string(key),
			Description: fmt.Sprintf("Abrir ticket %s", key.Label()),
		})
	}

	minValues := 1
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       messages.TicketPanelTitle,
				Description: messages.TicketPanelDescription,
				Color:       colorBlue,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    messages.OpenSupportLabel,
						Style:    discordgo.PrimaryButton,
						CustomID: events.CustomIDOpenSupport,
						Emoji:    discordgo.ComponentEmoji{Name: "📩"},
					},
				},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    events.CustomIDCategorySelect,
						Placeholder: messages.TicketPanelPlaceholder,
						MinValues:   &minValues,
						MaxValues:   1,
						Options:     options,
					},
				},
			},
		},
	}
}

// verifyPanel is the message with the verify button.
func verifyPanel() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       messages.VerifyPanelTitle,
				Description: messages.VerifyPanelDescription,
				Color:       colorGreen,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    messages.VerifyLabel,
						Style:    discordgo.SuccessButton,
						CustomID: events.CustomIDVerify,
					},
				},
			},
		},
	}
}
