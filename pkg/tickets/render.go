package tickets

import (
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/audit"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/Jacobbrewer1/kira/pkg/events"
	"github.com/Jacobbrewer1/kira/pkg/messages"
)

const (
	auditCreated             = messages.AuditTicketCreated
	auditCreateFailed        = messages.AuditTicketCreateFailed
	auditChannelDeleteFailed = messages.AuditChannelDeleteFailed

	colorOpen   = 0x2ecc71
	colorClosed = 0xe74c3c

	openedAtLayout = "2006-01-02 15:04:05 UTC"
)

const (
	memberPermissions = discordgo.PermissionViewChannel |
		discordgo.PermissionSendMessages |
		discordgo.PermissionReadMessageHistory

	botPermissions = memberPermissions | discordgo.PermissionManageChannels
)

// overwrites hides the channel from everyone except the owner, the bot and the staff role.
func overwrites(guildID, userID, botID, staffRoleID string) []*discordgo.PermissionOverwrite {
	o := []*discordgo.PermissionOverwrite{
		{
			// The @everyone role has the ID of the guild.
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    userID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberPermissions,
		},
		{
			ID:    botID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: botPermissions,
		},
	}

	if staffRoleID != "" {
		o = append(o, &discordgo.PermissionOverwrite{
			ID:    staffRoleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: memberPermissions,
		})
	}

	return o
}

func introMessage(t *entities.Ticket) *discordgo.MessageSend {
	mention := fmt.Sprintf("<@%s>", t.UserID)
	return &discordgo.MessageSend{
		Content: mention,
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       fmt.Sprintf("🎫 Ticket - %s", t.Category.Label()),
				Description: fmt.Sprintf(messages.TicketIntroDescription, mention),
				Color:       colorOpen,
				Footer:      &discordgo.MessageEmbedFooter{Text: messages.TicketFooter},
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    messages.CloseLabel,
						Style:    discordgo.DangerButton,
						CustomID: events.CustomIDClose,
						Emoji:    discordgo.ComponentEmoji{Name: "🔒"},
					},
				},
			},
		},
	}
}

// TranscriptFileName is the name of the transcript attachment of a closed ticket.
func TranscriptFileName(guildID, channelID string) string {
	return fmt.Sprintf("transcript-%s-%s.txt", guildID, channelID)
}

func closedEntry(t *entities.Ticket, req CloseRequest, text string) *audit.Entry {
	return &audit.Entry{
		Content: messages.AuditTranscriptAttached,
		Embed: &discordgo.MessageEmbed{
			Title: messages.TicketClosedTitle,
			Color: colorClosed,
			Fields: []*discordgo.MessageEmbedField{
				{Name: messages.FieldChannel, Value: "#" + channelLabel(req), Inline: true},
				{Name: messages.FieldCategory, Value: string(t.Category), Inline: true},
				{Name: messages.FieldOpenedAt, Value: t.CreatedAt.Time().UTC().Format(openedAtLayout), Inline: false},
				{Name: messages.FieldClosedBy, Value: fmt.Sprintf("<@%s>", req.Member.User.ID), Inline: true},
				{Name: messages.FieldOwner, Value: fmt.Sprintf("<@%s>", t.UserID), Inline: true},
			},
		},
		Files: []*discordgo.File{
			{
				Name:        TranscriptFileName(t.GuildID, t.ChannelID),
				ContentType: "text/plain; charset=utf-8",
				Reader:      strings.NewReader(text),
			},
		},
	}
}
