package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/cmd/bot/config"
	"github.com/Jacobbrewer1/kira/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/Jacobbrewer1/kira/pkg/messages"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const commandTimeout = time.Minute

// messageCreateHandler runs the text commands.
func (a *App) messageCreateHandler() func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}

		name, args, ok := parseCommand(config.CommandPrefix, m.Content)
		if !ok || !a.commands.Known(name) {
			return
		}

		t := prometheus.NewTimer(monitoring.DiscordCommandDuration.WithLabelValues(name))
		defer t.ObserveDuration()

		l := a.With(
			slog.String(logging.KeyOperationID, uuid.NewString()),
			slog.String(logging.KeyGuildID, m.GuildID),
			slog.String(logging.KeyUserID, m.Author.ID),
			slog.String("command", name),
		)

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		reply, err := a.commands.Handle(ctx, &commandRequest{
			GuildID:   m.GuildID,
			ChannelID: m.ChannelID,
			AuthorID:  m.Author.ID,
			IsAdmin:   a.isAdmin(m),
			Name:      name,
			Args:      args,
		})
		if err != nil {
			l.Error("Error running command", slog.String(logging.KeyError, err.Error()))
			reply = text(messages.ErrUserErrorProcessing)
		}
		if reply == nil {
			return
		}

		reply.Reference = m.Reference()
		if _, err := a.platform.SendMessage(ctx, m.ChannelID, reply); err != nil {
			l.Warn("Error replying to command", slog.String(logging.KeyError, err.Error()))
		}
	}
}

// isAdmin reports whether the author of the message has the administrator permission in the channel.
func (a *App) isAdmin(m *discordgo.MessageCreate) bool {
	if m.GuildID == "" {
		return false
	}

	perms, err := a.s.State.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		perms, err = a.s.UserChannelPermissions(m.Author.ID, m.ChannelID)
		if err != nil {
			a.Warn("Error getting member permissions",
				slog.String(logging.KeyGuildID, m.GuildID),
				slog.String(logging.KeyUserID, m.Author.ID),
				slog.String(logging.KeyError, err.Error()),
			)
			return false
		}
	}
	return perms&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}
