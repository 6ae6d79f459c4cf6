package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/kira/pkg/logging"
)

func (a *App) guildJoinedHandler() func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		if g.Unavailable {
			return
		}

		l := a.With(slog.String(logging.KeyGuildID, g.ID))
		l.Info(fmt.Sprintf("Joined guild %s", g.Name))

		// Increment the total number of guilds.
		monitoring.TotalDiscordGuilds.Inc()

		ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
		defer cancel()

		if err := a.provisioner.EnsureGuildSetup(ctx, g.ID); err != nil {
			l.Error("Error setting up guild", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func (a *App) guildLeaveHandler() func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		if g.Unavailable {
			// Outage, not a leave.
			return
		}

		a.Info("Left guild", slog.String(logging.KeyGuildID, g.ID))

		// Decrement the total number of guilds.
		monitoring.TotalDiscordGuilds.Dec()
	}
}
