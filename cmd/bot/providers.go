package main

import (
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/cmd/bot/config"
	"github.com/Jacobbrewer1/kira/pkg/audit"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess"
	"github.com/Jacobbrewer1/kira/pkg/guildconfig"
	"github.com/Jacobbrewer1/kira/pkg/platform"
	"github.com/Jacobbrewer1/kira/pkg/provision"
	"github.com/Jacobbrewer1/kira/pkg/tickets"
	"github.com/Jacobbrewer1/kira/pkg/transcript"
	"github.com/Jacobbrewer1/kira/pkg/verification"
)

func provideAuditNotifier(l *slog.Logger, resolver *guildconfig.Resolver, p platform.Platform) *audit.Notifier {
	return audit.NewNotifier(l, resolver, p)
}

func provideTicketManager(
	l *slog.Logger,
	cfg *config.Config,
	store dataaccess.Store,
	resolver *guildconfig.Resolver,
	provisioner *provision.Provisioner,
	builder *transcript.Builder,
	notifier *audit.Notifier,
	p platform.Platform,
) *tickets.Manager {
	return tickets.NewManager(l, store, resolver, provisioner, builder, notifier, p, cfg.TranscriptLimit)
}

func provideVerifier(l *slog.Logger, p platform.Platform, notifier *audit.Notifier) *verification.Verifier {
	return verification.NewVerifier(l, p, notifier)
}

func provideProvisioner(l *slog.Logger, store dataaccess.Store, p platform.Platform) *provision.Provisioner {
	return provision.NewProvisioner(l, store, p)
}

func provideResolver(l *slog.Logger, store dataaccess.Store) *guildconfig.Resolver {
	return guildconfig.NewResolver(l, store)
}

func provideTranscriptBuilder(l *slog.Logger, p platform.Platform) *transcript.Builder {
	return transcript.NewBuilder(l, p)
}

func providePlatform(s *discordgo.Session) platform.Platform {
	return platform.NewDiscord(s)
}

func provideEventHandler(
	l *slog.Logger,
	s *discordgo.Session,
	manager *tickets.Manager,
	verifier *verification.Verifier,
) *eventHandler {
	return newEventHandler(l, manager, verifier, func(channelID string) string {
		if s.State == nil {
			return ""
		}
		ch, err := s.State.Channel(channelID)
		if err != nil {
			return ""
		}
		return ch.Name
	})
}

func provideCommandSet(
	l *slog.Logger,
	store dataaccess.Store,
	resolver *guildconfig.Resolver,
	provisioner *provision.Provisioner,
) *commandSet {
	return newCommandSet(l, config.CommandPrefix, resolver, provisioner, store)
}
