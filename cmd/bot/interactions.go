package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/Jacobbrewer1/kira/pkg/events"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/Jacobbrewer1/kira/pkg/messages"
	"github.com/Jacobbrewer1/kira/pkg/tickets"
	"github.com/Jacobbrewer1/kira/pkg/verification"
	"github.com/google/uuid"
)

// interactionTimeout bounds the side effects of a single interaction. It is not tied to the interaction token, so
// the work completes even when the member is gone.
const interactionTimeout = 2 * time.Minute

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// channelNamer resolves the name of a channel.
type channelNamer func(channelID string) string

// eventHandler runs the decoded component events and decides what the member is told.
type eventHandler struct {
	l *slog.Logger

	tickets     *tickets.Manager
	verifier    *verification.Verifier
	channelName channelNamer
}

func newEventHandler(l *slog.Logger, manager *tickets.Manager, verifier *verification.Verifier, namer channelNamer) *eventHandler {
	if namer == nil {
		namer = func(string) string { return "" }
	}
	return &eventHandler{
		l:           l,
		tickets:     manager,
		verifier:    verifier,
		channelName: namer,
	}
}

// Handle runs the event and returns the reply for the member and the outcome label.
func (h *eventHandler) Handle(ctx context.Context, l *slog.Logger, ev events.Event) (string, string) {
	switch e := ev.(type) {
	case events.OpenTicket:
		return h.open(ctx, l, e.Base, e.Category)
	case events.SelectCategory:
		return h.open(ctx, l, e.Base, e.Category)
	case events.CloseTicket:
		_, err := h.tickets.Close(ctx, tickets.CloseRequest{
			GuildID:     e.GuildID,
			Member:      e.Member,
			ChannelID:   e.ChannelID,
			ChannelName: h.channelName(e.ChannelID),
		})
		return closeReply(l, err)
	case events.Verify:
		return verifyReply(l, h.verifier.Verify(ctx, e.GuildID, e.Member))
	default:
		l.Error("Unhandled event", slog.String("type", fmt.Sprintf("%T", ev)))
		return messages.ErrUserErrorProcessing, outcomeFailed
	}
}

func (h *eventHandler) open(ctx context.Context, l *slog.Logger, b events.Base, key entities.CategoryKey) (string, string) {
	ticket, err := h.tickets.Open(ctx, tickets.OpenRequest{
		GuildID:  b.GuildID,
		Member:   b.Member,
		Category: key,
	})
	if err != nil {
		return openReply(l, key, err)
	}
	return fmt.Sprintf(messages.TicketCreated, ticket.ChannelID), outcomeOK
}

func openReply(l *slog.Logger, key entities.CategoryKey, err error) (string, string) {
	switch {
	case errors.Is(err, tickets.ErrDuplicateTicket):
		if key == entities.CategorySupport {
			return messages.ErrDuplicateSupport, outcomeRejected
		}
		return messages.ErrDuplicateTicket, outcomeRejected
	case errors.Is(err, tickets.ErrInvalidCategory):
		return messages.ErrInvalidCategory, outcomeRejected
	case errors.Is(err, tickets.ErrChannelCreate):
		return fmt.Sprintf(messages.ErrTicketCreate, err), outcomeFailed
	default:
		l.Error("Error opening ticket", slog.String(logging.KeyError, err.Error()))
		return messages.ErrUserErrorProcessing, outcomeFailed
	}
}

// closeReply is empty on success, the channel is gone by then.
func closeReply(l *slog.Logger, err error) (string, string) {
	switch {
	case err == nil:
		return "", outcomeOK
	case errors.Is(err, tickets.ErrTicketNotFound):
		return messages.ErrTicketNotFound, outcomeRejected
	case errors.Is(err, tickets.ErrNotAuthorized):
		return messages.ErrCannotClose, outcomeRejected
	default:
		l.Error("Error closing ticket", slog.String(logging.KeyError, err.Error()))
		return messages.ErrUserErrorProcessing, outcomeFailed
	}
}

func verifyReply(l *slog.Logger, err error) (string, string) {
	switch {
	case err == nil:
		return messages.Verified, outcomeOK
	case errors.Is(err, verification.ErrAlreadyVerified):
		return messages.AlreadyVerified, outcomeRejected
	case errors.Is(err, verification.ErrRoleCreate):
		return messages.ErrRoleCreate, outcomeFailed
	case errors.Is(err, verification.ErrRoleAssign):
		return messages.ErrRoleAssign, outcomeFailed
	default:
		l.Error("Error verifying member", slog.String(logging.KeyError, err.Error()))
		return messages.ErrUserErrorProcessing, outcomeFailed
	}
}

func decodeErrorReply(err error) string {
	switch {
	case errors.Is(err, events.ErrNotInGuild):
		return messages.ErrGuildOnly
	case errors.Is(err, events.ErrInvalidCategory):
		return messages.ErrInvalidCategory
	default:
		return messages.ErrUserErrorProcessing
	}
}

func eventName(ev events.Event) string {
	switch ev.(type) {
	case events.OpenTicket:
		return "open_ticket"
	case events.SelectCategory:
		return "select_category"
	case events.CloseTicket:
		return "close_ticket"
	case events.Verify:
		return "verify"
	default:
		return "unknown"
	}
}

// interactionHandler decodes component interactions and runs them. The interaction is acknowledged before any work
// so the token does not expire while channels are created.
func (a *App) interactionHandler() func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		ev, err := events.Decode(i.Interaction)
		if errors.Is(err, events.ErrNotComponent) || errors.Is(err, events.ErrUnknownComponent) {
			return
		} else if err != nil {
			if err := respondEphemeral(s, i.Interaction, decodeErrorReply(err)); err != nil {
				a.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		name := eventName(ev)
		l := a.With(
			slog.String(logging.KeyOperationID, uuid.NewString()),
			slog.String(logging.KeyGuildID, i.GuildID),
			slog.String(logging.KeyUserID, i.Member.User.ID),
			slog.String("event", name),
		)
		l.Debug("Handling interaction")

		// Closing deletes the channel, so the member is told first.
		if _, ok := ev.(events.CloseTicket); ok {
			err = respondEphemeral(s, i.Interaction, messages.TicketClosing)
		} else {
			err = deferEphemeral(s, i.Interaction)
		}
		if err != nil {
			l.Warn("Error acknowledging interaction", slog.String(logging.KeyError, err.Error()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
		defer cancel()

		reply, outcome := a.events.Handle(ctx, l, ev)
		monitoring.DiscordInteractions.WithLabelValues(name, outcome).Inc()

		if reply == "" {
			return
		}
		if err := followupEphemeral(s, i.Interaction, reply); err != nil {
			l.Warn("Error sending interaction reply", slog.String(logging.KeyError, err.Error()))
		}
	}
}
