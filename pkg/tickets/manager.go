// Package tickets implements the ticket lifecycle: a ticket is opened as a private channel in its category and
// closed by archiving a transcript to the log channel and deleting the channel.
package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/audit"
	"github.com/Jacobbrewer1/kira/pkg/custom"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/Jacobbrewer1/kira/pkg/guildconfig"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/Jacobbrewer1/kira/pkg/platform"
	"github.com/Jacobbrewer1/kira/pkg/transcript"
)

var (
	// ErrInvalidCategory is returned when the category key is unknown.
	ErrInvalidCategory = errors.New("invalid ticket category")

	// ErrDuplicateTicket is returned when the member already has an open ticket of the category.
	ErrDuplicateTicket = errors.New("ticket already open")

	// ErrChannelCreate is returned when the platform refuses to create the ticket channel.
	ErrChannelCreate = errors.New("error creating ticket channel")

	// ErrTicketNotFound is returned when the channel has no ticket.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrNotAuthorized is returned when the member may not close the ticket.
	ErrNotAuthorized = errors.New("not authorized to close ticket")
)

// CategoryEnsurer returns the category channel of a ticket category, creating it if needed.
type CategoryEnsurer interface {
	EnsureCategory(ctx context.Context, guildID string, key entities.CategoryKey, displayName string) (string, error)
}

// ConfigGetter gets the configuration of a guild.
type ConfigGetter interface {
	Get(ctx context.Context, guildID string) (*entities.GuildConfig, error)
}

// TranscriptBuilder renders the history of a channel.
type TranscriptBuilder interface {
	Build(ctx context.Context, channelID string, limit int) (string, error)
}

// AuditSink receives audit entries.
type AuditSink interface {
	Notify(guildID string, e *audit.Entry)
}

// Manager opens and closes tickets.
type Manager struct {
	// l is the logger.
	l *slog.Logger

	dal         dataaccess.TicketDal
	configs     ConfigGetter
	categories  CategoryEnsurer
	transcripts TranscriptBuilder
	audit       AuditSink
	platform    platform.Platform

	// transcriptLimit is the maximum number of messages archived when a ticket is closed.
	transcriptLimit int
}

// NewManager creates a new Manager.
func NewManager(
	l *slog.Logger,
	dal dataaccess.TicketDal,
	configs ConfigGetter,
	categories CategoryEnsurer,
	transcripts TranscriptBuilder,
	auditSink AuditSink,
	p platform.Platform,
	transcriptLimit int,
) *Manager {
	if transcriptLimit <= 0 {
		transcriptLimit = transcript.DefaultLimit
	}
	return &Manager{
		l:               l.With(slog.String(logging.KeyComponent, "tickets")),
		dal:             dal,
		configs:         configs,
		categories:      categories,
		transcripts:     transcripts,
		audit:           auditSink,
		platform:        p,
		transcriptLimit: transcriptLimit,
	}
}

// OpenRequest is a request to open a ticket.
type OpenRequest struct {
	GuildID  string
	Member   *discordgo.Member
	Category entities.CategoryKey
}

// CloseRequest is a request to close the ticket of a channel.
type CloseRequest struct {
	GuildID     string
	Member      *discordgo.Member
	ChannelID   string
	ChannelName string
}

// DisplayName is the name a member is shown with in the guild.
func DisplayName(m *discordgo.Member) string {
	if m == nil || m.User == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.Username
}

// Open opens a ticket of the requested category for the member.
func (m *Manager) Open(ctx context.Context, req OpenRequest) (*entities.Ticket, error) {
	if !req.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if req.Member == nil || req.Member.User == nil {
		return nil, errors.New("member is required")
	}

	userID := req.Member.User.ID
	l := m.l.With(
		slog.String(logging.KeyGuildID, req.GuildID),
		slog.String(logging.KeyUserID, userID),
		slog.String(logging.KeyCategory, string(req.Category)),
	)

	open, err := m.dal.HasOpenTicket(ctx, req.GuildID, userID, req.Category)
	if err != nil {
		return nil, fmt.Errorf("error checking open tickets: %w", err)
	} else if open {
		ticketTransitions.WithLabelValues(transitionDuplicate, string(req.Category)).Inc()
		return nil, ErrDuplicateTicket
	}

	containerID, err := m.categories.EnsureCategory(ctx, req.GuildID, req.Category, req.Category.DisplayName())
	if err != nil {
		return nil, fmt.Errorf("error ensuring ticket category: %w", err)
	}

	cfg, err := m.configs.Get(ctx, req.GuildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild configuration: %w", err)
	}

	channel, err := m.platform.CreateChannel(ctx, req.GuildID, discordgo.GuildChannelCreateData{
		Name:                 entities.ChannelName(req.Category, DisplayName(req.Member)),
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             containerID,
		PermissionOverwrites: overwrites(req.GuildID, userID, m.platform.BotUserID(), cfg.StaffRoleID),
	})
	if err != nil {
		ticketTransitions.WithLabelValues(transitionFailed, string(req.Category)).Inc()
		l.Error("Error creating ticket channel", slog.String(logging.KeyError, err.Error()))
		m.audit.Notify(req.GuildID, &audit.Entry{
			Content: fmt.Sprintf(auditCreateFailed, req.Category, userID, err),
		})
		return nil, fmt.Errorf("%w: %w", ErrChannelCreate, err)
	}

	ticket := &entities.Ticket{
		GuildID:   req.GuildID,
		UserID:    userID,
		Category:  req.Category,
		ChannelID: channel.ID,
		CreatedAt: custom.Now(),
	}

	if err := m.dal.CreateTicket(ctx, ticket); err != nil {
		// The channel has no ticket behind it, so it goes.
		if delErr := m.platform.DeleteChannel(ctx, channel.ID); delErr != nil {
			l.Warn("Error deleting orphaned ticket channel",
				slog.String(logging.KeyChannelID, channel.ID),
				slog.String(logging.KeyError, delErr.Error()),
			)
		}

		if errors.Is(err, dataaccess.ErrTicketExists) {
			ticketTransitions.WithLabelValues(transitionDuplicate, string(req.Category)).Inc()
			l.Info("Lost race opening ticket, removed duplicate channel", slog.String(logging.KeyChannelID, channel.ID))
			return nil, ErrDuplicateTicket
		}
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}

	l = l.With(slog.String(logging.KeyChannelID, channel.ID))

	if _, err := m.platform.SendMessage(ctx, channel.ID, introMessage(ticket)); err != nil {
		l.Warn("Error sending ticket intro message", slog.String(logging.KeyError, err.Error()))
	}

	m.audit.Notify(req.GuildID, &audit.Entry{
		Content: fmt.Sprintf(auditCreated, channel.ID, req.Category, req.Member.User.Username, userID),
	})

	ticketTransitions.WithLabelValues(transitionOpened, string(req.Category)).Inc()
	l.Info("Ticket opened")
	return ticket, nil
}

// Close closes the ticket of a channel. The transcript is archived before anything is deleted.
func (m *Manager) Close(ctx context.Context, req CloseRequest) (*entities.Ticket, error) {
	if req.Member == nil || req.Member.User == nil {
		return nil, errors.New("member is required")
	}

	l := m.l.With(
		slog.String(logging.KeyGuildID, req.GuildID),
		slog.String(logging.KeyChannelID, req.ChannelID),
		slog.String(logging.KeyUserID, req.Member.User.ID),
	)

	ticket, err := m.dal.FindTicketByChannel(ctx, req.GuildID, req.ChannelID)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil, ErrTicketNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error finding ticket: %w", err)
	}

	cfg, err := m.configs.Get(ctx, req.GuildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild configuration: %w", err)
	}

	if req.Member.User.ID != ticket.UserID && !guildconfig.IsStaff(req.Member, cfg) {
		return nil, ErrNotAuthorized
	}

	text, err := m.transcripts.Build(ctx, req.ChannelID, m.transcriptLimit)
	if err != nil {
		return nil, fmt.Errorf("error building transcript: %w", err)
	}

	// Only the close that removes the record archives the transcript and deletes the channel.
	deleted, err := m.dal.DeleteTicketByChannel(ctx, req.GuildID, req.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("error deleting ticket: %w", err)
	} else if !deleted {
		l.Info("Ticket already closed")
		return nil, ErrTicketNotFound
	}

	m.audit.Notify(req.GuildID, closedEntry(ticket, req, text))

	ticketTransitions.WithLabelValues(transitionClosed, string(ticket.Category)).Inc()
	l.Info("Ticket closed", slog.String(logging.KeyCategory, string(ticket.Category)))

	if err := m.platform.DeleteChannel(ctx, req.ChannelID); err != nil {
		l.Warn("Error deleting ticket channel", slog.String(logging.KeyError, err.Error()))
		m.audit.Notify(req.GuildID, &audit.Entry{
			Content: fmt.Sprintf(auditChannelDeleteFailed, channelLabel(req)),
		})
	}

	return ticket, nil
}

func channelLabel(req CloseRequest) string {
	if req.ChannelName != "" {
		return req.ChannelName
	}
	return req.ChannelID
}
