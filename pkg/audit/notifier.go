// Package audit delivers audit messages to the log channel of a guild.
//
// Delivery is best effort. Notify never blocks the caller: entries are queued and a single worker sends them,
// paced by a rate limiter. Entries are dropped when the queue is full, when the guild has no log channel, or when
// the send fails. Nothing is retried.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"golang.org/x/time/rate"
)

const (
	defaultQueueSize   = 256
	defaultRate        = rate.Limit(5)
	defaultBurst       = 5
	defaultSendTimeout = 15 * time.Second
)

// LogChannelResolver resolves the log channel of a guild. An empty ID means none is configured.
type LogChannelResolver interface {
	LogChannel(ctx context.Context, guildID string) (string, error)
}

// Sender sends a message to a channel.
type Sender interface {
	SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
}

// Entry is a single audit message. Content, embed and files are sent together.
type Entry struct {
	Content string
	Embed   *discordgo.MessageEmbed
	Files   []*discordgo.File
}

type queued struct {
	guildID string
	entry   *Entry
}

// Option configures a Notifier.
type Option func(n *Notifier)

// WithQueueSize sets how many entries can wait for delivery.
func WithQueueSize(size int) Option {
	return func(n *Notifier) {
		n.queue = make(chan queued, size)
	}
}

// WithLimit sets the delivery rate.
func WithLimit(limit rate.Limit, burst int) Option {
	return func(n *Notifier) {
		n.limiter = rate.NewLimiter(limit, burst)
	}
}

// Notifier queues audit entries and delivers them in the background.
type Notifier struct {
	// l is the logger.
	l *slog.Logger

	resolver LogChannelResolver
	sender   Sender
	limiter  *rate.Limiter
	queue    chan queued

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewNotifier creates a new Notifier. Start must be called before entries are delivered.
func NewNotifier(l *slog.Logger, resolver LogChannelResolver, sender Sender, opts ...Option) *Notifier {
	n := &Notifier{
		l:        l.With(slog.String(logging.KeyComponent, "audit")),
		resolver: resolver,
		sender:   sender,
		limiter:  rate.NewLimiter(defaultRate, defaultBurst),
		queue:    make(chan queued, defaultQueueSize),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify queues an entry for the log channel of the guild.
func (n *Notifier) Notify(guildID string, e *Entry) {
	if e == nil {
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		droppedEntries.WithLabelValues(reasonClosed).Inc()
		return
	}

	select {
	case n.queue <- queued{guildID: guildID, entry: e}:
	default:
		droppedEntries.WithLabelValues(reasonQueueFull).Inc()
		n.l.Warn("Audit queue full, dropping entry", slog.String(logging.KeyGuildID, guildID))
	}
}

// Notifyf queues a text entry.
func (n *Notifier) Notifyf(guildID, content string) {
	n.Notify(guildID, &Entry{Content: content})
}

// Start starts the delivery worker. Cancelling ctx stops delivery; queued entries are then dropped.
func (n *Notifier) Start(ctx context.Context) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.run(ctx)
	}()
}

// Close stops accepting entries and waits for the queued ones to be delivered.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.queue)
	n.mu.Unlock()

	n.wg.Wait()
}

func (n *Notifier) run(ctx context.Context) {
	for q := range n.queue {
		if ctx.Err() != nil {
			droppedEntries.WithLabelValues(reasonStopped).Inc()
			continue
		}
		if err := n.limiter.Wait(ctx); err != nil {
			droppedEntries.WithLabelValues(reasonStopped).Inc()
			continue
		}
		n.deliver(ctx, q)
	}
}

func (n *Notifier) deliver(ctx context.Context, q queued) {
	l := n.l.With(slog.String(logging.KeyGuildID, q.guildID))

	ctx, cancel := context.WithTimeout(ctx, defaultSendTimeout)
	defer cancel()

	channelID, err := n.resolver.LogChannel(ctx, q.guildID)
	if err != nil {
		failedDeliveries.Inc()
		l.Error("Error resolving log channel", slog.String(logging.KeyError, err.Error()))
		return
	} else if channelID == "" {
		droppedEntries.WithLabelValues(reasonNoChannel).Inc()
		return
	}

	msg := &discordgo.MessageSend{
		Content: q.entry.Content,
		Files:   q.entry.Files,
	}
	if q.entry.Embed != nil {
		msg.Embeds = []*discordgo.MessageEmbed{q.entry.Embed}
	}

	if _, err := n.sender.SendMessage(ctx, channelID, msg); err != nil {
		failedDeliveries.Inc()
		l.Warn("Error sending audit entry",
			slog.String(logging.KeyChannelID, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
		return
	}
	deliveredEntries.Inc()
}
