// Package transcript renders the message history of a channel as plain text.
package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/logging"
)

const (
	// DefaultLimit is the maximum number of messages in a transcript when none is configured.
	DefaultLimit = 1500

	// Empty is the transcript of a channel without messages.
	Empty = "(sem mensagens)"

	pageSize  = 100
	firstID   = "0"
	timestamp = "2006-01-02 15:04:05 UTC"
)

// HistorySource pages through the messages of a channel. Messages are those posted after afterID, in any order.
type HistorySource interface {
	ChannelMessages(ctx context.Context, channelID string, limit int, afterID string) ([]*discordgo.Message, error)
}

// Builder builds channel transcripts.
type Builder struct {
	// l is the logger.
	l *slog.Logger

	// src is where the messages are read from.
	src HistorySource
}

// NewBuilder creates a new Builder.
func NewBuilder(l *slog.Logger, src HistorySource) *Builder {
	return &Builder{
		l:   l.With(slog.String(logging.KeyComponent, "transcript")),
		src: src,
	}
}

// Cursor walks the history of a channel oldest first, one page at a time.
type Cursor struct {
	src       HistorySource
	channelID string
	remaining int

	after string
	page  []*discordgo.Message
	cur   *discordgo.Message
	done  bool
	err   error
}

// Iterate returns a cursor over at most limit messages of the channel. Nothing is fetched until Next is called.
func (b *Builder) Iterate(channelID string, limit int) *Cursor {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Cursor{
		src:       b.src,
		channelID: channelID,
		remaining: limit,
		after:     firstID,
	}
}

// Next advances the cursor. It returns false when the history is exhausted, the limit is reached or an error
// occurred.
func (c *Cursor) Next(ctx context.Context) bool {
	if c.done || c.err != nil {
		return false
	}
	if c.remaining <= 0 {
		c.done = true
		return false
	}

	if len(c.page) == 0 {
		size := min(pageSize, c.remaining)
		page, err := c.src.ChannelMessages(ctx, c.channelID, size, c.after)
		if err != nil {
			c.err = fmt.Errorf("error reading channel history: %w", err)
			return false
		}
		if len(page) == 0 {
			c.done = true
			return false
		}

		sort.Slice(page, func(i, j int) bool { return snowflakeLess(page[i].ID, page[j].ID) })
		c.page = page
		c.after = page[len(page)-1].ID
		if len(page) < size {
			// Short page, nothing left after it.
			c.remaining = min(c.remaining, len(page))
		}
	}

	c.cur, c.page = c.page[0], c.page[1:]
	c.remaining--
	return true
}

// Message is the current message.
func (c *Cursor) Message() *discordgo.Message {
	return c.cur
}

// Err is the error that stopped the cursor, if any.
func (c *Cursor) Err() error {
	return c.err
}

// Build renders up to limit messages of the channel, oldest first, one line each.
func (b *Builder) Build(ctx context.Context, channelID string, limit int) (string, error) {
	c := b.Iterate(channelID, limit)

	lines := make([]string, 0, pageSize)
	for c.Next(ctx) {
		lines = append(lines, FormatLine(c.Message()))
	}
	if err := c.Err(); err != nil {
		return "", err
	}

	b.l.Debug("Transcript built",
		slog.String(logging.KeyChannelID, channelID),
		slog.Int("messages", len(lines)),
	)

	if len(lines) == 0 {
		return Empty, nil
	}
	return strings.Join(lines, "\n"), nil
}

// FormatLine renders a single message.
func FormatLine(m *discordgo.Message) string {
	author, authorID := "unknown", ""
	if m.Author != nil {
		author, authorID = m.Author.Username, m.Author.ID
	}

	sb := new(strings.Builder)
	fmt.Fprintf(sb, "[%s] %s (%s): %s", m.Timestamp.UTC().Format(timestamp), author, authorID, m.Content)

	if len(m.Attachments) > 0 {
		urls := make([]string, 0, len(m.Attachments))
		for _, a := range m.Attachments {
			urls = append(urls, a.URL)
		}
		fmt.Fprintf(sb, " [anexos] %s", strings.Join(urls, " | "))
	}

	if len(m.Embeds) > 0 {
		fmt.Fprintf(sb, " [embeds] %d embed(s)", len(m.Embeds))
	}

	return sb.String()
}

// snowflakeLess orders snowflake IDs numerically without parsing them.
func snowflakeLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
