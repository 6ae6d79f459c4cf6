package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/Jacobbrewer1/kira/pkg/guildconfig"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/Jacobbrewer1/kira/pkg/messages"
	"github.com/Jacobbrewer1/kira/pkg/provision"
)

const (
	cmdSetupStaff    = "setup_staff"
	cmdSetupLogs     = "setup_logs"
	cmdSetupPanel    = "setup_panel"
	cmdPostTicket    = "post_ticket"
	cmdPostVerificar = "post_verificar"
	cmdHelpTicket    = "help_ticket"
	cmdTicketStats   = "ticket_stats"
)

var (
	roleMention    = regexp.MustCompile(`^<@&(\d+)>$`)
	channelMention = regexp.MustCompile(`^<#(\d+)>$`)
	snowflake      = regexp.MustCompile(`^\d+$`)
)

// commandRequest is a text command sent in a guild.
type commandRequest struct {
	GuildID   string
	ChannelID string
	AuthorID  string
	IsAdmin   bool
	Name      string
	Args      []string
}

// commandHandler runs a command and returns the reply.
type commandHandler func(ctx context.Context, req *commandRequest) (*discordgo.MessageSend, error)

type command struct {
	adminOnly bool
	handler   commandHandler
}

// commandSet holds the text commands.
type commandSet struct {
	l *slog.Logger

	prefix      string
	resolver    *guildconfig.Resolver
	provisioner *provision.Provisioner
	tickets     dataaccess.TicketDal

	commands map[string]command
}

func newCommandSet(
	l *slog.Logger,
	prefix string,
	resolver *guildconfig.Resolver,
	provisioner *provision.Provisioner,
	tickets dataaccess.TicketDal,
) *commandSet {
	c := &commandSet{
		l:           l.With(slog.String(logging.KeyComponent, "commands")),
		prefix:      prefix,
		resolver:    resolver,
		provisioner: provisioner,
		tickets:     tickets,
	}

	c.commands = map[string]command{
		cmdSetupStaff:    {adminOnly: true, handler: c.setupStaff},
		cmdSetupLogs:     {adminOnly: true, handler: c.setupLogs},
		cmdSetupPanel:    {adminOnly: true, handler: c.setupPanel},
		cmdPostTicket:    {adminOnly: true, handler: c.postTicket},
		cmdPostVerificar: {adminOnly: true, handler: c.postVerificar},
		cmdTicketStats:   {adminOnly: true, handler: c.ticketStats},
		cmdHelpTicket:    {handler: c.helpTicket},
	}
	return c
}

// parseCommand splits "r!name arg1 arg2". ok is false when the content is not a command.
func parseCommand(prefix, content string) (name string, args []string, ok bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// parseRoleMention accepts "<@&id>" or a bare ID.
func parseRoleMention(s string) (string, bool) {
	return parseMention(roleMention, s)
}

// parseChannelMention accepts "<#id>" or a bare ID.
func parseChannelMention(s string) (string, bool) {
	return parseMention(channelMention, s)
}

func parseMention(re *regexp.Regexp, s string) (string, bool) {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if snowflake.MatchString(s) {
		return s, true
	}
	return "", false
}

// Known reports whether name is a command.
func (c *commandSet) Known(name string) bool {
	_, ok := c.commands[name]
	return ok
}

// Handle runs a command. A nil reply means nothing is sent back.
func (c *commandSet) Handle(ctx context.Context, req *commandRequest) (*discordgo.MessageSend, error) {
	cmd, ok := c.commands[req.Name]
	if !ok {
		return nil, nil
	}

	if req.GuildID == "" {
		return text(messages.ErrGuildOnly), nil
	}

	if cmd.adminOnly && !req.IsAdmin {
		return text(messages.ErrAdminOnly), nil
	}

	return cmd.handler(ctx, req)
}

func text(content string, args ...any) *discordgo.MessageSend {
	if len(args) > 0 {
		content = fmt.Sprintf(content, args...)
	}
	return &discordgo.MessageSend{Content: content}
}

func (c *commandSet) setupStaff(ctx context.Context, req *commandRequest) (*discordgo.MessageSend, error) {
	if len(req.Args) == 0 {
		return text(messages.UsageSetupStaff, c.prefix), nil
	}
	roleID, ok := parseRoleMention(req.Args[0])
	if !ok {
		return text(messages.UsageSetupStaff, c.prefix), nil
	}

	if err := c.resolver.SetStaffRole(ctx, req.GuildID, roleID); err != nil {
		return nil, err
	}
	return text(messages.StaffRoleSet, roleID), nil
}

func (c *commandSet) setupLogs(ctx context.Context, req *commandRequest) (*discordgo.MessageSend, error) {
	if len(req.Args) == 0 {
		return text(messages.UsageSetupLogs, c.prefix), nil
	}
	channelID, ok := parseChannelMention(req.Args[0])
	if !ok {
		return text(messages.UsageSetupLogs, c.prefix), nil
	}

	if err := c.resolver.SetLogChannel(ctx, req.GuildID, channelID); err != nil {
		return nil, err
	}
	return text(messages.LogChannelSet, channelID), nil
}

func (c *commandSet) setupPanel(ctx context.Context, req *commandRequest) (*discordgo.MessageSend, error) {
	channelID := req.ChannelID
	if len(req.Args) > 0 {
		var ok bool
		channelID, ok = parseChannelMention(req.Args[0])
		if !ok {
			return text(messages.UsageSetupPanel, c.prefix), nil
		}
	}

	if err := c.resolver.SetPanelChannel(ctx, req.GuildID, channelID); err != nil {
		return nil, err
	}
	return text(messages.PanelChannelSet, channelID), nil
}

func (c *commandSet) postTicket(ctx context.Context, req *commandRequest) (*discordgo.MessageSend, error) {
	if err := c.provisioner.EnsureGuildSetup(ctx, req.GuildID); err != nil {
		return nil, fmt.Errorf("error setting up guild: %w", err)
	}
	return ticketPanel(), nil
}

func (c *commandSet) postVerificar(_ context.Context, _ *commandRequest) (*discordgo.MessageSend, error) {
	return verifyPanel(), nil
}

func (c *commandSet) helpTicket(_ context.Context, _ *commandRequest) (*discordgo.MessageSend, error) {
	return text(messages.Help, c.prefix), nil
}

func (c *commandSet) ticketStats(ctx context.Context, req *commandRequest) (*discordgo.MessageSend, error) {
	stats, err := openTicketStats(ctx, c.tickets, req.GuildID)
	if err != nil {
		return nil, err
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(entities.Categories))
	for _, key := range entities.Categories {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   key.Label(),
			Value:  fmt.Sprintf("%d", stats.OpenTickets[key]),
			Inline: true,
		})
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       messages.StatsTitle,
				Description: fmt.Sprintf("Total: **%d**", stats.Total),
				Color:       colorBlue,
				Fields:      fields,
			},
		},
	}, nil
}

// guildStats are the open ticket counters of a guild.
type guildStats struct {
	GuildID     string                       `json:"guild_id"`
	OpenTickets map[entities.CategoryKey]int `json:"open_tickets"`
	Total       int                          `json:"total"`
}

func openTicketStats(ctx context.Context, dal dataaccess.TicketDal, guildID string) (*guildStats, error) {
	if guildID == "" {
		return nil, errors.New("guild id is required")
	}

	counts, err := dal.CountOpenTickets(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error counting open tickets: %w", err)
	}

	stats := &guildStats{
		GuildID:     guildID,
		OpenTickets: make(map[entities.CategoryKey]int, len(entities.Categories)),
	}
	for _, key := range entities.Categories {
		stats.OpenTickets[key] = counts[key]
		stats.Total += counts[key]
	}
	return stats, nil
}
