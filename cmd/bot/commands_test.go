package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/Jacobbrewer1/kira/pkg/events"
	"github.com/Jacobbrewer1/kira/pkg/guildconfig"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/Jacobbrewer1/kira/pkg/messages"
	"github.com/Jacobbrewer1/kira/pkg/platform/platformtest"
	"github.com/Jacobbrewer1/kira/pkg/provision"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *dataaccess.SQLiteStore {
	t.Helper()

	db, err := connection.OpenSQLite(filepath.Join(t.TempDir(), "kira.db"))
	require.NoError(t, err)

	s := dataaccess.NewSQLiteStore(logging.Discard(), db)
	require.NoError(t, s.AutoMigrate())
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func newTestCommandSet(t *testing.T) (*commandSet, *dataaccess.SQLiteStore, *platformtest.Fake) {
	t.Helper()

	store := newTestStore(t)
	fake := platformtest.NewFake()
	c := newCommandSet(
		logging.Discard(),
		"r!",
		guildconfig.NewResolver(logging.Discard(), store),
		provision.NewProvisioner(logging.Discard(), store, fake),
		store,
	)
	return c, store, fake
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		content string
		name    string
		args    []string
		ok      bool
	}{
		{content: "r!help_ticket", name: "help_ticket", args: []string{}, ok: true},
		{content: "  r!SETUP_STAFF <@&123>  ", name: "setup_staff", args: []string{"<@&123>"}, ok: true},
		{content: "r!setup_panel", name: "setup_panel", args: []string{}, ok: true},
		{content: "r!", ok: false},
		{content: "hello r!help_ticket", ok: false},
		{content: "!help_ticket", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			name, args, ok := parseCommand("r!", tt.content)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			require.Equal(t, tt.name, name)
			require.Equal(t, len(tt.args), len(args))
			for i := range tt.args {
				require.Equal(t, tt.args[i], args[i])
			}
		})
	}
}

func TestParseMentions(t *testing.T) {
	id, ok := parseRoleMention("<@&123>")
	require.True(t, ok)
	require.Equal(t, "123", id)

	id, ok = parseRoleMention("456")
	require.True(t, ok)
	require.Equal(t, "456", id)

	_, ok = parseRoleMention("<#123>")
	require.False(t, ok)

	_, ok = parseRoleMention("@staff")
	require.False(t, ok)

	id, ok = parseChannelMention("<#789>")
	require.True(t, ok)
	require.Equal(t, "789", id)

	_, ok = parseChannelMention("<@&789>")
	require.False(t, ok)
}

func TestCommands_AdminOnly(t *testing.T) {
	c, _, _ := newTestCommandSet(t)

	for _, name := range []string{cmdSetupStaff, cmdSetupLogs, cmdSetupPanel, cmdPostTicket, cmdPostVerificar, cmdTicketStats} {
		t.Run(name, func(t *testing.T) {
			reply, err := c.Handle(context.Background(), &commandRequest{GuildID: "g1", ChannelID: "c1", Name: name})
			require.NoError(t, err)
			require.Equal(t, messages.ErrAdminOnly, reply.Content)
		})
	}

	reply, err := c.Handle(context.Background(), &commandRequest{GuildID: "g1", ChannelID: "c1", Name: cmdHelpTicket})
	require.NoError(t, err)
	require.Contains(t, reply.Content, "r!setup_staff")
	require.Contains(t, reply.Content, "r!post_verificar")
}

func TestCommands_GuildOnly(t *testing.T) {
	c, _, _ := newTestCommandSet(t)

	reply, err := c.Handle(context.Background(), &commandRequest{ChannelID: "dm", Name: cmdHelpTicket})
	require.NoError(t, err)
	require.Equal(t, messages.ErrGuildOnly, reply.Content)
}

func TestCommands_Unknown(t *testing.T) {
	c, _, _ := newTestCommandSet(t)

	require.False(t, c.Known("ban"))
	reply, err := c.Handle(context.Background(), &commandRequest{GuildID: "g1", Name: "ban", IsAdmin: true})
	require.NoError(t, err)
	require.Nil(t, reply)
}

func TestCommands_Setup(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCommandSet(t)

	reply, err := c.Handle(ctx, &commandRequest{GuildID: "g1", ChannelID: "c1", IsAdmin: true, Name: cmdSetupStaff, Args: []string{"<@&10>"}})
	require.NoError(t, err)
	require.Equal(t, "✅ Cargo de staff definido: <@&10>", reply.Content)

	reply, err = c.Handle(ctx, &commandRequest{GuildID: "g1", ChannelID: "c1", IsAdmin: true, Name: cmdSetupLogs, Args: []string{"<#20>"}})
	require.NoError(t, err)
	require.Equal(t, "✅ Canal de logs definido: <#20>", reply.Content)

	// Without an argument the panel is the current channel.
	reply, err = c.Handle(ctx, &commandRequest{GuildID: "g1", ChannelID: "c1", IsAdmin: true, Name: cmdSetupPanel})
	require.NoError(t, err)
	require.Equal(t, "✅ Canal do painel definido: <#c1>", reply.Content)

	cfg, err := store.GetGuildConfig(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, &entities.GuildConfig{GuildID: "g1", StaffRoleID: "10", LogChannelID: "20", PanelChannelID: "c1"}, cfg)
}

func TestCommands_SetupUsage(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCommandSet(t)

	reply, err := c.Handle(ctx, &commandRequest{GuildID: "g1", IsAdmin: true, Name: cmdSetupStaff})
	require.NoError(t, err)
	require.Equal(t, "Uso: `r!setup_staff @Cargo`", reply.Content)

	reply, err = c.Handle(ctx, &commandRequest{GuildID: "g1", IsAdmin: true, Name: cmdSetupLogs, Args: []string{"logs"}})
	require.NoError(t, err)
	require.Equal(t, "Uso: `r!setup_logs #canal`", reply.Content)

	reply, err = c.Handle(ctx, &commandRequest{GuildID: "g1", IsAdmin: true, Name: cmdSetupPanel, Args: []string{"painel"}})
	require.NoError(t, err)
	require.Equal(t, "Uso: `r!setup_panel [#canal]`", reply.Content)

	cfg, err := store.GetGuildConfig(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, &entities.GuildConfig{GuildID: "g1"}, cfg)
}

func TestCommands_PostTicket(t *testing.T) {
	ctx := context.Background()
	c, store, fake := newTestCommandSet(t)

	reply, err := c.Handle(ctx, &commandRequest{GuildID: "g1", ChannelID: "c1", IsAdmin: true, Name: cmdPostTicket})
	require.NoError(t, err)

	// Every category and the panel channel exist.
	require.Equal(t, len(entities.Categories)+1, fake.CreateCalls())
	for _, key := range entities.Categories {
		_, err := store.LookupCategory(ctx, "g1", key)
		require.NoError(t, err)
	}

	require.Len(t, reply.Components, 2)
	button := reply.Components[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	require.Equal(t, events.CustomIDOpenSupport, button.CustomID)

	menu := reply.Components[1].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	require.Equal(t, events.CustomIDCategorySelect, menu.CustomID)
	values := make([]string, 0, len(menu.Options))
	for _, o := range menu.Options {
		values = append(values, o.Value)
	}
	require.Equal(t, []string{"financeiro", "modcreator", "modelcreator"}, values)
}

func TestCommands_PostVerificar(t *testing.T) {
	c, _, _ := newTestCommandSet(t)

	reply, err := c.Handle(context.Background(), &commandRequest{GuildID: "g1", ChannelID: "c1", IsAdmin: true, Name: cmdPostVerificar})
	require.NoError(t, err)

	button := reply.Components[0].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	require.Equal(t, events.CustomIDVerify, button.CustomID)
}

func TestCommands_TicketStats(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCommandSet(t)

	for _, tk := range []*entities.Ticket{
		{GuildID: "g1", UserID: "u1", Category: entities.CategorySupport, ChannelID: "c1"},
		{GuildID: "g1", UserID: "u2", Category: entities.CategorySupport, ChannelID: "c2"},
		{GuildID: "g1", UserID: "u1", Category: entities.CategoryFinanceiro, ChannelID: "c3"},
		{GuildID: "g2", UserID: "u1", Category: entities.CategorySupport, ChannelID: "c4"},
	} {
		require.NoError(t, store.CreateTicket(ctx, tk))
	}

	reply, err := c.Handle(ctx, &commandRequest{GuildID: "g1", IsAdmin: true, Name: cmdTicketStats})
	require.NoError(t, err)
	require.Len(t, reply.Embeds, 1)
	require.Equal(t, "Total: **3**", reply.Embeds[0].Description)

	values := make(map[string]string)
	for _, f := range reply.Embeds[0].Fields {
		values[f.Name] = f.Value
	}
	require.Equal(t, map[string]string{
		"Suporte":      "2",
		"Financeiro":   "1",
		"ModCreator":   "0",
		"ModelCreator": "0",
	}, values)
}
