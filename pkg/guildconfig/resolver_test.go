package guildconfig

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/kira/pkg/entities"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()

	db, err := connection.OpenSQLite(filepath.Join(t.TempDir(), "kira.db"))
	require.NoError(t, err)

	s := dataaccess.NewSQLiteStore(logging.Discard(), db)
	require.NoError(t, s.AutoMigrate())
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	return NewResolver(logging.Discard(), s)
}

func TestResolver_PartialUpdates(t *testing.T) {
	ctx := context.Background()
	r := newResolver(t)

	cfg, err := r.Get(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, &entities.GuildConfig{GuildID: "g1"}, cfg)

	logCh, err := r.LogChannel(ctx, "g1")
	require.NoError(t, err)
	require.Empty(t, logCh)

	require.NoError(t, r.SetStaffRole(ctx, "g1", "staff"))
	require.NoError(t, r.SetLogChannel(ctx, "g1", "logs"))
	require.NoError(t, r.SetPanelChannel(ctx, "g1", "panel"))

	cfg, err = r.Get(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, &entities.GuildConfig{
		GuildID:        "g1",
		PanelChannelID: "panel",
		LogChannelID:   "logs",
		StaffRoleID:    "staff",
	}, cfg)

	logCh, err = r.LogChannel(ctx, "g1")
	require.NoError(t, err)
	require.Equal(t, "logs", logCh)
}

type failingDal struct {
	dataaccess.GuildDal
}

func (failingDal) GetGuildConfig(context.Context, string) (*entities.GuildConfig, error) {
	return nil, errors.New("store down")
}

func TestResolver_StorageError(t *testing.T) {
	r := NewResolver(logging.Discard(), failingDal{})

	_, err := r.Get(context.Background(), "g1")
	require.Error(t, err)
}

func TestIsStaff(t *testing.T) {
	tests := []struct {
		name   string
		member *discordgo.Member
		cfg    *entities.GuildConfig
		want   bool
	}{
		{
			name:   "administrator without staff role configured",
			member: &discordgo.Member{Permissions: discordgo.PermissionAdministrator},
			cfg:    &entities.GuildConfig{GuildID: "g1"},
			want:   true,
		},
		{
			name:   "administrator among other permissions",
			member: &discordgo.Member{Permissions: discordgo.PermissionAdministrator | discordgo.PermissionSendMessages},
			cfg:    nil,
			want:   true,
		},
		{
			name:   "holds staff role",
			member: &discordgo.Member{Roles: []string{"x", "staff"}},
			cfg:    &entities.GuildConfig{GuildID: "g1", StaffRoleID: "staff"},
			want:   true,
		},
		{
			name:   "no staff role configured",
			member: &discordgo.Member{Roles: []string{"staff"}},
			cfg:    &entities.GuildConfig{GuildID: "g1"},
			want:   false,
		},
		{
			name:   "lacks staff role",
			member: &discordgo.Member{Roles: []string{"x"}, Permissions: discordgo.PermissionManageChannels},
			cfg:    &entities.GuildConfig{GuildID: "g1", StaffRoleID: "staff"},
			want:   false,
		},
		{
			name: "nil member",
			cfg:  &entities.GuildConfig{GuildID: "g1", StaffRoleID: "staff"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsStaff(tt.member, tt.cfg))
		})
	}
}
