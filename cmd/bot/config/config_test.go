package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jacobbrewer1/kira/pkg/dataaccess"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvBotToken, EnvBotTokenFallback, EnvStoreDriver, EnvMongoUri, EnvMongoDatabase,
		EnvSQLitePath, EnvMonitoringPort, EnvTranscriptLimit,
	} {
		t.Setenv(k, "")
	}

	// No .env file is picked up from the test directory.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestParse_MissingToken(t *testing.T) {
	clearEnv(t)

	_, err := Parse(logging.Discard(), nil)
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestParse_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBotToken, "secret")

	c, err := Parse(logging.Discard(), nil)
	require.NoError(t, err)
	require.Equal(t, &Config{
		BotToken:        "secret",
		StoreDriver:     dataaccess.DriverSQLite,
		MongoDatabase:   AppName,
		SQLitePath:      "data/kira.db",
		MonitoringPort:  "8080",
		TranscriptLimit: 1500,
	}, c)
}

func TestParse_FallbackToken(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBotTokenFallback, "legacy")

	c, err := Parse(logging.Discard(), nil)
	require.NoError(t, err)
	require.Equal(t, "legacy", c.BotToken)
}

func TestParse_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBotToken, "secret")
	t.Setenv(EnvMonitoringPort, "9000")
	t.Setenv(EnvTranscriptLimit, "200")

	c, err := Parse(logging.Discard(), []string{"--monitoring-port", "9100", "--store", "mongo", "--mongo-uri", "mongodb://localhost"})
	require.NoError(t, err)
	require.Equal(t, "9100", c.MonitoringPort)
	require.Equal(t, dataaccess.DriverMongo, c.StoreDriver)
	require.Equal(t, "mongodb://localhost", c.MongoUri)
	require.Equal(t, 200, c.TranscriptLimit)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{
			name: "mongo without uri",
			env:  map[string]string{EnvStoreDriver: dataaccess.DriverMongo},
		},
		{
			name: "unknown driver",
			env:  map[string]string{EnvStoreDriver: "postgres"},
		},
		{
			name: "unknown flag",
			args: []string{"--nope"},
		},
		{
			name: "negative transcript limit",
			args: []string{"--transcript-limit=-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvBotToken, "secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Parse(logging.Discard(), tt.args)
			require.Error(t, err)
		})
	}
}

func TestParse_InvalidTranscriptLimitEnvUsesDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBotToken, "secret")
	t.Setenv(EnvTranscriptLimit, "lots")

	c, err := Parse(logging.Discard(), nil)
	require.NoError(t, err)
	require.Equal(t, 1500, c.TranscriptLimit)
}

func TestOpenStore_SQLite(t *testing.T) {
	c := &Config{
		StoreDriver: dataaccess.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "nested", "kira.db"),
	}

	store, err := OpenStore(context.Background(), logging.Discard(), c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	require.NoError(t, store.Ping(context.Background()))

	cfg, err := store.GetGuildConfig(context.Background(), "g1")
	require.NoError(t, err)
	require.Equal(t, "g1", cfg.GuildID)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), logging.Discard(), &Config{StoreDriver: "postgres"})
	require.Error(t, err)
}
