package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the key for an error attribute.
	KeyError = "err"

	// KeyDal is the key for the data access layer attribute.
	KeyDal = "dal"

	// KeyApp is the key for the application name attribute.
	KeyApp = "app"

	// KeyGuildID is the key for the guild ID attribute.
	KeyGuildID = "guild_id"

	// KeyUserID is the key for the user ID attribute.
	KeyUserID = "user_id"

	// KeyChannelID is the key for the channel ID attribute.
	KeyChannelID = "channel_id"

	// KeyCategory is the key for the ticket category attribute.
	KeyCategory = "category"

	// KeyOperationID is the key for the per interaction correlation ID.
	KeyOperationID = "operation_id"

	// KeyComponent is the key for the component attribute.
	KeyComponent = "component"
)

// Name is the name of the application the logger is for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// appName is the name of the application.
	appName Name

	// level is the minimum level that is logged.
	level slog.Level

	// w is where the logs are written to.
	w io.Writer
}

// NewConfig creates a new logging configuration. The level defaults to info and can be changed with the LOG_LEVEL
// environment variable.
func NewConfig(appName Name) *Config {
	cfg := &Config{
		appName: appName,
		level:   slog.LevelInfo,
		w:       os.Stdout,
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := ParseLevel(lvl); err == nil {
			cfg.level = parsed
		}
	}

	return cfg
}

// WithLevel sets the level of the configuration.
func (c *Config) WithLevel(level slog.Level) *Config {
	c.level = level
	return c
}

// WithWriter sets the writer of the configuration.
func (c *Config) WithWriter(w io.Writer) *Config {
	c.w = w
	return c
}

// CommonLogger creates the JSON logger used across the application and sets it as the default logger.
func CommonLogger(cfg *Config) (*slog.Logger, error) {
	if cfg == nil {
		return nil, errors.New("logging config is nil")
	}
	if cfg.appName == "" {
		return nil, errors.New("app name is required")
	}

	h := slog.NewJSONHandler(cfg.w, &slog.HandlerOptions{
		AddSource: cfg.level == slog.LevelDebug,
		Level:     cfg.level,
	})

	l := slog.New(h).With(slog.String(KeyApp, string(cfg.appName)))
	slog.SetDefault(l)
	return l, nil
}

// ParseLevel parses a level name such as "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(strings.TrimSpace(s)))
	return lvl, err
}

// Discard returns a logger that drops everything. It is intended for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
