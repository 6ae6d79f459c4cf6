package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/Jacobbrewer1/kira/pkg/dataaccess"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// ErrMissingToken is returned when no bot token is configured.
var ErrMissingToken = errors.New("missing bot token, set " + EnvBotToken)

// Parse builds the configuration. A .env file in the working directory is loaded first, then the environment is
// read, then flags override it.
func Parse(l *slog.Logger, args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	env := fromEnv(l)

	flags := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	flags.StringVar(&env.BotToken, "token", env.BotToken, "Discord bot token")
	flags.StringVar(&env.StoreDriver, "store", env.StoreDriver, "Store driver (mongo or sqlite)")
	flags.StringVar(&env.MongoUri, "mongo-uri", env.MongoUri, "MongoDB connection string")
	flags.StringVar(&env.MongoDatabase, "mongo-database", env.MongoDatabase, "MongoDB database name")
	flags.StringVar(&env.SQLitePath, "sqlite-path", env.SQLitePath, "SQLite database file")
	flags.StringVar(&env.MonitoringPort, "monitoring-port", env.MonitoringPort, "Port of the monitoring server")
	flags.IntVar(&env.TranscriptLimit, "transcript-limit", env.TranscriptLimit, "Maximum number of messages in a transcript")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	if err := env.validate(); err != nil {
		return nil, err
	}
	return env, nil
}

func fromEnv(l *slog.Logger) *Config {
	c := &Config{
		StoreDriver:     dataaccess.DriverSQLite,
		MongoDatabase:   defaultMongoDatabase,
		SQLitePath:      defaultSQLitePath,
		MonitoringPort:  defaultMonitoringPort,
		TranscriptLimit: defaultTranscriptSize,
	}

	if envBT := os.Getenv(EnvBotToken); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotToken))
		c.BotToken = envBT
	} else if envBT := os.Getenv(EnvBotTokenFallback); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotTokenFallback))
		c.BotToken = envBT
	}

	if v := os.Getenv(EnvStoreDriver); v != "" {
		c.StoreDriver = v
	}

	if v := os.Getenv(EnvMongoUri); v != "" {
		l.Debug("Found MongoDB URI in environment", slog.String("key", EnvMongoUri))
		c.MongoUri = v
	}

	if v := os.Getenv(EnvMongoDatabase); v != "" {
		c.MongoDatabase = v
	}

	if v := os.Getenv(EnvSQLitePath); v != "" {
		c.SQLitePath = v
	}

	if v := os.Getenv(EnvMonitoringPort); v != "" {
		l.Debug("Found monitoring port in environment", slog.String("key", EnvMonitoringPort))
		c.MonitoringPort = v
	} else {
		l.Info("No monitoring port provided in environment, defaulting to "+defaultMonitoringPort,
			slog.String("key", EnvMonitoringPort))
	}

	if v := os.Getenv(EnvTranscriptLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			l.Warn("Invalid transcript limit in environment, using default",
				slog.String("key", EnvTranscriptLimit),
				slog.String("value", v),
			)
		} else {
			c.TranscriptLimit = n
		}
	}

	return c
}

func (c *Config) validate() error {
	if c.BotToken == "" {
		return ErrMissingToken
	}

	switch c.StoreDriver {
	case dataaccess.DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite path is required")
		}
	case dataaccess.DriverMongo:
		if c.MongoUri == "" {
			return fmt.Errorf("%s is required for the mongo store", EnvMongoUri)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	if c.TranscriptLimit <= 0 {
		return errors.New("transcript limit must be positive")
	}
	return nil
}
