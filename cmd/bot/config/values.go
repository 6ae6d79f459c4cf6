package config

import "github.com/Jacobbrewer1/kira/pkg/transcript"

const (
	// AppName is the name of the application.
	AppName = "kira"

	// CommandPrefix is the prefix of the text commands.
	CommandPrefix = "r!"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `DISCORD_TOKEN`

	// EnvBotTokenFallback is the legacy environment variable for the bot token.
	EnvBotTokenFallback = `BOT_TOKEN`

	// EnvStoreDriver is the environment variable for the store driver.
	EnvStoreDriver = `STORE_DRIVER`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMongoDatabase is the environment variable for the MongoDB database name.
	EnvMongoDatabase = `MONGO_DATABASE`

	// EnvSQLitePath is the environment variable for the SQLite database file.
	EnvSQLitePath = `SQLITE_PATH`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvTranscriptLimit is the environment variable for the maximum number of messages in a transcript.
	EnvTranscriptLimit = `TRANSCRIPT_LIMIT`
)

const (
	defaultSQLitePath     = "data/kira.db"
	defaultMonitoringPort = "8080"
	defaultMongoDatabase  = AppName
	defaultTranscriptSize = transcript.DefaultLimit
)

// Config is the runtime configuration of the bot.
type Config struct {
	// BotToken is the token for the bot.
	BotToken string

	// StoreDriver selects the store, "mongo" or "sqlite".
	StoreDriver string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// MongoDatabase is the name of the MongoDB database.
	MongoDatabase string

	// SQLitePath is the path of the SQLite database file.
	SQLitePath string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string

	// TranscriptLimit is the maximum number of messages archived when a ticket closes.
	TranscriptLimit int
}
