package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kira/cmd/bot/config"
	"github.com/Jacobbrewer1/kira/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/kira/pkg/audit"
	"github.com/Jacobbrewer1/kira/pkg/dataaccess"
	"github.com/Jacobbrewer1/kira/pkg/logging"
	"github.com/Jacobbrewer1/kira/pkg/platform"
	"github.com/Jacobbrewer1/kira/pkg/provision"
	"github.com/Jacobbrewer1/kira/pkg/request"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"

	// PathGuildStats is the path for the open ticket counters of a guild.
	PathGuildStats = "/guilds/{guildID}/stats"

	shutdownTimeout = 10 * time.Second
	setupTimeout    = time.Minute
)

type App struct {
	// is the logger.
	*slog.Logger

	// cfg is the configuration.
	cfg *config.Config

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	store       dataaccess.Store
	platform    platform.Platform
	provisioner *provision.Provisioner
	audit       *audit.Notifier
	events      *eventHandler
	commands    *commandSet
}

// NewApp creates a new instance of App.
func NewApp(
	l *slog.Logger,
	cfg *config.Config,
	r *mux.Router,
	s *discordgo.Session,
	store dataaccess.Store,
	p platform.Platform,
	provisioner *provision.Provisioner,
	notifier *audit.Notifier,
	events *eventHandler,
	commands *commandSet,
) *App {
	return &App{
		Logger:      l,
		cfg:         cfg,
		r:           r,
		s:           s,
		store:       store,
		platform:    p,
		provisioner: provisioner,
		audit:       notifier,
		events:      events,
		commands:    commands,
	}
}

// NewSession creates the discord session. It does not connect.
func NewSession(cfg *config.Config) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	return dg, nil
}

// Run runs the bot until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.RegisterBot()
	a.RegisterDiscordHandlers()

	a.audit.Start(ctx)

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	<-ctx.Done()
	a.Info("Received shutdown signal")

	return a.ShutdownHook()
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	var errs []error

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down monitoring server: %w", err))
		}
	}

	// Deliver what is still queued before the store goes away.
	a.audit.Close()

	if err := a.store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("error closing store: %w", err))
	}

	return errors.Join(errs...)
}

func (a *App) RegisterBot() {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	a.s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	if a.eventNotifier == nil {
		// Create event notifier. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	a.s.SetEventNotifier(a.eventNotifier)
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a.Logger, a.healthCheck())).Methods(http.MethodGet)
	a.r.HandleFunc(PathGuildStats, middlewareHttp(a.Logger, a.guildStatsHandler())).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.cfg.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) RegisterDiscordHandlers() {
	a.s.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s", r.User.Username), slog.String(logging.KeyUserID, r.User.ID))
	})

	// Bot joined guild. Also fired for every guild once connected.
	a.s.AddHandler(a.guildJoinedHandler())

	// Bot left guild.
	a.s.AddHandler(a.guildLeaveHandler())

	// Text commands.
	a.s.AddHandler(a.messageCreateHandler())

	// Component interactions.
	a.s.AddHandler(a.interactionHandler())
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}
