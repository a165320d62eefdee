package cmd

import (
	"context"
	"fmt"
	"time"

	"rifa/api"
	"rifa/application"
	"rifa/bot"
	"rifa/config"
	"rifa/database"
	"rifa/domain/clock"
	"rifa/domain/services"
	"rifa/events"
	"rifa/infrastructure"
	"rifa/infrastructure/observability"
	"rifa/infrastructure/render"
	"rifa/repository"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()
	configureLogging(cfg)

	log.Info("Starting rifa...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	log.Info("Running database migrations...")
	if err := database.NewMigrator(cfg.GetDatabaseURL()).Up(); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize metrics
	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	}

	// Initialize event bus
	log.Info("Initializing event bus...")
	eventBus := events.NewBus()
	metrics.SubscribeToBus(eventBus)

	var (
		publisher  events.Publisher = eventBus
		natsClient *infrastructure.NATSClient
	)
	if cfg.NATSEnabled {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			db.Close()
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}

		mapper := infrastructure.NewEventSubjectMapper()
		if err := infrastructure.EnsureStream(natsClient, mapper); err != nil {
			log.WithError(err).Warn("Failed to ensure NATS stream, events may be dropped")
		}

		natsPublisher := infrastructure.NewNATSEventPublisher(natsClient, mapper).WithRecorder(metrics)
		natsPublisher.ForwardTo(eventBus)
		publisher = natsPublisher
		log.WithField("servers", cfg.NATSServers).Info("Publishing events to NATS")
	}
	log.Info("Event bus initialized successfully")

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, publisher).WithQueryObserver(metrics)

	// Initialize use cases
	log.Info("Initializing services...")
	systemClock := clock.NewSystem()
	raffleEvents := application.NewRaffleEvents(uowFactory, systemClock)
	draws := application.NewDrawController(raffleEvents, publisher,
		services.WithClock(systemClock),
		services.WithTiming(services.AnimationTiming{
			SpinDuration:   cfg.DrawSpinDuration,
			RevealDuration: cfg.DrawRevealDuration,
			BaseInterval:   cfg.DrawTickBase,
			MaxInterval:    cfg.DrawTickMax,
		}),
	)

	grid := services.NewTicketGrid(cfg.SlotsPerPage)
	sheets, err := render.NewTicketSheetRenderer(grid, render.DefaultPixelsPerMM)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize ticket sheet renderer: %w", err)
	}
	log.Info("Services initialized successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:         cfg.DiscordToken,
		GuildID:       cfg.GuildID,
		FrameInterval: cfg.DrawFrameInterval,
		IdleTimeout:   cfg.DrawIdleTimeout,
		IsOperator:    cfg.IsOperator,
	}
	discordBot, err := bot.New(botConfig, raffleEvents, draws, grid, sheets, eventBus)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Start HTTP API
	server := api.NewServer(cfg.HTTPAddr, raffleEvents, draws, grid, sheets, metrics).
		WithHealthCheck("database", db.Check)
	if natsClient != nil {
		server.WithHealthCheck("nats", natsClient.Check)
	}
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for context cancellation
	log.WithField("environment", cfg.Environment).Info("Rifa is running")
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Error("HTTP API stopped")
		}
	}

	// Cleanup resources
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	draws.CloseAll()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP API")
	}

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}

	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down metrics")
	}

	// Close database connection
	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}

func configureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
