package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"rifa/database"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string // Guild the slash commands are registered to, empty for global

	// Discord IDs allowed to create, delete and draw raffles. Empty allows everyone.
	OperatorDiscordIDs []int64

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)
	NATSEnabled bool

	// HTTP API
	HTTPAddr string

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// Draw animation
	DrawSpinDuration   time.Duration
	DrawRevealDuration time.Duration
	DrawTickBase       time.Duration
	DrawTickMax        time.Duration
	DrawFrameInterval  time.Duration // Minimum time between Discord message edits while spinning
	DrawIdleTimeout    time.Duration // Sessions without a draw for this long are closed

	// Ticket sheets
	SlotsPerPage int

	// OpenTelemetry
	OTelEnabled          bool
	OTelServiceName      string
	OTelExporterType     string // "console" or "otlp"
	OTelExporterEndpoint string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsOperator reports whether a Discord user may manage raffles
func (c *Config) IsOperator(discordID int64) bool {
	if len(c.OperatorDiscordIDs) == 0 {
		return true
	}
	for _, id := range c.OperatorDiscordIDs {
		if id == discordID {
			return true
		}
	}
	return false
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),
		NATSEnabled: os.Getenv("NATS_ENABLED") == "true",

		// HTTP
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		// Logging
		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),

		// Draw animation
		DrawSpinDuration:   getMillisWithDefault("DRAW_SPIN_MS", 4000),
		DrawRevealDuration: getMillisWithDefault("DRAW_REVEAL_MS", 1200),
		DrawTickBase:       getMillisWithDefault("DRAW_TICK_BASE_MS", 50),
		DrawTickMax:        getMillisWithDefault("DRAW_TICK_MAX_MS", 850),
		DrawFrameInterval:  getMillisWithDefault("DRAW_FRAME_MS", 1000),
		DrawIdleTimeout:    getMillisWithDefault("DRAW_IDLE_TIMEOUT_MS", 6*60*60*1000),

		// Ticket sheets
		SlotsPerPage: 25,

		// OpenTelemetry
		OTelEnabled:          os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:      getEnvWithDefault("OTEL_SERVICE_NAME", "rifa"),
		OTelExporterType:     getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelExporterEndpoint: getEnvWithDefault("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if slots := os.Getenv("SLOTS_PER_PAGE"); slots != "" {
		if parsed, err := strconv.Atoi(slots); err == nil && parsed > 0 {
			config.SlotsPerPage = parsed
		}
	}

	// Parse operator Discord IDs
	if operatorIDs := os.Getenv("OPERATOR_DISCORD_IDS"); operatorIDs != "" {
		for _, idStr := range strings.Split(operatorIDs, ",") {
			idStr = strings.TrimSpace(idStr)
			if idStr != "" {
				if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
					config.OperatorDiscordIDs = append(config.OperatorDiscordIDs, id)
				}
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getMillisWithDefault reads a millisecond count, falling back on missing or invalid values
func getMillisWithDefault(key string, defaultMillis int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			return time.Duration(parsed) * time.Millisecond
		}
	}
	return time.Duration(defaultMillis) * time.Millisecond
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:        "test",
		HTTPAddr:           ":0",
		LogLevel:           "debug",
		LogFormat:          "text",
		DrawSpinDuration:   4000 * time.Millisecond,
		DrawRevealDuration: 1200 * time.Millisecond,
		DrawTickBase:       50 * time.Millisecond,
		DrawTickMax:        850 * time.Millisecond,
		DrawFrameInterval:  time.Second,
		DrawIdleTimeout:    6 * time.Hour,
		SlotsPerPage:       25,
		OTelServiceName:    "rifa",
		OTelExporterType:   "console",
	}
}
