package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"zlpix/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP configuration
	HTTPAddr string // Listen address for the admin API

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Redis configuration (optional advisory locking for multi-instance workers)
	RedisAddr     string
	RedisPassword string

	// Official result feed configuration
	FeedBaseURL string // Base URL of the federal lottery result feed

	// Prize pool configuration (all amounts in centavos)
	PrizePoolBase     int64 // Pool value after a draw with winners
	PrizePoolRollover int64 // Pool increment after a draw without winners

	// Settlement worker configuration
	SettlementInterval time.Duration // How often the worker checks for due draws

	// Environment
	Environment string // "development" or "production"
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
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
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

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// HTTP
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Redis (empty means the advisory lock is disabled)
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		// Result feed
		FeedBaseURL: getEnvWithDefault("FEED_BASE_URL", "https://loterias.example.com.br/api"),

		// Prize pool defaults: R$ 500,00 base, R$ 500,00 rollover
		PrizePoolBase:     50000,
		PrizePoolRollover: 50000,

		// Worker
		SettlementInterval: 5 * time.Minute,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if base := os.Getenv("PRIZE_POOL_BASE"); base != "" {
		if parsed, err := strconv.ParseInt(base, 10, 64); err == nil && parsed > 0 {
			config.PrizePoolBase = parsed
		}
	}
	if rollover := os.Getenv("PRIZE_POOL_ROLLOVER"); rollover != "" {
		if parsed, err := strconv.ParseInt(rollover, 10, 64); err == nil && parsed > 0 {
			config.PrizePoolRollover = parsed
		}
	}
	if interval := os.Getenv("SETTLEMENT_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil && parsed > 0 {
			config.SettlementInterval = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
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
		PrizePoolBase:      50000,
		PrizePoolRollover:  50000,
		SettlementInterval: time.Minute,
	}
}
