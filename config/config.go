package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// HTTP server configuration
	ListenAddr string

	// Database configuration
	DatabaseURL string

	// Account configuration
	StartingBalance int64

	// Wager limits in cents
	MinStake int64
	MaxStake int64

	// Live feed configuration
	FeedSize int

	// Provably-fair seed rotation interval
	SeedRotation time.Duration

	// Payment gateway configuration
	GatewayURL     string
	GatewayAPIKey  string
	WebhookSecret  string
	GatewayTimeout time.Duration

	// API key required on the admin routes
	AdminAPIKey string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if instance != nil {
			// A test already injected a config
			return
		}
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		ListenAddr:  os.Getenv("LISTEN_ADDR"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Defaults: $1000.00 starting balance, $0.01 min / $10000.00 max stake
		StartingBalance: 100000,
		MinStake:        1,
		MaxStake:        1000000,

		FeedSize:     10,
		SeedRotation: 24 * time.Hour,

		GatewayURL:     os.Getenv("GATEWAY_URL"),
		GatewayAPIKey:  os.Getenv("GATEWAY_API_KEY"),
		WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
		GatewayTimeout: 10 * time.Second,

		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsed, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.StartingBalance = parsed
		}
	}
	if stake := os.Getenv("MIN_STAKE"); stake != "" {
		if parsed, err := strconv.ParseInt(stake, 10, 64); err == nil {
			config.MinStake = parsed
		}
	}
	if stake := os.Getenv("MAX_STAKE"); stake != "" {
		if parsed, err := strconv.ParseInt(stake, 10, 64); err == nil {
			config.MaxStake = parsed
		}
	}
	if rotation := os.Getenv("SEED_ROTATION"); rotation != "" {
		if parsed, err := time.ParseDuration(rotation); err == nil {
			config.SeedRotation = parsed
		}
	}

	if config.ListenAddr == "" {
		config.ListenAddr = ":8080"
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
		if config.AdminAPIKey == "" {
			return nil, fmt.Errorf("ADMIN_API_KEY is required")
		}
	}

	if config.MinStake <= 0 || config.MaxStake < config.MinStake {
		return nil, fmt.Errorf("invalid stake limits: min=%d max=%d", config.MinStake, config.MaxStake)
	}

	return config, nil
}

// NewTestConfig returns a config suitable for tests, without reading the
// environment or requiring a database URL.
func NewTestConfig() *Config {
	return &Config{
		ListenAddr:      ":0",
		StartingBalance: 100000,
		MinStake:        1,
		MaxStake:        1000000,
		FeedSize:        10,
		SeedRotation:    24 * time.Hour,
		GatewayTimeout:  time.Second,
		AdminAPIKey:     "test-admin-key",
		Environment:     "test",
	}
}

// SetTestConfig injects a config instance for tests
func SetTestConfig(c *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = c
	once.Do(func() {})
}

// ResetConfig clears the global instance so the next Get reloads it
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}
