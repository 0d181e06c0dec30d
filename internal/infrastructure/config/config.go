package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all daemon configuration.
type Config struct {
	Seats     SeatConfig
	Console   ConsoleConfig
	Logging   LogConfig
	Debug     DebugConfig
	RateLimit RateLimitConfig
}

// SeatConfig holds seat registry configuration.
type SeatConfig struct {
	RuntimeDir  string        `envconfig:"USHERD_RUNTIME_DIR" default:"/run/usherd"`
	ConsoleSeat string        `envconfig:"USHERD_CONSOLE_SEAT" default:"seat0"`
	AutoVTs     int           `envconfig:"USHERD_AUTO_VTS" default:"6"`
	GCInterval  time.Duration `envconfig:"USHERD_GC_INTERVAL" default:"30s"`
}

// ConsoleConfig holds virtual-console tracking configuration.
type ConsoleConfig struct {
	ActivePath    string        `envconfig:"USHERD_ACTIVE_VT_PATH" default:"/sys/class/tty/tty0/active"`
	TTYPathFormat string        `envconfig:"USHERD_TTY_PATH_FORMAT" default:"/dev/tty%d"`
	PollInterval  time.Duration `envconfig:"USHERD_VT_POLL_INTERVAL" default:"1s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"USHERD_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"USHERD_LOG_DEV" default:"false"`
}

// DebugConfig holds the read-only debug server configuration.
type DebugConfig struct {
	Enabled bool   `envconfig:"USHERD_DEBUG_ENABLED" default:"true"`
	Port    string `envconfig:"USHERD_DEBUG_PORT" default:"8787"`
	Host    string `envconfig:"USHERD_DEBUG_HOST" default:"127.0.0.1"`
}

// RateLimitConfig holds rate limiting configuration for the debug server.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"USHERD_RATE_LIMIT_RPS" default:"50"`
	Burst             int  `envconfig:"USHERD_RATE_LIMIT_BURST" default:"100"`
	Enabled           bool `envconfig:"USHERD_RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Seats: SeatConfig{
			RuntimeDir:  "/run/usherd",
			ConsoleSeat: "seat0",
			AutoVTs:     6,
			GCInterval:  30 * time.Second,
		},
		Console: ConsoleConfig{
			ActivePath:    "/sys/class/tty/tty0/active",
			TTYPathFormat: "/dev/tty%d",
			PollInterval:  time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Debug: DebugConfig{
			Enabled: true,
			Port:    "8787",
			Host:    "127.0.0.1",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
			Enabled:           true,
		},
	}
}
