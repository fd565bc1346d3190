package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the multiplexer server.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	CommandTimeout   time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool
	ControlToken   string

	ConfigFile string

	DatabaseURL  string
	HistoryLimit int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("MUXD_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("MUXD_METRICS_NAMESPACE", "muxd"),
		AllowAnyOrigin:   false,
		ControlToken:     stringsTrimSpace("MUXD_CONTROL_TOKEN"),
		ConfigFile:       stringsTrimSpace("MUXD_CONFIG_FILE"),
		DatabaseURL:      stringsTrimSpace("MUXD_DATABASE_URL"),
		HistoryLimit:     1000,
		ShutdownTimeout:  15 * time.Second,
		CommandTimeout:   10 * time.Second,
	}
	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("MUXD_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.CommandTimeout, err = durationFromEnv("MUXD_COMMAND_TIMEOUT", cfg.CommandTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryLimit, err = intFromEnv("MUXD_HISTORY_LIMIT", cfg.HistoryLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("MUXD_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.CommandTimeout < time.Second {
		return Config{}, fmt.Errorf("MUXD_COMMAND_TIMEOUT must be at least 1s")
	}
	if cfg.HistoryLimit <= 0 {
		return Config{}, fmt.Errorf("MUXD_HISTORY_LIMIT must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
