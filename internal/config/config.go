// Package config loads process configuration from the environment and the
// display settings from a YAML file.
package config

import (
	"log/slog"
	"os"
	"strings"
)

const (
	defaultListenAddr    = ":8080"
	defaultDBPath        = "rssd.db"
	defaultLogFormat     = "json"
	defaultLogFile       = "engine.log"
	defaultDisplayConfig = "display.yaml"

	envListenAddr    = "RSSD_LISTEN_ADDR"
	envDBPath        = "RSSD_DB_PATH"
	envLogLevel      = "RSSD_LOG_LEVEL"
	envLogFormat     = "RSSD_LOG_FORMAT"
	envLogFile       = "RSSD_LOG_FILE"
	envDisplayConfig = "RSSD_DISPLAY_CONFIG"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	DBPath     string
	LogLevel   slog.Level

	// LogFormat is "json" or "text".
	LogFormat string

	// LogFile receives a copy of the log. Empty disables it.
	LogFile string

	DisplayConfig string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	cfg := Config{
		ListenAddr:    defaultListenAddr,
		DBPath:        defaultDBPath,
		LogLevel:      slog.LevelInfo,
		LogFormat:     defaultLogFormat,
		LogFile:       defaultLogFile,
		DisplayConfig: defaultDisplayConfig,
	}

	if v := os.Getenv(envListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(envDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = ParseLogLevel(v)
	}
	if v := os.Getenv(envLogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	// Set but empty means no log file.
	if v, ok := os.LookupEnv(envLogFile); ok {
		cfg.LogFile = v
	}
	if v := os.Getenv(envDisplayConfig); v != "" {
		cfg.DisplayConfig = v
	}

	return cfg
}

// ParseLogLevel converts a level name to a slog.Level, defaulting to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
