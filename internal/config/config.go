// Package config provides application configuration loaded from
// environment variables with defaults and validation. The library
// itself takes plain arguments; this package exists for embedding
// applications (the demo CLI, a future GUI shell) so they agree on
// variable names and defaults.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for an embedding application.
type Config struct {
	// DataFile is the catalog file path (POS_DATA_FILE).
	DataFile string
	// BackupKeep is how many timestamped backups to retain when
	// pruning (POS_BACKUP_KEEP). 0 disables retention entirely.
	BackupKeep int
	// AutosaveInterval is the period between automatic saves
	// (POS_AUTOSAVE_INTERVAL). Scheduling is the embedder's job; the
	// store only exposes synchronous save/load.
	AutosaveInterval time.Duration

	// LogLevel is the zerolog level name (LOG_LEVEL).
	LogLevel string
	// LogPretty enables human-readable console output (LOG_PRETTY).
	LogPretty bool
}

// Load reads configuration from the environment, applies defaults,
// normalizes, and validates. It returns the partially populated config
// alongside the error so callers can report what was parsed.
func Load() (Config, error) {
	cfg := Config{
		DataFile:         getenv("POS_DATA_FILE", "menu.json"),
		BackupKeep:       getint("POS_BACKUP_KEEP", 10),
		AutosaveInterval: getdur("POS_AUTOSAVE_INTERVAL", time.Minute),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.DataFile) == "" {
		return cfg, errors.New("POS_DATA_FILE must not be empty")
	}
	if cfg.BackupKeep < 0 {
		return cfg, errors.New("POS_BACKUP_KEEP must be >= 0")
	}
	if cfg.AutosaveInterval <= 0 {
		return cfg, errors.New("POS_AUTOSAVE_INTERVAL must be a positive duration")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
