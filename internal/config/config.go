package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Request limits
	MaxBodyBytes int64

	// Highlighting
	HighlightLanguage  string
	HighlightStyle     string
	HighlightFormatter string
	HighlightCacheSize int

	// Source lookup
	ModulePaths      []string
	SourceExtensions []string

	// Render stats
	StatsWindow time.Duration

	LogLevel slog.Level
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("REPLOUT_API_KEY"),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 1<<20), // 1MB

		HighlightLanguage:  envOr("HIGHLIGHT_LANGUAGE", "go"),
		HighlightStyle:     envOr("HIGHLIGHT_STYLE", "monokai"),
		HighlightFormatter: envOr("HIGHLIGHT_FORMATTER", "html"),
		HighlightCacheSize: envInt("HIGHLIGHT_CACHE_SIZE", 512),

		ModulePaths:      envList("MODULE_PATHS", string(os.PathListSeparator), []string{"."}),
		SourceExtensions: envList("SOURCE_EXTENSIONS", ",", []string{".go", ".js", ".json"}),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.HighlightCacheSize <= 0 {
		cfg.HighlightCacheSize = 512
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.ModulePaths) == 0 {
		return fmt.Errorf("MODULE_PATHS must name at least one directory")
	}
	for _, ext := range c.SourceExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("SOURCE_EXTENSIONS entry %q must start with a dot", ext)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}

// envList splits a separated list, dropping blanks. Path entries are cleaned.
func envList(key, sep string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if sep == string(os.PathListSeparator) {
			part = filepath.Clean(part)
		}
		out = append(out, part)
	}
	return out
}
