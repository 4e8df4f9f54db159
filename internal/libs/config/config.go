// Package config provides application configuration management from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Catalog source kinds
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	APIPort   string
	APIHost   string
	LogLevel  string
	LogFormat string

	CatalogSource    string
	CatalogURL       string
	CatalogFile      string
	DatabaseURL      string
	Locale           language.Tag
	FetchTimeout     time.Duration
	FetchMinInterval time.Duration
	RefreshInterval  time.Duration
	WatchCatalogFile bool

	IncludeURL string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		APIPort:       getEnv("API_PORT", "8080"),
		APIHost:       getEnv("API_HOST", "0.0.0.0"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", SourceHTTP)),
		CatalogURL:    getEnv("CATALOG_URL", "https://typekit.com/api/edge_internal_v1/"),
		CatalogFile:   getEnv("CATALOG_FILE", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		IncludeURL:    getEnv("INCLUDE_URL", "http://webfonts.creativecloud.com/"),
	}

	var err error
	if cfg.Locale, err = language.Parse(getEnv("CATALOG_LOCALE", "und")); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_LOCALE: %w", err)
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchMinInterval, err = getDuration("FETCH_MIN_INTERVAL", time.Second); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getDuration("REFRESH_INTERVAL", 0); err != nil {
		return nil, err
	}
	if cfg.WatchCatalogFile, err = getBool("WATCH_CATALOG_FILE", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the selected catalog source is fully configured
func (c *Config) Validate() error {
	switch c.CatalogSource {
	case SourceHTTP:
		if c.CatalogURL == "" {
			return fmt.Errorf("CATALOG_URL is required for the http source")
		}
	case SourceFile:
		if c.CatalogFile == "" {
			return fmt.Errorf("CATALOG_FILE is required for the file source")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q (want http, file or postgres)", c.CatalogSource)
	}

	if c.WatchCatalogFile && c.CatalogSource != SourceFile {
		return fmt.Errorf("WATCH_CATALOG_FILE requires the file source")
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
