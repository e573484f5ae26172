// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/merge.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is populated from environment variables by Load.
type Config struct {
	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// Dataset served by cmd/api
	DatasetPath      string
	DatasetDelimiter rune

	// CORS
	CORSAllowOrigins []string

	// Rate limiting (inbound, per client IP)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Merge defaults
	OutputDir       string
	StatsDelimiter  rune
	TargetDelimiter rune

	// Scraper (outbound politeness)
	ScrapeURL       string
	ScrapeTableID   string
	ScrapeUserAgent string
	ScrapePerMinute int
	ScrapeTimeout   time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults. Only cmd/api requires a dataset path, and it checks for one
// itself; Load never fails on a missing path so cmd/merge can run without.
func Load() (*Config, error) {
	statsDelim, err := envDelim("STATS_DELIMITER", ',')
	if err != nil {
		return nil, err
	}
	targetDelim, err := envDelim("TARGET_DELIMITER", ';')
	if err != nil {
		return nil, err
	}
	datasetDelim, err := envDelim("DATASET_DELIMITER", ';')
	if err != nil {
		return nil, err
	}

	return &Config{
		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		DatasetPath:      envOr("DATASET_PATH", ""),
		DatasetDelimiter: datasetDelim,

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		OutputDir:       envOr("OUTPUT_DIR", "data"),
		StatsDelimiter:  statsDelim,
		TargetDelimiter: targetDelim,

		ScrapeURL:       envOr("SCRAPE_URL", "https://fbref.com/en/comps/11/stats/Serie-A-Stats"),
		ScrapeTableID:   envOr("SCRAPE_TABLE_ID", "stats_standard"),
		ScrapeUserAgent: envOr("SCRAPE_USER_AGENT", "fantalink-stats/1.0 (+https://github.com/fantalink/fantalink-data)"),
		ScrapePerMinute: envInt("SCRAPE_REQUESTS_PER_MINUTE", 8),
		ScrapeTimeout:   time.Duration(envInt("SCRAPE_TIMEOUT_SECONDS", 10)) * time.Second,
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func envDelim(key string, fallback rune) (rune, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	runes := []rune(v)
	if len(runes) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", key, v)
	}
	return runes[0], nil
}
