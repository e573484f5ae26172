package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIPort != 8000 {
		t.Errorf("APIPort = %d, want 8000", cfg.APIPort)
	}
	if cfg.StatsDelimiter != ',' {
		t.Errorf("StatsDelimiter = %q, want ','", cfg.StatsDelimiter)
	}
	if cfg.TargetDelimiter != ';' {
		t.Errorf("TargetDelimiter = %q, want ';'", cfg.TargetDelimiter)
	}
	if cfg.OutputDir != "data" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.ScrapePerMinute != 8 {
		t.Errorf("ScrapePerMinute = %d", cfg.ScrapePerMinute)
	}
	if cfg.RateLimitWindow != 60*time.Second {
		t.Errorf("RateLimitWindow = %v", cfg.RateLimitWindow)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("TARGET_DELIMITER", ",")
	t.Setenv("CACHE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIPort != 9000 {
		t.Errorf("APIPort = %d, want 9000", cfg.APIPort)
	}
	if cfg.TargetDelimiter != ',' {
		t.Errorf("TargetDelimiter = %q", cfg.TargetDelimiter)
	}
	if cfg.CacheEnabled {
		t.Error("CacheEnabled should be false")
	}
}

func TestLoadRejectsMultiCharDelimiter(t *testing.T) {
	t.Setenv("STATS_DELIMITER", ";;")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for multi-character delimiter")
	}
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false in production")
	}
}
