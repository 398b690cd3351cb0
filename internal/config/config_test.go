package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("max retries = %d", cfg.MaxRetries)
	}
	if cfg.SearchTTL != 10*time.Minute {
		t.Errorf("search ttl = %s", cfg.SearchTTL)
	}
	if cfg.DetailsTTL != 30*time.Minute {
		t.Errorf("details ttl = %s", cfg.DetailsTTL)
	}
	if cfg.ChaptersTTL != 60*time.Minute {
		t.Errorf("chapters ttl = %s", cfg.ChaptersTTL)
	}
	if cfg.BreakerThreshold != 5 {
		t.Errorf("breaker threshold = %d", cfg.BreakerThreshold)
	}
	if cfg.BreakerReset != time.Minute {
		t.Errorf("breaker reset = %s", cfg.BreakerReset)
	}
	if cfg.GapProbe {
		t.Error("gap probe should default off")
	}
	if cfg.FallbackProxy != "https://r.jina.ai/" {
		t.Errorf("fallback proxy = %q", cfg.FallbackProxy)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("SEARCH_CACHE_TTL", "2m")
	t.Setenv("GAP_PROBE", "true")
	t.Setenv("BREAKER_RESET", "90s")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("max retries = %d", cfg.MaxRetries)
	}
	if cfg.SearchTTL != 2*time.Minute {
		t.Errorf("search ttl = %s", cfg.SearchTTL)
	}
	if !cfg.GapProbe {
		t.Error("gap probe should be enabled")
	}
	if cfg.BreakerReset != 90*time.Second {
		t.Errorf("breaker reset = %s", cfg.BreakerReset)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("MAX_RETRIES", "lots")
	t.Setenv("SEARCH_CACHE_TTL", "soon")

	cfg := Load()

	if cfg.MaxRetries != 3 {
		t.Errorf("invalid int should keep default, got %d", cfg.MaxRetries)
	}
	if cfg.SearchTTL != 10*time.Minute {
		t.Errorf("invalid duration should keep default, got %s", cfg.SearchTTL)
	}
}
