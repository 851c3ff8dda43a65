package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want :8080", cfg.BindAddr)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Fatalf("CacheTTL = %v, want 24h", cfg.CacheTTL)
	}
	if cfg.CacheCapacity != 1024 {
		t.Fatalf("CacheCapacity = %d, want 1024", cfg.CacheCapacity)
	}
	if cfg.Timezone != "America/Chicago" {
		t.Fatalf("Timezone = %q", cfg.Timezone)
	}
	if cfg.AnthropicAPIKey != "" {
		t.Fatalf("AnthropicAPIKey = %q, want empty default", cfg.AnthropicAPIKey)
	}
	if cfg.AnalyticsEnabled {
		t.Fatalf("AnalyticsEnabled should default to false")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("CACHE_CAPACITY", "32")
	t.Setenv("PROVIDER_TIMEOUT", "2s")
	t.Setenv("ANALYTICS_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.CacheTTL != time.Hour || cfg.CacheCapacity != 32 {
		t.Fatalf("cache overrides not applied: %v / %d", cfg.CacheTTL, cfg.CacheCapacity)
	}
	if cfg.ProviderTimeout != 2*time.Second {
		t.Fatalf("ProviderTimeout = %v", cfg.ProviderTimeout)
	}
	if !cfg.AnalyticsEnabled {
		t.Fatalf("AnalyticsEnabled override not applied")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("CACHE_TTL", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() should fail on unparsable CACHE_TTL")
	}

	setCoreEnvEmpty(t)
	t.Setenv("CACHE_CAPACITY", "-5")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() should fail on non-positive CACHE_CAPACITY")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_SESSION_INACTIVITY_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"APP_TIMEZONE",
		"CACHE_TTL",
		"CACHE_CAPACITY",
		"INVENTORY_BASE_URL",
		"SPECS_BASE_URL",
		"SAFETY_BASE_URL",
		"REALTIME_BASE_URL",
		"PROVIDER_TIMEOUT",
		"ANTHROPIC_API_KEY",
		"ANTHROPIC_API_URL",
		"ANTHROPIC_MODEL",
		"LLM_MAX_TOKENS",
		"LLM_TIMEOUT",
		"DATABASE_URL",
		"ANALYTICS_ENABLED",
		"ANALYTICS_LOG_FILE",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
