package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the concierge service.
type Config struct {
	BindAddr                 string
	ShutdownTimeout          time.Duration
	SessionInactivityTimeout time.Duration
	MetricsNamespace         string
	AllowAnyOrigin           bool

	CacheTTL      time.Duration
	CacheCapacity int

	InventoryBaseURL string
	SpecsBaseURL     string
	SafetyBaseURL    string
	RealtimeBaseURL  string
	ProviderTimeout  time.Duration
	Timezone         string

	AnthropicAPIKey string
	AnthropicAPIURL string
	AnthropicModel  string
	LLMMaxTokens    int
	LLMTimeout      time.Duration

	DatabaseURL string

	AnalyticsEnabled bool
	AnalyticsLogFile string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "concierge"),
		AllowAnyOrigin:   false,

		CacheTTL:      24 * time.Hour,
		CacheCapacity: 1024,

		InventoryBaseURL: envOrDefault("INVENTORY_BASE_URL", "http://localhost:5001"),
		SpecsBaseURL:     envOrDefault("SPECS_BASE_URL", "https://car-api.example.com"),
		SafetyBaseURL:    envOrDefault("SAFETY_BASE_URL", "https://api.nhtsa.gov"),
		RealtimeBaseURL:  trimmedEnv("REALTIME_BASE_URL"),
		ProviderTimeout:  5 * time.Second,
		Timezone:         envOrDefault("APP_TIMEZONE", "America/Chicago"),

		AnthropicAPIKey: trimmedEnv("ANTHROPIC_API_KEY"),
		AnthropicAPIURL: envOrDefault("ANTHROPIC_API_URL", "https://api.anthropic.com/v1/messages"),
		AnthropicModel:  envOrDefault("ANTHROPIC_MODEL", "claude-3-opus-20240229"),
		LLMMaxTokens:    1024,
		LLMTimeout:      30 * time.Second,

		DatabaseURL: trimmedEnv("DATABASE_URL"),

		AnalyticsEnabled: false,
		AnalyticsLogFile: envOrDefault("ANALYTICS_LOG_FILE", "chatbot_analytics.log"),

		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 30 * time.Minute,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.CacheTTL, err = durationFromEnv("CACHE_TTL", cfg.CacheTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.CacheCapacity, err = intFromEnv("CACHE_CAPACITY", cfg.CacheCapacity)
	if err != nil {
		return Config{}, err
	}
	cfg.ProviderTimeout, err = durationFromEnv("PROVIDER_TIMEOUT", cfg.ProviderTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMTimeout, err = durationFromEnv("LLM_TIMEOUT", cfg.LLMTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMMaxTokens, err = intFromEnv("LLM_MAX_TOKENS", cfg.LLMMaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.AnalyticsEnabled, err = boolFromEnv("ANALYTICS_ENABLED", cfg.AnalyticsEnabled)
	if err != nil {
		return Config{}, err
	}

	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be positive")
	}
	if cfg.CacheCapacity <= 0 {
		return Config{}, fmt.Errorf("CACHE_CAPACITY must be positive")
	}
	if cfg.ProviderTimeout <= 0 {
		return Config{}, fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	if cfg.LLMMaxTokens <= 0 {
		return Config{}, fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}
	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
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

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
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
	v := trimmedEnv(key)
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
	v := strings.ToLower(trimmedEnv(key))
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
