// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// AIConfig provides settings for the Gemini collaborator.
type AIConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
}

// GeoConfig provides settings for the best-effort geolocation lookup.
type GeoConfig interface {
	GetGeoLookupURL() string
	GetGeoTimeout() time.Duration
	IsGeoEnabled() bool
}

// BulkConfig provides pacing knobs for the bulk action runner.
type BulkConfig interface {
	GetBulkApproveDelay() time.Duration
	GetBulkSendDelay() time.Duration
	GetBulkCooldown() time.Duration
}

// RateLimitConfig provides settings for the IP rate limiter.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env            string
	HTTPAddr       string
	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	GeminiAPIKey string
	GeminiModel  string

	GeoLookupURL string
	GeoTimeout   time.Duration
	GeoEnabled   bool

	BulkApproveDelay time.Duration
	BulkSendDelay    time.Duration
	BulkCooldown     time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// AIConfig implementation
func (c *Config) GetGeminiAPIKey() string { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string  { return c.GeminiModel }

// GeoConfig implementation
func (c *Config) GetGeoLookupURL() string      { return c.GeoLookupURL }
func (c *Config) GetGeoTimeout() time.Duration { return c.GeoTimeout }
func (c *Config) IsGeoEnabled() bool           { return c.GeoEnabled && c.GeoLookupURL != "" }

// BulkConfig implementation
func (c *Config) GetBulkApproveDelay() time.Duration { return c.BulkApproveDelay }
func (c *Config) GetBulkSendDelay() time.Duration    { return c.BulkSendDelay }
func (c *Config) GetBulkCooldown() time.Duration     { return c.BulkCooldown }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	geoTimeout, err := envDuration("GEO_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	approveDelay, err := envDuration("BULK_APPROVE_DELAY", "100ms")
	if err != nil {
		return nil, err
	}
	sendDelay, err := envDuration("BULK_SEND_DELAY", "600ms")
	if err != nil {
		return nil, err
	}
	cooldown, err := envDuration("BULK_COOLDOWN", "2s")
	if err != nil {
		return nil, err
	}
	rateRPS, err := envFloat("RATE_LIMIT_RPS", "20")
	if err != nil {
		return nil, err
	}
	rateBurst, err := envInt("RATE_LIMIT_BURST", "40")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		GeoLookupURL: getEnv("GEO_LOOKUP_URL", "http://ip-api.com/json"),
		GeoTimeout:   geoTimeout,
		GeoEnabled:   strings.EqualFold(getEnv("GEO_ENABLED", "true"), "true"),

		BulkApproveDelay: approveDelay,
		BulkSendDelay:    sendDelay,
		BulkCooldown:     cooldown,

		RateLimitRPS:   rateRPS,
		RateLimitBurst: rateBurst,
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func envDuration(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

func envInt(key, fallback string) (int, error) {
	raw := getEnv(key, fallback)
	result, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, raw)
	}
	return result, nil
}

func envFloat(key, fallback string) (float64, error) {
	raw := getEnv(key, fallback)
	result, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", key, raw)
	}
	return result, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
