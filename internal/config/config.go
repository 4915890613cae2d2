// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// RedisURL is the Redis connection string for the geocode cache.
	// Optional; when empty, geocode results are not cached.
	RedisURL string

	// GeocoderURL is the base URL of the geocoding API. Optional; when
	// empty, locations are stored without coordinates.
	GeocoderURL string

	// GeocoderAPIKey authenticates requests to the geocoding API.
	// Required when GeocoderURL is set.
	GeocoderAPIKey string

	// GeocodeDebounce is the quiet period before a location edit triggers
	// a geocode request. Defaults to 2s.
	GeocodeDebounce time.Duration

	// StorageURL is the base URL of the receipt object store. Optional;
	// when empty, receipt uploads are disabled.
	StorageURL string

	// StorageSecret signs time-limited receipt download URLs.
	// Required when StorageURL is set.
	StorageSecret string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		RedisURL:       os.Getenv("REDIS_URL"),
		GeocoderURL:    os.Getenv("GEOCODER_URL"),
		GeocoderAPIKey: os.Getenv("GEOCODER_API_KEY"),
		StorageURL:     os.Getenv("STORAGE_URL"),
		StorageSecret:  os.Getenv("STORAGE_SECRET"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	debounce, err := time.ParseDuration(getEnv("GEOCODE_DEBOUNCE", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid GEOCODE_DEBOUNCE: %w", err)
	}
	cfg.GeocodeDebounce = debounce

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.GeocoderURL != "" && cfg.GeocoderAPIKey == "" {
		missing = append(missing, "GEOCODER_API_KEY")
	}
	if cfg.StorageURL != "" && cfg.StorageSecret == "" {
		missing = append(missing, "STORAGE_SECRET")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
