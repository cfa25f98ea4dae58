package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Port            string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DBDriver    string
	DatabaseURL string
	DBPath      string

	// External services. Google and ORS providers are only wired when their key is set.
	GoogleAPIKey       string
	ORSAPIKey          string
	NominatimURL       string
	NominatimUserAgent string
	GoogleGeocodingURL string
	GoogleRoutesURL    string
	ORSBaseURL         string

	MaxRetries      int
	RetryBackoff    time.Duration
	GeocoderTimeout time.Duration
	RoutingTimeout  time.Duration

	HistoryMaxLimit int
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	retryBackoff, err := parseDuration("RETRY_BACKOFF", "500ms")
	if err != nil {
		return nil, err
	}
	geocoderTimeout, err := parseDuration("GEOCODER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	routingTimeout, err := parseDuration("ROUTING_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	maxRetries, err := parsePositiveInt("MAX_RETRIES", 3, 10)
	if err != nil {
		return nil, err
	}
	historyMaxLimit, err := parsePositiveInt("HISTORY_MAX_LIMIT", 100, 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            Get("PORT", "8080"),
		LogLevel:        Get("LOG_LEVEL", "info"),
		LogFormat:       Get("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DBDriver:    strings.ToLower(Get("DB_DRIVER", DriverSqlite)),
		DatabaseURL: Get("DATABASE_URL", ""),
		DBPath:      Get("DB_PATH", "data/app.db"),

		GoogleAPIKey:       Get("GOOGLE_API_KEY", ""),
		ORSAPIKey:          Get("ORS_API_KEY", ""),
		NominatimURL:       Get("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: Get("NOMINATIM_USER_AGENT", "address-distance-service/1.0"),
		GoogleGeocodingURL: Get("GOOGLE_GEOCODING_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		GoogleRoutesURL:    Get("GOOGLE_ROUTES_URL", "https://routes.googleapis.com/directions/v2:computeRoutes"),
		ORSBaseURL:         Get("ORS_BASE_URL", "https://api.openrouteservice.org"),

		MaxRetries:      maxRetries,
		RetryBackoff:    retryBackoff,
		GeocoderTimeout: geocoderTimeout,
		RoutingTimeout:  routingTimeout,

		HistoryMaxLimit: historyMaxLimit,
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	case DriverSqlite:
		if cfg.DBPath == "" {
			return nil, errors.New("DB_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: want %q or %q", cfg.DBDriver, DriverPostgres, DriverSqlite)
	}

	return cfg, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(Get(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback, max int) (int, error) {
	s := Get(key, "")
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("invalid %s: must be an integer between 1 and %d", key, max)
	}
	return n, nil
}
