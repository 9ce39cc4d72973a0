package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// Upstream verification API
	APIBaseURL    string        `json:"api_base_url"`
	APITimeout    time.Duration `json:"api_timeout"`
	APIMaxClients int           `json:"api_max_clients"`

	// Session cookie
	SessionCookieName   string `json:"session_cookie_name"`
	SessionCookieSecure bool   `json:"session_cookie_secure"`
	SessionCookieMaxAge int    `json:"session_cookie_max_age"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// Public lookup rate limiting
	RateLimitEnabled         bool          `json:"rate_limit_enabled"`
	RateLimitPerMinute       int           `json:"rate_limit_per_minute"`
	RateLimitCleanupInterval time.Duration `json:"rate_limit_cleanup_interval"`

	// Graceful shutdown
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "3000"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	apiBaseURL := strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if apiBaseURL == "" {
		return fmt.Errorf("API_BASE_URL environment variable is required")
	}
	if _, err := url.ParseRequestURI(apiBaseURL); err != nil {
		return fmt.Errorf("invalid API_BASE_URL: %w", err)
	}

	apiTimeout, err := time.ParseDuration(getEnvOrDefault("API_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	rateLimitPerMinute := getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 30)
	if rateLimitPerMinute < 1 {
		return fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: must be positive")
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// Upstream verification API
		APIBaseURL:    apiBaseURL,
		APITimeout:    apiTimeout,
		APIMaxClients: getEnvAsIntOrDefault("API_MAX_CLIENTS", 20),

		// Session cookie
		SessionCookieName:   getEnvOrDefault("SESSION_COOKIE_NAME", "authToken"),
		SessionCookieSecure: getEnvAsBoolOrDefault("SESSION_COOKIE_SECURE", false),
		SessionCookieMaxAge: getEnvAsIntOrDefault("SESSION_COOKIE_MAX_AGE", 0),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		// Public lookup rate limiting
		RateLimitEnabled:         getEnvAsBoolOrDefault("RATE_LIMIT_ENABLED", true),
		RateLimitPerMinute:       rateLimitPerMinute,
		RateLimitCleanupInterval: getEnvAsDurationOrDefault("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),

		// Graceful shutdown
		ShutdownTimeout: getEnvAsDurationOrDefault("SHUTDOWN_TIMEOUT", 30*time.Second),

		// Tracing configuration
		TracingEnabled:  getEnvAsBoolOrDefault("TRACING_ENABLED", false),
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns environment variable as int or default if not set or invalid
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns environment variable as bool or default if not set or invalid
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault returns environment variable as duration or default if not set or invalid
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
