// Package config loads the server settings from the environment.
package config

import (
	"fmt"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIToken = "dev-token"

type Config struct {
	// Servers
	GRPCAddr string
	HTTPAddr string
	APIToken string

	// Database
	DBConnStr string

	// Backend selection
	PreferencesBackend string
	CacheBackend       string

	// Cache
	RedisAddr            string
	CacheTTL             time.Duration
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// HTTP
	RateLimitCapacity  int
	RateLimitWindow    time.Duration
	CORSAllowedOrigins []string
}

// Load reads a .env file when present, then the process environment
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8081"),
		APIToken: getEnv("API_TOKEN", defaultAPIToken),

		DBConnStr: dbConnString(),

		PreferencesBackend: getEnv("PREFERENCES_BACKEND", "memory"),
		CacheBackend:       getEnv("CACHE_BACKEND", "memory"),

		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:             getEnvDuration("CACHE_TTL", 10*time.Minute),
		CacheMaxEntries:      getEnvInt("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		RateLimitCapacity:  getEnvInt("RATE_LIMIT_CAPACITY", 60),
		RateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate listen addresses
	for name, addr := range map[string]string{"gRPC": c.GRPCAddr, "HTTP": c.HTTPAddr} {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid %s address '%s': %v", name, addr, err))
		}
	}

	if c.APIToken == "" {
		errors = append(errors, "API token cannot be empty")
	}

	// Validate backends
	validPreferences := []string{"memory", "postgres"}
	if !slices.Contains(validPreferences, c.PreferencesBackend) {
		errors = append(errors, fmt.Sprintf("invalid preferences backend '%s': must be one of %v", c.PreferencesBackend, validPreferences))
	}
	if c.PreferencesBackend == "postgres" && c.DBConnStr == "" {
		errors = append(errors, "database connection string cannot be empty when using postgres backend")
	}

	validCaches := []string{"memory", "redis", "none"}
	if !slices.Contains(validCaches, c.CacheBackend) {
		errors = append(errors, fmt.Sprintf("invalid cache backend '%s': must be one of %v", c.CacheBackend, validCaches))
	}
	if c.CacheBackend == "redis" && c.RedisAddr == "" {
		errors = append(errors, "Redis address cannot be empty when using redis cache")
	}
	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}
	// The memory cache also backs an unreachable Redis
	if c.CacheBackend != "none" {
		if c.CacheMaxEntries < 1 {
			errors = append(errors, fmt.Sprintf("invalid cache max entries %d: must be at least 1", c.CacheMaxEntries))
		}
		if c.CacheCleanupInterval < time.Second {
			errors = append(errors, fmt.Sprintf("invalid cache cleanup interval %v: must be at least 1 second", c.CacheCleanupInterval))
		}
	}

	// Validate logging
	validFormats := []string{"text", "json"}
	if !slices.Contains(validFormats, strings.ToLower(c.LogFormat)) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	// Validate rate limiting
	if c.RateLimitCapacity < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit capacity %d: must be at least 1", c.RateLimitCapacity))
	}
	if c.RateLimitWindow < time.Second {
		errors = append(errors, fmt.Sprintf("invalid rate limit window %v: must be at least 1 second", c.RateLimitWindow))
	}

	// Return combined errors
	if len(errors) > 0 {
		slices.Sort(errors)
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// dbConnString prefers DB_CONN_STR and otherwise builds one from individual vars (Docker friendly)
func dbConnString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "compound"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
