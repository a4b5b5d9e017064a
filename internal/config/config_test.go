package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		GRPCAddr:             ":8080",
		HTTPAddr:             ":8081",
		APIToken:             "token",
		DBConnStr:            "host=localhost dbname=compound",
		PreferencesBackend:   "memory",
		CacheBackend:         "memory",
		RedisAddr:            "localhost:6379",
		CacheTTL:             time.Minute,
		CacheMaxEntries:      100,
		CacheCleanupInterval: time.Minute,
		LogLevel:             "info",
		LogFormat:            "text",
		RateLimitCapacity:    10,
		RateLimitWindow:      time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid default config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid postgres and redis config",
			mutate: func(c *Config) {
				c.PreferencesBackend = "postgres"
				c.CacheBackend = "redis"
				c.LogFormat = "JSON"
			},
			wantErr: false,
		},
		{
			name:        "invalid gRPC address",
			mutate:      func(c *Config) { c.GRPCAddr = "8080" },
			wantErr:     true,
			errorString: "invalid gRPC address '8080'",
		},
		{
			name:        "memory cache without a size cap",
			mutate:      func(c *Config) { c.CacheMaxEntries = 0 },
			wantErr:     true,
			errorString: "invalid cache max entries 0: must be at least 1",
		},
		{
			name:        "memory cache sweeping too often",
			mutate:      func(c *Config) { c.CacheCleanupInterval = time.Millisecond },
			wantErr:     true,
			errorString: "invalid cache cleanup interval 1ms",
		},
		{
			name: "cache limits ignored without a cache",
			mutate: func(c *Config) {
				c.CacheBackend = "none"
				c.CacheMaxEntries = 0
				c.CacheCleanupInterval = 0
			},
			wantErr: false,
		},
		{
			name:        "empty API token",
			mutate:      func(c *Config) { c.APIToken = "" },
			wantErr:     true,
			errorString: "API token cannot be empty",
		},
		{
			name:        "invalid preferences backend",
			mutate:      func(c *Config) { c.PreferencesBackend = "sqlite" },
			wantErr:     true,
			errorString: "invalid preferences backend 'sqlite': must be one of [memory postgres]",
		},
		{
			name: "postgres backend missing connection string",
			mutate: func(c *Config) {
				c.PreferencesBackend = "postgres"
				c.DBConnStr = ""
			},
			wantErr:     true,
			errorString: "database connection string cannot be empty when using postgres backend",
		},
		{
			name:        "invalid cache backend",
			mutate:      func(c *Config) { c.CacheBackend = "memcached" },
			wantErr:     true,
			errorString: "invalid cache backend 'memcached': must be one of [memory redis none]",
		},
		{
			name: "redis cache missing address",
			mutate: func(c *Config) {
				c.CacheBackend = "redis"
				c.RedisAddr = ""
			},
			wantErr:     true,
			errorString: "Redis address cannot be empty when using redis cache",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "rate limit capacity too low",
			mutate:      func(c *Config) { c.RateLimitCapacity = 0 },
			wantErr:     true,
			errorString: "invalid rate limit capacity 0: must be at least 1",
		},
		{
			name:        "rate limit window too short",
			mutate:      func(c *Config) { c.RateLimitWindow = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid rate limit window 100ms: must be at least 1 second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorString)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.APIToken = ""
	cfg.CacheBackend = "bogus"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "API token cannot be empty")
	assert.Contains(t, err.Error(), "invalid cache backend 'bogus'")
}

func TestLoad(t *testing.T) {
	t.Setenv("GRPC_ADDR", ":9090")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_CAPACITY", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("DB_CONN_STR", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "projections")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.GRPCAddr)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 60, cfg.RateLimitCapacity, "unparsable values fall back to the default")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Contains(t, cfg.DBConnStr, "host=db")
	assert.Contains(t, cfg.DBConnStr, "dbname=projections")
	assert.Equal(t, 1000, cfg.CacheMaxEntries)
	assert.Equal(t, time.Minute, cfg.CacheCleanupInterval)
}
