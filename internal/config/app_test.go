package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// clearEnv blanks every variable applyEnv reads; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"VERSION", "HTTP_ADDR", "HTTP_REQUEST_TIMEOUT", "HTTP_SHUTDOWN_TIMEOUT", "CORS_ALLOWED_ORIGINS",
		"DATABASE_URL", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME",
		"DB_AUTO_MIGRATE", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_TRUST_PROXY",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "TRACING_SAMPLE_RATIO",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAppConfig(), cfg)
	assert.False(t, cfg.Cache.UsesRedis())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
version: "1.2.3"
http:
  addr: ":9000"
  request_timeout: 10s
  cors_allowed_origins: ["https://app.example.com"]
database:
  url: postgres://app:secret@db:5432/articles
  max_open_conns: 40
cache:
  redis_addr: redis:6379
  ttl: 15m
rate_limit:
  rps: 2.5
  burst: 5
`)
	t.Setenv("HTTP_ADDR", ":9100")
	t.Setenv("CACHE_TTL", "30m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, ":9100", cfg.HTTP.Addr, "env wins over file")
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "postgres://app:secret@db:5432/articles", cfg.Database.URL)
	assert.Equal(t, 40, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns, "unset keys keep defaults")
	assert.True(t, cfg.Cache.UsesRedis())
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig(), cfg)
}

func TestLoad_UnknownKeyIsRejected(t *testing.T) {
	_, err := Load(writeFile(t, "http:\n  adr: \":1\"\n"))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", writeFile(t, "version: from-file\n"))
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Version)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"empty addr", func(c *AppConfig) { c.HTTP.Addr = "" }, "http.addr is required"},
		{"zero timeout", func(c *AppConfig) { c.HTTP.RequestTimeout = 0 }, "http.request_timeout"},
		{"empty database url", func(c *AppConfig) { c.Database.URL = "" }, "database.url is required"},
		{"idle above open", func(c *AppConfig) { c.Database.MaxIdleConns = 100 }, "database.max_idle_conns"},
		{"ttl too short", func(c *AppConfig) { c.Cache.TTL = time.Millisecond }, "cache.ttl"},
		{"redis db out of range", func(c *AppConfig) { c.Cache.RedisDB = 16 }, "cache.redis_db"},
		{"zero burst", func(c *AppConfig) { c.RateLimit.Burst = 0 }, "rate_limit.burst"},
		{"bad log format", func(c *AppConfig) { c.Log.Format = "xml" }, "log.format"},
		{"bad sample ratio", func(c *AppConfig) { c.Tracing.SampleRatio = 2 }, "tracing.sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAppConfig()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.HTTP.Addr = ""
	cfg.Database.URL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.addr")
	assert.Contains(t, err.Error(), "database.url")
}

func TestValidate_RateLimitDisabled(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.RateLimit.RPS = 0
	cfg.RateLimit.Burst = 0
	assert.NoError(t, cfg.Validate())
}
