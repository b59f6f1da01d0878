// Package config loads the articles-api process configuration.
//
// Values come from three layers, later ones winning:
//
//  1. built-in defaults (DefaultAppConfig)
//  2. an optional YAML file, path from CONFIG_FILE
//  3. environment variables (a .env file is loaded into the environment by the binaries)
//
// Load validates the merged result.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	envcfg "articles-api/pkg/config"
)

// AppConfig is the complete process configuration.
type AppConfig struct {
	Version string `yaml:"version"`

	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	CORSOrigins     []string      `yaml:"cors_allowed_origins"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"` // postgres://… or sqlite://…
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	// AutoMigrate applies pending migrations at API startup.
	AutoMigrate bool `yaml:"auto_migrate"`
}

// CacheConfig selects the search cache backend. An empty RedisAddr means the in-process store.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	KeyPrefix     string        `yaml:"key_prefix"`
	TTL           time.Duration `yaml:"ttl"`
}

// RateLimitConfig configures the per-IP limiter. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS           float64       `yaml:"rps"`
	Burst         int           `yaml:"burst"`
	TrustProxy    bool          `yaml:"trust_proxy"`
	CleanupPeriod time.Duration `yaml:"cleanup_period"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type TracingConfig struct {
	SampleRatio float64 `yaml:"sample_ratio"`
}

// UsesRedis reports whether a Redis address was configured.
func (c CacheConfig) UsesRedis() bool { return c.RedisAddr != "" }

// DefaultAppConfig returns the configuration used when nothing is set.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Version: "dev",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Database: DatabaseConfig{
			URL:             "sqlite://file:articles.db",
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 30 * time.Minute,
			AutoMigrate:     true,
		},
		Cache: CacheConfig{
			KeyPrefix: "articles-api",
			TTL:       60 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RPS:           10,
			Burst:         20,
			CleanupPeriod: 5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{SampleRatio: 1.0},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return AppConfig{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFromEnv is Load with the path taken from CONFIG_FILE.
func LoadFromEnv() (AppConfig, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}

func loadFile(path string, cfg *AppConfig) error {
	// #nosec G304 -- path comes from CONFIG_FILE set by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// an empty file decodes to io.EOF and leaves the defaults in place
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	cfg.Version = envcfg.GetEnvString("VERSION", cfg.Version)

	cfg.HTTP.Addr = envcfg.GetEnvString("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.HTTP.RequestTimeout = envcfg.GetEnvDuration("HTTP_REQUEST_TIMEOUT", cfg.HTTP.RequestTimeout)
	cfg.HTTP.ShutdownTimeout = envcfg.GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout)
	cfg.HTTP.CORSOrigins = envcfg.GetEnvStringList("CORS_ALLOWED_ORIGINS", cfg.HTTP.CORSOrigins)

	cfg.Database.URL = envcfg.GetEnvString("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxOpenConns = envcfg.GetEnvInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = envcfg.GetEnvInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.ConnMaxLifetime = envcfg.GetEnvDuration("DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime)
	cfg.Database.ConnMaxIdleTime = envcfg.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.Database.ConnMaxIdleTime)
	cfg.Database.AutoMigrate = envcfg.GetEnvBool("DB_AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.Cache.RedisAddr = envcfg.GetEnvString("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = envcfg.GetEnvString("REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Cache.RedisDB = envcfg.GetEnvInt("REDIS_DB", cfg.Cache.RedisDB)
	cfg.Cache.TTL = envcfg.GetEnvDuration("CACHE_TTL", cfg.Cache.TTL)

	cfg.RateLimit.RPS = envcfg.GetEnvFloat("RATE_LIMIT_RPS", cfg.RateLimit.RPS)
	cfg.RateLimit.Burst = envcfg.GetEnvInt("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TrustProxy = envcfg.GetEnvBool("RATE_LIMIT_TRUST_PROXY", cfg.RateLimit.TrustProxy)

	cfg.Log.Level = envcfg.GetEnvString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envcfg.GetEnvString("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = envcfg.GetEnvString("LOG_FILE", cfg.Log.File)

	cfg.Tracing.SampleRatio = envcfg.GetEnvFloat("TRACING_SAMPLE_RATIO", cfg.Tracing.SampleRatio)
}

// Validate reports every invalid setting at once.
func (c AppConfig) Validate() error {
	var errs []error

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if err := envcfg.ValidatePositiveDuration(c.HTTP.RequestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("http.request_timeout: %w", err))
	}
	if err := envcfg.ValidatePositiveDuration(c.HTTP.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("http.shutdown_timeout: %w", err))
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("http.max_body_bytes must be positive"))
	}

	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url is required"))
	}
	if c.Database.MaxOpenConns <= 0 {
		errs = append(errs, errors.New("database.max_open_conns must be positive"))
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, fmt.Errorf("database.max_idle_conns must be between 0 and %d", c.Database.MaxOpenConns))
	}

	if err := envcfg.ValidateDurationRange(c.Cache.TTL, time.Second, 24*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("cache.ttl: %w", err))
	}
	if err := envcfg.ValidateIntRange(c.Cache.RedisDB, 0, 15); err != nil {
		errs = append(errs, fmt.Errorf("cache.redis_db: %w", err))
	}

	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("rate_limit.burst must be at least 1"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be within [0, 1], got %v", c.Tracing.SampleRatio))
	}

	return errors.Join(errs...)
}
