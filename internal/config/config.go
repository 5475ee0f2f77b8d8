// Package config loads the service configuration: defaults first, then
// an optional YAML file with ${VAR} expansion, then SIEVE_* environment
// overrides on top.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the sieve-core configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Catalog CatalogConfig `yaml:"catalog"`
	Search  SearchConfig  `yaml:"search"`
	Redis   RedisConfig   `yaml:"redis"`
	Worker  WorkerConfig  `yaml:"worker"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

func (c HTTPConfig) ReadTimeout() time.Duration  { return time.Duration(c.ReadTimeoutSec) * time.Second }
func (c HTTPConfig) WriteTimeout() time.Duration { return time.Duration(c.WriteTimeoutSec) * time.Second }
func (c HTTPConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownSec) * time.Second
}

// CatalogConfig holds remote catalog transport and pacing settings.
type CatalogConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`

	// MinDelayMS spaces remote calls; MaxDelayMS caps one backoff sleep.
	MinDelayMS int `yaml:"min_delay_ms"`
	MaxDelayMS int `yaml:"max_delay_ms"`
	MaxRetries int `yaml:"max_retries"`
}

func (c CatalogConfig) Timeout() time.Duration  { return time.Duration(c.TimeoutSec) * time.Second }
func (c CatalogConfig) MinDelay() time.Duration { return time.Duration(c.MinDelayMS) * time.Millisecond }
func (c CatalogConfig) MaxDelay() time.Duration { return time.Duration(c.MaxDelayMS) * time.Millisecond }

// SearchConfig holds aggregation settings.
type SearchConfig struct {
	// Concurrency bounds how many expanded queries run at once.
	Concurrency int `yaml:"concurrency"`

	// MaxPages stops pagination per query; 0 paginates until the
	// catalog returns an empty page.
	MaxPages int `yaml:"max_pages"`

	// FileDetailsPerPage limits file-listing enrichment per page;
	// 0 enriches every record, negative disables enrichment.
	FileDetailsPerPage int `yaml:"file_details_per_page"`

	// ColumnDelaySec paces sequential column searches.
	ColumnDelaySec int `yaml:"column_delay_sec"`

	// CacheSize bounds the in-process query cache.
	CacheSize int `yaml:"cache_size"`
}

func (c SearchConfig) ColumnDelay() time.Duration {
	return time.Duration(c.ColumnDelaySec) * time.Second
}

// RedisConfig holds the optional Redis backend. An empty URL runs the
// service with in-process cache and no queue.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// WorkerConfig holds collection worker settings.
type WorkerConfig struct {
	Concurrency       int    `yaml:"concurrency"`
	DequeueTimeoutSec int    `yaml:"dequeue_timeout_sec"`
	LockTTLSec        int    `yaml:"lock_ttl_sec"`
	OutputDir         string `yaml:"output_dir"`
}

func (c WorkerConfig) DequeueTimeout() time.Duration {
	return time.Duration(c.DequeueTimeoutSec) * time.Second
}
func (c WorkerConfig) LockTTL() time.Duration { return time.Duration(c.LockTTLSec) * time.Second }

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// NewLogger builds a slog logger for the configured level and format.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(l.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Load builds the configuration. An empty path skips the file and uses
// defaults plus environment overrides; an explicit path must exist.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		data = expandEnvVars(data)
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Host == "" {
		c.HTTP.Host = "0.0.0.0"
	}
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Aggregations pace themselves against the remote catalog, so
		// responses can legitimately take minutes.
		c.HTTP.WriteTimeoutSec = 180
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		c.HTTP.AllowedOrigins = []string{"*"}
	}

	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = "https://www.kaggle.com/api/v1"
	}
	if c.Catalog.TimeoutSec <= 0 {
		c.Catalog.TimeoutSec = 30
	}
	if c.Catalog.MinDelayMS <= 0 {
		c.Catalog.MinDelayMS = 1000
	}
	if c.Catalog.MaxDelayMS <= 0 {
		c.Catalog.MaxDelayMS = 3000
	}
	if c.Catalog.MaxRetries <= 0 {
		c.Catalog.MaxRetries = 3
	}

	if c.Search.Concurrency <= 0 {
		c.Search.Concurrency = 4
	}
	if c.Search.MaxPages <= 0 {
		c.Search.MaxPages = 10
	}
	if c.Search.ColumnDelaySec <= 0 {
		c.Search.ColumnDelaySec = 5
	}
	if c.Search.CacheSize <= 0 {
		c.Search.CacheSize = 100
	}

	if c.Worker.Concurrency <= 0 {
		c.Worker.Concurrency = 2
	}
	if c.Worker.DequeueTimeoutSec <= 0 {
		c.Worker.DequeueTimeoutSec = 5
	}
	if c.Worker.LockTTLSec <= 0 {
		c.Worker.LockTTLSec = 600
	}
	if c.Worker.OutputDir == "" {
		c.Worker.OutputDir = "exports"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// applyEnvOverrides lets the environment win over the file for the
// settings that differ per deployment.
func (c *Config) applyEnvOverrides() {
	overrideString(&c.HTTP.Host, "SIEVE_HTTP_HOST")
	overrideInt(&c.HTTP.Port, "SIEVE_HTTP_PORT")

	overrideString(&c.Catalog.BaseURL, "SIEVE_CATALOG_BASE_URL")
	overrideInt(&c.Catalog.TimeoutSec, "SIEVE_CATALOG_TIMEOUT_SEC")
	overrideInt(&c.Catalog.MinDelayMS, "SIEVE_CATALOG_MIN_DELAY_MS")
	overrideInt(&c.Catalog.MaxRetries, "SIEVE_CATALOG_MAX_RETRIES")

	overrideInt(&c.Search.Concurrency, "SIEVE_SEARCH_CONCURRENCY")
	overrideInt(&c.Search.MaxPages, "SIEVE_SEARCH_MAX_PAGES")
	overrideInt(&c.Search.CacheSize, "SIEVE_SEARCH_CACHE_SIZE")

	overrideString(&c.Redis.URL, "SIEVE_REDIS_URL")

	overrideInt(&c.Worker.Concurrency, "SIEVE_WORKER_CONCURRENCY")
	overrideString(&c.Worker.OutputDir, "SIEVE_WORKER_OUTPUT_DIR")

	overrideString(&c.Logging.Level, "SIEVE_LOG_LEVEL")
	overrideString(&c.Logging.Format, "SIEVE_LOG_FORMAT")
}

func overrideString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func overrideInt(dst *int, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*dst = parsed
		}
	}
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment
// variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
