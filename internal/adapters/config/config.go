package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"stockwatch/pkg/errors"
)

type Config struct {
	App           AppConfig
	API           APIConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	AlphaVantage  AlphaVantageConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"stockwatch"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type APIConfig struct {
	Port int `envconfig:"API_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Path string `envconfig:"DATABASE_PATH" default:"stockwatch.db"`
}

// DSN builds the sqlite connection string. Foreign keys must be enabled
// per connection for the membership cascade to work.
func (c DatabaseConfig) DSN() string {
	if c.Path == ":memory:" {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	return fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		c.Path,
	)
}

// InMemory reports whether the store lives in process memory only.
func (c DatabaseConfig) InMemory() bool {
	return c.Path == ":memory:"
}

type RedisConfig struct {
	// Host is optional; when empty the snapshot cache falls back to an
	// in-process implementation.
	Host     string `envconfig:"REDIS_HOST"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type AlphaVantageConfig struct {
	// APIKey may be empty: the quote source then serves the built-in
	// demo dataset and never touches the network.
	APIKey            string        `envconfig:"ALPHA_VANTAGE_API_KEY"`
	BaseURL           string        `envconfig:"ALPHA_VANTAGE_BASE_URL" default:"https://www.alphavantage.co"`
	Timeout           time.Duration `envconfig:"ALPHA_VANTAGE_TIMEOUT" default:"10s"`
	RequestsPerMinute int           `envconfig:"ALPHA_VANTAGE_REQUESTS_PER_MINUTE" default:"5"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains intervals for the background maintenance workers
type WorkerConfig struct {
	// CacheSweeperInterval controls how often stale stock rows are purged
	CacheSweeperInterval time.Duration `envconfig:"WORKER_CACHE_SWEEPER_INTERVAL" default:"1h"`

	// MoversCollectorInterval controls the warm refresh of the movers snapshot.
	// Matches the snapshot freshness window so a healthy collector keeps
	// interactive calls on the cache path.
	MoversCollectorInterval time.Duration `envconfig:"WORKER_MOVERS_COLLECTOR_INTERVAL" default:"30m"`

	CacheSweeperEnabled    bool `envconfig:"WORKER_CACHE_SWEEPER_ENABLED" default:"true"`
	MoversCollectorEnabled bool `envconfig:"WORKER_MOVERS_COLLECTOR_ENABLED" default:"true"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Ignore error - .env file is optional
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process config")
	}

	return &cfg, nil
}
