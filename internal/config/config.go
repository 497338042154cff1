package config

import (
	"errors"
	"fmt"
	"io/fs"
	"lemmony/pkg/serrors"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Store drivers accepted in Config.Store.Driver.
const (
	StoreDriverNone     = "none"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

// Config represents the application configuration structure. Values come from
// an optional YAML file, then environment variables, then command line flags.
type Config struct {
	// Environment selects the log format (development or production)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// Debug enables debug logs, including one line per outbound request
	Debug bool `env:"DEBUG" env-default:"false" yaml:"debug"`
	// UserAgent is sent on every outbound request, to the aggregator and to the local instance
	UserAgent string `env:"USER_AGENT" env-default:"lemmony" yaml:"userAgent"`

	// Aggregator configures the public directory of communities and magazines
	Aggregator struct {
		// BaseURL is the prefix of meta.json and the paginated listings
		BaseURL string `env:"AGGREGATOR_BASE_URL" env-default:"https://lemmyverse.net/data" yaml:"baseURL"`
		// PageSize is the number of entries per aggregator page
		PageSize int `env:"AGGREGATOR_PAGE_SIZE" env-default:"500" yaml:"pageSize"`
		// Timeout bounds every aggregator request, zero disables it
		Timeout time.Duration `env:"AGGREGATOR_TIMEOUT" env-default:"1m" yaml:"timeout"`
	} `yaml:"aggregator"`

	// Local configures the instance to populate with subscriptions
	Local struct {
		// Host is the local instance hostname, e.g. lemmy.co.uk
		Host string `env:"LOCAL_HOST" yaml:"host"`
		// Scheme is used to build the instance base URL
		Scheme string `env:"LOCAL_SCHEME" env-default:"https" yaml:"scheme"`
		// Username is the account the subscriptions are made with
		Username string `env:"LOCAL_USERNAME" yaml:"username"`
		// Password of Username
		Password string `env:"LOCAL_PASSWORD" yaml:"password"`
		// PageSize is the limit used when listing local communities
		PageSize int `env:"LOCAL_PAGE_SIZE" env-default:"50" yaml:"pageSize"`
		// SearchPath is the path hit to make the instance discover a remote actor
		SearchPath string `env:"LOCAL_SEARCH_PATH" env-default:"/search" yaml:"searchPath"`
		// Timeout bounds every local request, zero disables it
		Timeout time.Duration `env:"LOCAL_TIMEOUT" env-default:"1m" yaml:"timeout"`
		// RequestsPerSecond throttles local requests, zero disables throttling
		RequestsPerSecond float64 `env:"LOCAL_REQUESTS_PER_SECOND" env-default:"0" yaml:"requestsPerSecond"`
	} `yaml:"local"`

	// Filter restricts which remote instances are considered
	Filter struct {
		// Include, when not empty, is the only set of instances considered
		Include []string `env:"FILTER_INCLUDE" env-separator:"," yaml:"include"`
		// Exclude is never considered, regardless of Include
		Exclude []string `env:"FILTER_EXCLUDE" env-separator:"," yaml:"exclude"`
	} `yaml:"filter"`

	// Store configures the set of actors already processed by previous runs
	Store struct {
		// Driver is one of none, postgres or redis
		Driver string `env:"STORE_DRIVER" env-default:"none" yaml:"driver"`
		// TTL is how long a processed actor is skipped. Once it expires the actor is
		// searched again if the instance still does not know it. Zero never expires
		TTL time.Duration `env:"STORE_TTL" env-default:"168h" yaml:"ttl"`

		Database struct {
			Username        string        `env:"DATABASE_USERNAME" env-default:"lemmony" yaml:"username"`
			Password        string        `env:"DATABASE_PASSWORD" env-default:"lemmony" yaml:"password"`
			Host            string        `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
			Port            int           `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
			SslMode         string        `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
			DatabaseName    string        `env:"DATABASE_NAME" env-default:"lemmony" yaml:"name"`
			MaxConnections  int           `env:"DATABASE_MAX_CONNECTIONS" env-default:"2" yaml:"maxConnections"`
			ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"` //nolint: lll
		} `yaml:"database"`

		Redis struct {
			Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379" yaml:"addr"`
			Password string `env:"REDIS_PASSWORD" yaml:"password"`
			DB       int    `env:"REDIS_DB" env-default:"0" yaml:"db"`
			Prefix   string `env:"REDIS_PREFIX" env-default:"lemmony:processed:" yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"store"`

	// Metrics configures the end-of-run metrics push
	Metrics struct {
		// PushgatewayURL is where metrics are pushed after a run, empty disables pushing
		PushgatewayURL string `env:"METRICS_PUSHGATEWAY_URL" yaml:"pushgatewayURL"`
		// Job is the Pushgateway job label
		Job string `env:"METRICS_JOB" env-default:"lemmony" yaml:"job"`
	} `yaml:"metrics"`
}

// Load reads configPath when it exists and always applies environment variables.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		_, err := os.Stat(configPath)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
				return nil, fmt.Errorf("could not read config: %w", err)
			}

			return &cfg, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("could not stat config: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config from env: %w", err)
	}

	return &cfg, nil
}

// LocalBaseURL returns the base URL of the local instance.
func (c *Config) LocalBaseURL() string {
	return c.Local.Scheme + "://" + strings.TrimSuffix(c.Local.Host, "/")
}

// ValidateLocal checks the settings needed to talk to the local instance.
func (c *Config) ValidateLocal() error {
	var missing []string
	if strings.TrimSpace(c.Local.Host) == "" {
		missing = append(missing, "local host (-l)")
	}
	if strings.TrimSpace(c.Local.Username) == "" {
		missing = append(missing, "username (-u)")
	}
	if c.Local.Password == "" {
		missing = append(missing, "password (-p)")
	}
	if len(missing) > 0 {
		return serrors.With(serrors.ErrInvalidConfig, "missing %s", strings.Join(missing, ", "))
	}
	if c.Local.PageSize <= 0 {
		return serrors.With(serrors.ErrInvalidConfig, "local page size must be positive, got %d", c.Local.PageSize)
	}
	if c.Local.RequestsPerSecond < 0 {
		return serrors.With(serrors.ErrInvalidConfig, "requests per second must not be negative")
	}

	return nil
}

// ValidateAggregator checks the settings needed to fetch the directory.
func (c *Config) ValidateAggregator() error {
	if strings.TrimSpace(c.Aggregator.BaseURL) == "" {
		return serrors.With(serrors.ErrInvalidConfig, "missing aggregator base URL")
	}
	if c.Aggregator.PageSize <= 0 {
		return serrors.With(serrors.ErrInvalidConfig,
			"aggregator page size must be positive, got %d", c.Aggregator.PageSize)
	}

	return nil
}

// ValidateStore checks the store driver name.
func (c *Config) ValidateStore() error {
	switch c.Store.Driver {
	case "", StoreDriverNone, StoreDriverPostgres, StoreDriverRedis:
		if c.Store.TTL < 0 {
			return serrors.With(serrors.ErrInvalidConfig, "store TTL must not be negative")
		}

		return nil
	default:
		return serrors.With(serrors.ErrInvalidConfig, "unknown store driver %q", c.Store.Driver)
	}
}
