package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Every field can be overridden
// from the environment as SECTION_FIELD, for example DB_HOST or LOCKS_REDIS_ADDR.
// Leaf fields must not carry envconfig tags: envconfig falls back to the bare tag
// (HOST, USER) when the prefixed variable is unset.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DB"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
	Log       LogConfig       `yaml:"log" envconfig:"LOG"`
	Rentals   RentalsConfig   `yaml:"rentals" envconfig:"RENTALS"`
	Locks     LocksConfig     `yaml:"locks" envconfig:"LOCKS"`
	HTTP      HTTPConfig      `yaml:"http" envconfig:"HTTP"`
	Scheduler SchedulerConfig `yaml:"scheduler" envconfig:"SCHEDULER"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Host            string        `yaml:"host" split_words:"true"`
	Port            int           `yaml:"port" split_words:"true"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host" split_words:"true"`
	Port         int    `yaml:"port" split_words:"true"`
	User         string `yaml:"user" split_words:"true"`
	Password     string `yaml:"password" split_words:"true"`
	Name         string `yaml:"database" split_words:"true"`
	SSLMode      string `yaml:"ssl_mode" split_words:"true"`
	MaxOpenConns int    `yaml:"max_open_conns" split_words:"true"`
	AutoMigrate  bool   `yaml:"auto_migrate" split_words:"true"`
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Type string `yaml:"type" split_words:"true"` // "postgres" or "memory"
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" split_words:"true"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" split_words:"true"` // "json" or "text"
}

// RentalsConfig holds lifecycle rules
type RentalsConfig struct {
	// StrictTransitions rejects backwards status moves such as completed -> active.
	StrictTransitions bool `yaml:"strict_transitions" split_words:"true"`
	// Timezone decides which calendar day counts as today for overdue checks.
	Timezone string `yaml:"timezone" split_words:"true"`
}

const (
	LocksLocal = "local"
	LocksRedis = "redis"
)

// LocksConfig selects how per-rental work is serialized
type LocksConfig struct {
	Type          string        `yaml:"type" split_words:"true"` // "local" or "redis"
	RedisAddr     string        `yaml:"redis_addr" split_words:"true"`
	Prefix        string        `yaml:"prefix" split_words:"true"`
	TTL           time.Duration `yaml:"ttl" split_words:"true"`
	RetryInterval time.Duration `yaml:"retry_interval" split_words:"true"`
}

// HTTPConfig contains API middleware settings
type HTTPConfig struct {
	AllowedOrigins     []string `yaml:"allowed_origins" split_words:"true"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute" split_words:"true"`
	// Development relaxes security headers for local, non-TLS use.
	Development bool `yaml:"development" split_words:"true"`
}

// SchedulerConfig contains cron schedule settings (six fields, seconds first)
type SchedulerConfig struct {
	ReportOverdueRentals string `yaml:"report_overdue_rentals" split_words:"true"`
	ReportLowStock       string `yaml:"report_low_stock" split_words:"true"`
}

// Load reads configuration from a YAML file, then applies environment overrides and
// defaults. An empty path skips the file.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Unset variables leave the file values alone.
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Storage.Type == "" {
		c.Storage.Type = StoragePostgres
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Rentals.Timezone == "" {
		c.Rentals.Timezone = "UTC"
	}
	if c.Locks.Type == "" {
		c.Locks.Type = LocksLocal
	}
	if c.Locks.Prefix == "" {
		c.Locks.Prefix = "rental-tracker:lock:"
	}
	if c.Locks.TTL == 0 {
		c.Locks.TTL = 10 * time.Second
	}
	if c.Locks.RetryInterval == 0 {
		c.Locks.RetryInterval = 25 * time.Millisecond
	}
	if c.HTTP.RateLimitPerMinute == 0 {
		c.HTTP.RateLimitPerMinute = 300
	}
	if c.Scheduler.ReportOverdueRentals == "" {
		c.Scheduler.ReportOverdueRentals = "0 0 7 * * *" // 7 AM daily
	}
	if c.Scheduler.ReportLowStock == "" {
		c.Scheduler.ReportLowStock = "0 30 7 * * *" // 7:30 AM daily
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Storage.Type {
	case StoragePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage type %q (want postgres or memory)", c.Storage.Type)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q (want json or text)", c.Log.Format)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	switch c.Locks.Type {
	case LocksLocal:
	case LocksRedis:
		if c.Locks.RedisAddr == "" {
			return fmt.Errorf("locks.redis_addr is required for redis locks")
		}
	default:
		return fmt.Errorf("unknown locks type %q (want local or redis)", c.Locks.Type)
	}

	if c.HTTP.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate limit must not be negative: %d", c.HTTP.RateLimitPerMinute)
	}

	return nil
}

// Location resolves the rentals time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Rentals.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid rentals timezone %q: %w", c.Rentals.Timezone, err)
	}
	return loc, nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
