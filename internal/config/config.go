// Package config defines the top-level configuration for the hidden-city fare
// engine and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by HIDDENCITY_* environment variables.
type Config struct {
	Search   SearchConfig   `toml:"search"`
	Source   SourceConfig   `toml:"source"`
	Airports AirportsConfig `toml:"airports"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Server   ServerConfig   `toml:"server"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// SearchConfig holds the route being searched and the watch-mode cadence.
type SearchConfig struct {
	// LeavingFrom is the origin airport code.
	LeavingFrom string `toml:"leaving_from"`
	// GoingTo is the traveler's real destination airport code.
	GoingTo string `toml:"going_to"`
	// Date is the travel date in the source's MM/DD/YYYY format.
	Date string `toml:"date"`
	// Interval is the delay between runs in watch mode.
	Interval duration `toml:"interval"`
}

// SourceConfig holds itinerary source parameters.
type SourceConfig struct {
	// BaseURL is the one-way offer search endpoint.
	BaseURL string   `toml:"base_url"`
	APIKey  string   `toml:"api_key"`
	Timeout duration `toml:"timeout"`
	// Tries is how many times an empty batch is re-fetched before being
	// accepted as genuinely empty (listings render asynchronously upstream).
	Tries      int      `toml:"tries"`
	RetryDelay duration `toml:"retry_delay"`
	// OffersFile, when set, replaces the HTTP source with a file-backed one.
	OffersFile string `toml:"offers_file"`
	// CacheEnabled puts the Redis offer cache in front of the source.
	CacheEnabled bool     `toml:"cache_enabled"`
	CacheTTL     duration `toml:"cache_ttl"`
}

// AirportsConfig selects the candidate list provider.
type AirportsConfig struct {
	// Override switches from the Postgres reference store to a plain file of
	// newline-delimited airport codes.
	Override bool   `toml:"override"`
	File     string `toml:"file"`
	// SeedFile, when set, upserts "CODE,Name" entries into the reference
	// store at startup, replacing the migration's built-in list.
	SeedFile string `toml:"seed_file"`
}

// PostgresConfig holds PostgreSQL connection parameters for the airport
// reference store.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for scrape archiving.
type S3Config struct {
	// Enabled turns on raw batch and run archiving.
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds HTTP status server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Search: SearchConfig{
			Interval: duration{30 * time.Minute},
		},
		Source: SourceConfig{
			Timeout:    duration{20 * time.Second},
			Tries:      3,
			RetryDelay: duration{time.Second},
			CacheTTL:   duration{10 * time.Minute},
		},
		Airports: AirportsConfig{
			Override: false,
			File:     "airports.txt",
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "hiddencity",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   10,
			MaxRetries: 3,
			TLSEnabled: false,
		},
		S3: S3Config{
			Enabled:        false,
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "hiddencity-scrapes",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Notify: NotifyConfig{
			Events: []string{"arb_found", "run_complete", "error"},
		},
		Mode:     "scan",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"scan":  true,
	"watch": true,
	"serve": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// NeedsPostgres reports whether the configured mode and airport provider
// require a database connection.
func (c *Config) NeedsPostgres() bool {
	return !c.Airports.Override && c.Mode != "serve"
}

// NeedsRedis reports whether the offer cache is in play.
func (c *Config) NeedsRedis() bool {
	return c.Source.CacheEnabled && c.Mode != "serve"
}

// NeedsS3 reports whether scrape archiving is in play.
func (c *Config) NeedsS3() bool {
	return c.S3.Enabled && c.Mode != "serve"
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: scan, watch, serve)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Search — required for scanning modes.
	if c.Mode == "scan" || c.Mode == "watch" {
		if c.Search.LeavingFrom == "" {
			errs = append(errs, "search: leaving_from must not be empty")
		}
		if c.Search.GoingTo == "" {
			errs = append(errs, "search: going_to must not be empty")
		}
		if c.Search.LeavingFrom != "" && c.Search.LeavingFrom == c.Search.GoingTo {
			errs = append(errs, "search: leaving_from and going_to must differ")
		}
		if c.Search.Date == "" {
			errs = append(errs, "search: date must not be empty")
		}
		if c.Source.BaseURL == "" && c.Source.OffersFile == "" {
			errs = append(errs, "source: either base_url or offers_file must be set")
		}
		if c.Source.Tries < 1 {
			errs = append(errs, "source: tries must be >= 1")
		}
	}
	if c.Mode == "watch" && c.Search.Interval.Duration <= 0 {
		errs = append(errs, "search: interval must be > 0 for watch mode")
	}

	// Airports — file override needs a path, store needs Postgres.
	if c.Airports.Override && c.Airports.File == "" {
		errs = append(errs, "airports: file must be set when override is enabled")
	}
	if c.NeedsPostgres() {
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 {
			errs = append(errs, "postgres: pool_min_conns must be >= 0")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	if c.NeedsRedis() {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when source caching is enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if c.NeedsS3() {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when archiving is enabled")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when archiving is enabled")
		}
	}

	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}
	if c.Mode == "serve" && !c.Server.Enabled {
		errs = append(errs, "server: must be enabled for serve mode")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
