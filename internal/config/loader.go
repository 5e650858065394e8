package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies HIDDENCITY_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known HIDDENCITY_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Search ──
	setStr(&cfg.Search.LeavingFrom, "HIDDENCITY_SEARCH_LEAVING_FROM")
	setStr(&cfg.Search.GoingTo, "HIDDENCITY_SEARCH_GOING_TO")
	setStr(&cfg.Search.Date, "HIDDENCITY_SEARCH_DATE")
	setDuration(&cfg.Search.Interval, "HIDDENCITY_SEARCH_INTERVAL")

	// ── Source ──
	setStr(&cfg.Source.BaseURL, "HIDDENCITY_SOURCE_BASE_URL")
	setStr(&cfg.Source.APIKey, "HIDDENCITY_SOURCE_API_KEY")
	setDuration(&cfg.Source.Timeout, "HIDDENCITY_SOURCE_TIMEOUT")
	setInt(&cfg.Source.Tries, "HIDDENCITY_SOURCE_TRIES")
	setDuration(&cfg.Source.RetryDelay, "HIDDENCITY_SOURCE_RETRY_DELAY")
	setStr(&cfg.Source.OffersFile, "HIDDENCITY_SOURCE_OFFERS_FILE")
	setBool(&cfg.Source.CacheEnabled, "HIDDENCITY_SOURCE_CACHE_ENABLED")
	setDuration(&cfg.Source.CacheTTL, "HIDDENCITY_SOURCE_CACHE_TTL")

	// ── Airports ──
	setBool(&cfg.Airports.Override, "HIDDENCITY_AIRPORTS_OVERRIDE")
	setStr(&cfg.Airports.File, "HIDDENCITY_AIRPORTS_FILE")
	setStr(&cfg.Airports.SeedFile, "HIDDENCITY_AIRPORTS_SEED_FILE")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "HIDDENCITY_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "HIDDENCITY_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "HIDDENCITY_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "HIDDENCITY_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "HIDDENCITY_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "HIDDENCITY_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "HIDDENCITY_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "HIDDENCITY_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "HIDDENCITY_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "HIDDENCITY_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "HIDDENCITY_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "HIDDENCITY_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "HIDDENCITY_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "HIDDENCITY_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "HIDDENCITY_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "HIDDENCITY_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "HIDDENCITY_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "HIDDENCITY_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "HIDDENCITY_S3_REGION")
	setStr(&cfg.S3.Bucket, "HIDDENCITY_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "HIDDENCITY_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "HIDDENCITY_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "HIDDENCITY_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "HIDDENCITY_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "HIDDENCITY_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "HIDDENCITY_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "HIDDENCITY_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "HIDDENCITY_SERVER_API_KEY")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "HIDDENCITY_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "HIDDENCITY_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "HIDDENCITY_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "HIDDENCITY_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "HIDDENCITY_MODE")
	setStr(&cfg.LogLevel, "HIDDENCITY_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
