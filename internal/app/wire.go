package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jclinedev/hiddencity/internal/airports"
	"github.com/jclinedev/hiddencity/internal/arbitrage"
	s3blob "github.com/jclinedev/hiddencity/internal/blob/s3"
	"github.com/jclinedev/hiddencity/internal/cache/redis"
	"github.com/jclinedev/hiddencity/internal/config"
	"github.com/jclinedev/hiddencity/internal/domain"
	"github.com/jclinedev/hiddencity/internal/notify"
	"github.com/jclinedev/hiddencity/internal/server/handler"
	"github.com/jclinedev/hiddencity/internal/source"
	"github.com/jclinedev/hiddencity/internal/store/postgres"
)

// Dependencies bundles everything the application modes need. It is built by
// Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Source   domain.ItinerarySource
	Airports domain.AirportLister

	// Blob is nil when archiving is disabled.
	Blob domain.BlobWriter

	Notifier *notify.Notifier
	History  *arbitrage.History

	// Pingers feed the health endpoint, one per wired backing service.
	Pingers map[string]handler.Pinger
}

// Wire constructs the concrete dependency implementations from cfg and
// returns them with a cleanup function to be called on shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		History: arbitrage.NewHistory(0),
		Pingers: make(map[string]handler.Pinger),
	}

	// Candidate airports: Postgres reference store unless a file override is
	// configured.
	if cfg.Airports.Override {
		deps.Airports = airports.NewFileLister(cfg.Airports.File)
	} else if cfg.NeedsPostgres() {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		store := postgres.NewAirportStore(pgClient.Pool())
		if cfg.Airports.SeedFile != "" {
			seed, err := airports.LoadSeedList(cfg.Airports.SeedFile)
			if err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: airport seed: %w", err)
			}
			if err := store.UpsertAirports(ctx, seed); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: airport seed: %w", err)
			}
			logger.InfoContext(ctx, "airport reference list refreshed",
				slog.Int("airports", len(seed)),
			)
		}

		deps.Airports = airports.NewStoreLister(store)
		deps.Pingers["postgres"] = pgClient.Pool().Ping
	}

	// Itinerary source: file-backed for offline runs, HTTP otherwise, with an
	// optional Redis cache in front.
	var src domain.ItinerarySource
	if cfg.Source.OffersFile != "" {
		src = source.NewFileSource(cfg.Source.OffersFile)
	} else if cfg.Source.BaseURL != "" {
		src = source.NewHTTPSource(source.HTTPConfig{
			BaseURL:    cfg.Source.BaseURL,
			APIKey:     cfg.Source.APIKey,
			Timeout:    cfg.Source.Timeout.Duration,
			Tries:      cfg.Source.Tries,
			RetryDelay: cfg.Source.RetryDelay.Duration,
		}, logger)
	}

	if src != nil && cfg.NeedsRedis() {
		offerCache, err := redis.NewOfferCache(ctx, redis.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
			TTL:        cfg.Source.CacheTTL.Duration,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = offerCache.Close() })

		src = source.NewCachedSource(src, offerCache, logger)
		deps.Pingers["redis"] = offerCache.Ping
	}
	deps.Source = src

	// S3 scrape archiving.
	if cfg.NeedsS3() {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })

		deps.Blob = s3blob.NewWriter(s3Client)
		deps.Pingers["s3"] = s3Client.Health
	}

	// Notifications.
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
