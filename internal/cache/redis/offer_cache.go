// Package redis provides the Redis-backed offer cache that sits in front of
// the itinerary source. The cache owns its connection; there is no separate
// client wrapper because nothing else in the engine talks to Redis.
package redis

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jclinedev/hiddencity/internal/domain"
)

// defaultTTL bounds how long a cached batch is served when no TTL is
// configured. Fares move often enough that unbounded caching is never right.
const defaultTTL = 10 * time.Minute

// Config holds the connection parameters and cache policy for the offer
// cache.
type Config struct {
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	MaxRetries int
	TLSEnabled bool
	// TTL is how long a cached batch stays authoritative. Zero or negative
	// falls back to defaultTTL.
	TTL time.Duration
}

// OfferCache implements domain.OfferCache on Redis string values. Each
// route's batch is stored as JSON at key "offers:{origin}:{destination}:{date}"
// so a watch-mode run re-querying the same routes within the TTL skips the
// upstream fetch.
type OfferCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewOfferCache connects to Redis with cfg, verifies the connection with a
// ping, and returns the cache.
func NewOfferCache(ctx context.Context, cfg Config) (*OfferCache, error) {
	rdb := redis.NewClient(options(cfg))
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &OfferCache{rdb: rdb, ttl: effectiveTTL(cfg.TTL)}, nil
}

func options(cfg Config) *redis.Options {
	opts := &redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		PoolSize:   cfg.PoolSize,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.TLSEnabled {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

func effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return defaultTTL
	}
	return ttl
}

func offerKey(q domain.RouteQuery) string {
	return fmt.Sprintf("offers:%s:%s:%s", q.Origin, q.Destination, q.Date)
}

// GetOffers retrieves the cached batch for q. It returns domain.ErrNotFound
// when the key does not exist.
func (oc *OfferCache) GetOffers(ctx context.Context, q domain.RouteQuery) ([]domain.RawOffer, error) {
	data, err := oc.rdb.Get(ctx, offerKey(q)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get offers %s-%s: %w", q.Origin, q.Destination, err)
	}

	var offers []domain.RawOffer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, fmt.Errorf("redis: decode offers %s-%s: %w", q.Origin, q.Destination, err)
	}
	return offers, nil
}

// SetOffers stores the batch for q with the cache TTL. Empty batches are
// cached too; an empty upstream result within the TTL is still authoritative.
func (oc *OfferCache) SetOffers(ctx context.Context, q domain.RouteQuery, offers []domain.RawOffer) error {
	data, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("redis: encode offers %s-%s: %w", q.Origin, q.Destination, err)
	}
	if err := oc.rdb.Set(ctx, offerKey(q), data, oc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set offers %s-%s: %w", q.Origin, q.Destination, err)
	}
	return nil
}

// Ping checks the Redis connection for the health endpoint.
func (oc *OfferCache) Ping(ctx context.Context) error {
	if err := oc.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (oc *OfferCache) Close() error {
	return oc.rdb.Close()
}

// Compile-time interface check.
var _ domain.OfferCache = (*OfferCache)(nil)
