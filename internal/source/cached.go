package source

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jclinedev/hiddencity/internal/domain"
)

// CachedSource decorates an itinerary source with an offer cache so repeated
// runs over the same routes within the cache TTL skip the upstream fetch.
type CachedSource struct {
	inner  domain.ItinerarySource
	cache  domain.OfferCache
	logger *slog.Logger
}

// NewCachedSource wraps inner with cache.
func NewCachedSource(inner domain.ItinerarySource, cache domain.OfferCache, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:  inner,
		cache:  cache,
		logger: logger.With(slog.String("component", "cached_source")),
	}
}

// FetchOffers serves from the cache when possible. Cache failures other than
// a miss are logged and fall through to the inner source; a failed cache
// write never fails the fetch.
func (c *CachedSource) FetchOffers(ctx context.Context, q domain.RouteQuery) ([]domain.RawOffer, error) {
	offers, err := c.cache.GetOffers(ctx, q)
	if err == nil {
		return offers, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		c.logger.WarnContext(ctx, "offer cache read failed",
			slog.String("origin", q.Origin),
			slog.String("destination", q.Destination),
			slog.String("error", err.Error()),
		)
	}

	offers, err = c.inner.FetchOffers(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetOffers(ctx, q, offers); err != nil {
		c.logger.WarnContext(ctx, "offer cache write failed",
			slog.String("origin", q.Origin),
			slog.String("destination", q.Destination),
			slog.String("error", err.Error()),
		)
	}
	return offers, nil
}
