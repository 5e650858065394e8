package domain

import "context"

// OfferCache caches raw offer batches per route query. GetOffers returns
// ErrNotFound on a miss.
type OfferCache interface {
	GetOffers(ctx context.Context, q RouteQuery) ([]RawOffer, error)
	SetOffers(ctx context.Context, q RouteQuery, offers []RawOffer) error
}
