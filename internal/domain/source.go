package domain

import "context"

// ItinerarySource yields raw one-way offer listings for a route. A source is
// responsible for its own transport retries; an error from FetchOffers means
// the batch is unobtainable and the engine aborts the remaining scan. An
// empty batch is a normal result, never an error.
type ItinerarySource interface {
	FetchOffers(ctx context.Context, q RouteQuery) ([]RawOffer, error)
}

// AirportLister yields candidate destination airport codes in search order.
// The engine skips the configured origin itself; listers return the full
// reference list.
type AirportLister interface {
	ListAirports(ctx context.Context) ([]string, error)
}
