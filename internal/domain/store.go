package domain

import "context"

// Airport is one entry in the candidate reference list.
type Airport struct {
	Code string
	Name string
	// Rank orders the list, busiest first, matching the order candidates are
	// scanned in.
	Rank int
}

// AirportStore persists the airport reference list used by the candidate
// lister.
type AirportStore interface {
	// ListCodes returns airport codes ordered by rank.
	ListCodes(ctx context.Context) ([]string, error)
	// UpsertAirports inserts or updates reference entries.
	UpsertAirports(ctx context.Context, airports []Airport) error
}
