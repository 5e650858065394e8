package domain

import "time"

// Finding is one hidden-city arbitrage opportunity: a stop-bearing itinerary
// to CandidateDestination that passes through the traveler's real destination
// as a layover and undercuts the comparison price for the direct route.
type Finding struct {
	ID string `json:"id"`

	// Origin and Destination are the run's configured route; Destination is
	// where the traveler actually disembarks.
	Origin      string `json:"origin"`
	Destination string `json:"destination"`

	// CandidateDestination is the ticketed outer endpoint of the itinerary.
	CandidateDestination string `json:"candidate_destination"`

	// BasePrice is the resolved direct-route baseline fare.
	BasePrice float64 `json:"base_price"`

	// TicketPrice is the stop-bearing itinerary's fare.
	TicketPrice float64 `json:"ticket_price"`

	// EvaluationPrice is the comparison basis actually used: the minimum of
	// the matching departure cohort, or BasePrice when the cohort is empty.
	EvaluationPrice float64 `json:"evaluation_price"`

	// Savings is EvaluationPrice - TicketPrice. It can be negative; findings
	// are never filtered on sign.
	Savings float64 `json:"savings"`

	DetectedAt time.Time `json:"detected_at"`
}
