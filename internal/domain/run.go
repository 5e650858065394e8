package domain

import "time"

// Run captures the outcome of one end-to-end arbitrage search. The server
// keeps the most recent runs in memory for the status API and websocket feed;
// runs are never persisted.
type Run struct {
	ID          string             `json:"id"`
	Origin      string             `json:"origin"`
	Destination string             `json:"destination"`
	Date        string             `json:"date"`
	BasePrice   float64            `json:"base_price"`
	Findings    []Finding          `json:"findings"`
	Summaries   []CandidateSummary `json:"summaries"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	Error       string             `json:"error,omitempty"`
}
