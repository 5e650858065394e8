package arbitrage

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jclinedev/hiddencity/internal/domain"
)

// Scanner evaluates candidate routes against a resolved baseline. It holds
// the run's origin, true destination, base price, and the shared cohort
// tracker; the tracker is only ever read here, never mutated.
type Scanner struct {
	origin      string
	destination string
	basePrice   float64
	cohorts     *domain.DepartureCohorts
	logger      *slog.Logger
}

// NewScanner creates a scanner for one run.
func NewScanner(origin, destination string, basePrice float64, cohorts *domain.DepartureCohorts, logger *slog.Logger) *Scanner {
	return &Scanner{
		origin:      origin,
		destination: destination,
		basePrice:   basePrice,
		cohorts:     cohorts,
		logger:      logger.With(slog.String("component", "scanner")),
	}
}

// ScanCandidate walks the offer batch for one candidate destination in order
// and emits a finding for every offer that beats the base price and routes
// through the true destination as a layover. Offers whose stops or price
// cannot be extracted are skipped and count toward the batch's unusable
// total. An offer that matches the predicate but has no departure label
// produces no finding, yet its fare still feeds the lowest-stop-fare summary.
//
// Evaluation price per finding: the minimum of the cohort matching the
// offer's departure label, or the base price when that cohort is empty.
// Findings are not deduplicated and negative savings are not filtered.
func (s *Scanner) ScanCandidate(candidate string, offers []domain.RawOffer) ([]domain.Finding, domain.CandidateSummary) {
	summary := domain.CandidateSummary{Candidate: candidate}

	var findings []domain.Finding
	var lowest float64
	haveLowest := false

	for _, offer := range offers {
		stops, ok := offer.Stops()
		if !ok {
			continue
		}
		price, ok := offer.Price()
		if !ok {
			continue
		}

		if price < s.basePrice && slices.Contains(stops, s.destination) {
			if label, ok := offer.DepartureLabel(); ok {
				eval := s.basePrice
				if min, ok := s.cohorts.Min(label); ok {
					eval = min
				}
				finding := domain.Finding{
					ID:                   uuid.NewString(),
					Origin:               s.origin,
					Destination:          s.destination,
					CandidateDestination: candidate,
					BasePrice:            s.basePrice,
					TicketPrice:          price,
					EvaluationPrice:      eval,
					Savings:              eval - price,
					DetectedAt:           time.Now().UTC(),
				}
				findings = append(findings, finding)
				s.logger.Debug("arbitrage found",
					slog.String("candidate", candidate),
					slog.Float64("ticket_price", price),
					slog.Float64("evaluation_price", eval),
					slog.Float64("savings", finding.Savings),
				)
			}
		}

		if !haveLowest || price < lowest {
			lowest = price
			haveLowest = true
		}
	}

	summary.Findings = len(findings)
	if haveLowest {
		summary.LowestStopFare = lowest
	} else {
		summary.NoOffers = true
	}
	return findings, summary
}
