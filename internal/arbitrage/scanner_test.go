package arbitrage

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/jclinedev/hiddencity/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScanner(base float64, cohorts *domain.DepartureCohorts) *Scanner {
	if cohorts == nil {
		cohorts = domain.NewDepartureCohorts()
	}
	return NewScanner("JFK", "SLC", base, cohorts, testLogger())
}

func TestScanCandidateCohortEvaluation(t *testing.T) {
	offer := domain.RawOffer{
		PriceText:     str("$40.00"),
		DepartureText: str("08:00 - 13:20"),
		LayoversText:  str("1 stop, 3h 10m in (SLC)"),
	}

	tests := []struct {
		name     string
		cohort   map[string][]float64
		wantEval float64
		wantSave float64
	}{
		{
			name:     "cohort min used",
			cohort:   map[string][]float64{"08:00": {59.0}},
			wantEval: 59.0,
			wantSave: 19.0,
		},
		{
			name:     "empty cohort falls back to base price",
			cohort:   nil,
			wantEval: 59.0,
			wantSave: 19.0,
		},
		{
			name:     "negative savings still emitted",
			cohort:   map[string][]float64{"08:00": {30.0}},
			wantEval: 30.0,
			wantSave: -10.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cohorts := domain.NewDepartureCohorts()
			for label, prices := range tt.cohort {
				for _, p := range prices {
					cohorts.Add(label, p)
				}
			}
			s := newTestScanner(59.0, cohorts)

			findings, summary := s.ScanCandidate("DEN", []domain.RawOffer{offer})
			if len(findings) != 1 {
				t.Fatalf("got %d findings, want 1", len(findings))
			}
			f := findings[0]
			if f.EvaluationPrice != tt.wantEval {
				t.Errorf("EvaluationPrice = %v, want %v", f.EvaluationPrice, tt.wantEval)
			}
			if f.Savings != tt.wantSave {
				t.Errorf("Savings = %v, want %v", f.Savings, tt.wantSave)
			}
			if f.Savings != f.EvaluationPrice-f.TicketPrice {
				t.Errorf("savings invariant violated: %v != %v - %v", f.Savings, f.EvaluationPrice, f.TicketPrice)
			}
			if f.Origin != "JFK" || f.Destination != "SLC" || f.CandidateDestination != "DEN" {
				t.Errorf("airport fields = %s/%s/%s", f.Origin, f.Destination, f.CandidateDestination)
			}
			if summary.Findings != 1 || summary.LowestStopFare != 40.0 || summary.NoOffers {
				t.Errorf("summary = %+v", summary)
			}
		})
	}
}

func TestScanCandidateNoFinding(t *testing.T) {
	tests := []struct {
		name       string
		offer      domain.RawOffer
		wantNoOff  bool
		wantLowest float64
	}{
		{
			name: "price at or above base",
			offer: domain.RawOffer{
				PriceText:     str("$80.00"),
				DepartureText: str("08:00 - 13:20"),
				LayoversText:  str("1 stop in (SLC)"),
			},
			wantLowest: 80.0,
		},
		{
			name: "destination not among stops",
			offer: domain.RawOffer{
				PriceText:     str("$40.00"),
				DepartureText: str("08:00 - 13:20"),
				LayoversText:  str("1 stop in (ORD)"),
			},
			wantLowest: 40.0,
		},
		{
			name: "nonstop offer",
			offer: domain.RawOffer{
				PriceText:     str("$40.00"),
				DepartureText: str("08:00 - 09:50"),
				LayoversText:  str("Nonstop"),
			},
			wantLowest: 40.0,
		},
		{
			name:      "unusable stops skips record entirely",
			offer:     domain.RawOffer{PriceText: str("$40.00"), DepartureText: str("08:00 - 13:20")},
			wantNoOff: true,
		},
		{
			name:      "unusable price skips record entirely",
			offer:     domain.RawOffer{DepartureText: str("08:00 - 13:20"), LayoversText: str("1 stop in (SLC)")},
			wantNoOff: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScanner(59.0, nil)
			findings, summary := s.ScanCandidate("DEN", []domain.RawOffer{tt.offer})
			if len(findings) != 0 {
				t.Fatalf("got %d findings, want 0", len(findings))
			}
			if summary.NoOffers != tt.wantNoOff {
				t.Errorf("NoOffers = %v, want %v", summary.NoOffers, tt.wantNoOff)
			}
			if !tt.wantNoOff && summary.LowestStopFare != tt.wantLowest {
				t.Errorf("LowestStopFare = %v, want %v", summary.LowestStopFare, tt.wantLowest)
			}
		})
	}
}

// An offer matching the predicate but missing its departure label yields no
// finding, yet its fare still counts toward the lowest-stop-fare summary.
func TestScanCandidateMissingLabelStillTracksFare(t *testing.T) {
	s := newTestScanner(59.0, nil)
	offers := []domain.RawOffer{
		{PriceText: str("$35.00"), LayoversText: str("1 stop in (SLC)")},
		{PriceText: str("$41.00"), DepartureText: str("10:00 - 15:20"), LayoversText: str("1 stop in (SLC)")},
	}
	findings, summary := s.ScanCandidate("DEN", offers)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].TicketPrice != 41.0 {
		t.Errorf("TicketPrice = %v, want 41.0", findings[0].TicketPrice)
	}
	if summary.NoOffers {
		t.Error("record without label is not unusable for the summary")
	}
	if summary.LowestStopFare != 35.0 {
		t.Errorf("LowestStopFare = %v, want 35.0", summary.LowestStopFare)
	}
}

func TestScanCandidateMultipleFindingsInRecordOrder(t *testing.T) {
	s := newTestScanner(100.0, nil)
	offers := []domain.RawOffer{
		{PriceText: str("$70.00"), DepartureText: str("06:00 - 11:00"), LayoversText: str("(SLC)")},
		{PriceText: str("$90.00"), DepartureText: str("07:00 - 12:00"), LayoversText: str("(ORD)")},
		{PriceText: str("$70.00"), DepartureText: str("08:00 - 13:00"), LayoversText: str("(SLC)")},
		{PriceText: str("$60.00"), DepartureText: str("09:00 - 14:00"), LayoversText: str("(ABQ) (SLC)")},
	}
	findings, summary := s.ScanCandidate("DEN", offers)

	var prices []float64
	for _, f := range findings {
		prices = append(prices, f.TicketPrice)
	}
	if want := []float64{70.0, 70.0, 60.0}; !reflect.DeepEqual(prices, want) {
		t.Fatalf("ticket prices = %v, want %v", prices, want)
	}
	if summary.LowestStopFare != 60.0 {
		t.Errorf("LowestStopFare = %v, want 60.0", summary.LowestStopFare)
	}
}

// With the NoBaseline sentinel no fare satisfies the predicate; the summary
// still reports the cheapest usable fare.
func TestScanCandidateNoBaseline(t *testing.T) {
	s := newTestScanner(NoBaseline, nil)
	offers := []domain.RawOffer{
		{PriceText: str("$40.00"), DepartureText: str("08:00 - 13:20"), LayoversText: str("(SLC)")},
	}
	findings, summary := s.ScanCandidate("DEN", offers)
	if len(findings) != 0 {
		t.Fatalf("got %d findings, want 0", len(findings))
	}
	if summary.NoOffers || summary.LowestStopFare != 40.0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestScanCandidateIdempotent(t *testing.T) {
	cohorts := domain.NewDepartureCohorts()
	cohorts.Add("08:00", 59.0)
	s := newTestScanner(59.0, cohorts)
	offers := []domain.RawOffer{
		{PriceText: str("$40.00"), DepartureText: str("08:00 - 13:20"), LayoversText: str("(SLC)")},
		{PriceText: str("$45.00"), DepartureText: str("08:00 - 14:00"), LayoversText: str("(SLC)")},
	}

	first, firstSummary := s.ScanCandidate("DEN", offers)
	second, secondSummary := s.ScanCandidate("DEN", offers)

	if len(first) != len(second) {
		t.Fatalf("finding counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].TicketPrice != second[i].TicketPrice ||
			first[i].EvaluationPrice != second[i].EvaluationPrice ||
			first[i].Savings != second[i].Savings {
			t.Errorf("finding %d differs between passes", i)
		}
	}
	if firstSummary.LowestStopFare != secondSummary.LowestStopFare ||
		firstSummary.NoOffers != secondSummary.NoOffers {
		t.Error("summaries differ between passes")
	}
}

func TestScanCandidateEmptyBatch(t *testing.T) {
	s := newTestScanner(59.0, nil)
	findings, summary := s.ScanCandidate("DEN", nil)
	if len(findings) != 0 {
		t.Fatalf("got %d findings, want 0", len(findings))
	}
	if !summary.NoOffers {
		t.Error("empty batch must report NoOffers")
	}
}
