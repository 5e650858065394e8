package arbitrage

import (
	"context"
	"errors"
	"testing"

	"github.com/jclinedev/hiddencity/internal/domain"
)

type fakeSource struct {
	batches map[string][]domain.RawOffer // keyed by destination code
	errs    map[string]error
	fetched []string
}

func (f *fakeSource) FetchOffers(_ context.Context, q domain.RouteQuery) ([]domain.RawOffer, error) {
	f.fetched = append(f.fetched, q.Destination)
	if err := f.errs[q.Destination]; err != nil {
		return nil, err
	}
	return f.batches[q.Destination], nil
}

type fakeLister struct {
	codes []string
	err   error
}

func (f *fakeLister) ListAirports(context.Context) ([]string, error) {
	return f.codes, f.err
}

func directBatch(price, label string) []domain.RawOffer {
	return []domain.RawOffer{
		{PriceText: str(price), DepartureText: str(label), LayoversText: str("Nonstop")},
	}
}

func layoverOffer(price string, stop string) domain.RawOffer {
	return domain.RawOffer{
		PriceText:     str(price),
		DepartureText: str("08:00 - 13:20"),
		LayoversText:  str("1 stop in (" + stop + ")"),
	}
}

func newTestEngine(source domain.ItinerarySource, lister domain.AirportLister, onFinding func(domain.Finding)) *Engine {
	return NewEngine(EngineConfig{
		Origin:      "JFK",
		Destination: "SLC",
		Date:        "07/10/2021",
		Source:      source,
		Airports:    lister,
		OnFinding:   onFinding,
		Logger:      testLogger(),
	})
}

func TestEngineRunAggregatesInScanOrder(t *testing.T) {
	source := &fakeSource{
		batches: map[string][]domain.RawOffer{
			"SLC": directBatch("$59.00", "08:00 - 10:30"),
			"DEN": {layoverOffer("$40.00", "SLC")},
			"LAX": {layoverOffer("$90.00", "SLC")}, // above base, no finding
			"SEA": {layoverOffer("$45.00", "SLC")},
		},
	}
	lister := &fakeLister{codes: []string{"DEN", "JFK", "LAX", "SEA"}}

	var notified []string
	engine := newTestEngine(source, lister, func(f domain.Finding) {
		notified = append(notified, f.CandidateDestination)
	})

	run, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.BasePrice != 59.0 {
		t.Errorf("BasePrice = %v, want 59.0", run.BasePrice)
	}
	if len(run.Findings) != 2 {
		t.Fatalf("got %d findings, want 2", len(run.Findings))
	}
	if run.Findings[0].CandidateDestination != "DEN" || run.Findings[1].CandidateDestination != "SEA" {
		t.Errorf("finding order = %s, %s", run.Findings[0].CandidateDestination, run.Findings[1].CandidateDestination)
	}
	if len(run.Summaries) != 3 {
		t.Errorf("got %d summaries, want 3", len(run.Summaries))
	}
	if len(notified) != 2 || notified[0] != "DEN" || notified[1] != "SEA" {
		t.Errorf("notified = %v", notified)
	}

	// Origin must never be fetched as a candidate.
	for _, dest := range source.fetched[1:] {
		if dest == "JFK" {
			t.Error("origin was fetched as a candidate")
		}
	}
}

func TestEngineRunPartialResultsOnTransportFailure(t *testing.T) {
	source := &fakeSource{
		batches: map[string][]domain.RawOffer{
			"SLC": directBatch("$59.00", "08:00 - 10:30"),
			"DEN": {layoverOffer("$40.00", "SLC")},
		},
		errs: map[string]error{"LAX": errors.New("session dropped")},
	}
	lister := &fakeLister{codes: []string{"DEN", "LAX", "SEA"}}
	engine := newTestEngine(source, lister, nil)

	run, err := engine.Run(context.Background())
	if err == nil {
		t.Fatal("want error from transport failure")
	}
	if len(run.Findings) != 1 {
		t.Fatalf("got %d findings, want 1 preserved", len(run.Findings))
	}
	if run.Error == "" {
		t.Error("run.Error not recorded")
	}
	for _, dest := range source.fetched {
		if dest == "SEA" {
			t.Error("scan continued past transport failure")
		}
	}
}

func TestEngineRunToleratesEmptyBatches(t *testing.T) {
	source := &fakeSource{
		batches: map[string][]domain.RawOffer{
			"SLC": directBatch("$59.00", "08:00 - 10:30"),
			"DEN": nil,
		},
	}
	lister := &fakeLister{codes: []string{"DEN"}}
	engine := newTestEngine(source, lister, nil)

	run, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(run.Findings) != 0 {
		t.Errorf("got %d findings, want 0", len(run.Findings))
	}
	if len(run.Summaries) != 1 || !run.Summaries[0].NoOffers {
		t.Errorf("summaries = %+v", run.Summaries)
	}
}

func TestEngineRunNoBaseline(t *testing.T) {
	source := &fakeSource{
		batches: map[string][]domain.RawOffer{
			"SLC": nil, // direct route empty: sentinel baseline
			"DEN": {layoverOffer("$40.00", "SLC")},
		},
	}
	lister := &fakeLister{codes: []string{"DEN"}}
	engine := newTestEngine(source, lister, nil)

	run, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.BasePrice != NoBaseline {
		t.Errorf("BasePrice = %v, want %v", run.BasePrice, NoBaseline)
	}
	if len(run.Findings) != 0 {
		t.Errorf("got %d findings, want 0", len(run.Findings))
	}
}

func TestEngineRunDirectFetchFailure(t *testing.T) {
	source := &fakeSource{errs: map[string]error{"SLC": errors.New("unreachable")}}
	lister := &fakeLister{codes: []string{"DEN"}}
	engine := newTestEngine(source, lister, nil)

	run, err := engine.Run(context.Background())
	if err == nil {
		t.Fatal("want error")
	}
	if len(run.Findings) != 0 || len(run.Summaries) != 0 {
		t.Errorf("run = %+v", run)
	}
}

func TestEngineRunListerFailure(t *testing.T) {
	source := &fakeSource{
		batches: map[string][]domain.RawOffer{"SLC": directBatch("$59.00", "08:00 - 10:30")},
	}
	lister := &fakeLister{err: errors.New("store down")}
	engine := newTestEngine(source, lister, nil)

	if _, err := engine.Run(context.Background()); err == nil {
		t.Fatal("want error")
	}
}
