package arbitrage

import (
	"testing"

	"github.com/jclinedev/hiddencity/internal/domain"
)

func str(s string) *string { return &s }

func TestResolveBaselineEmptyBatch(t *testing.T) {
	base, cohorts := ResolveBaseline(nil)
	if base != NoBaseline {
		t.Fatalf("base = %v, want %v", base, NoBaseline)
	}
	if cohorts.Len() != 0 {
		t.Fatalf("cohorts.Len() = %d, want 0", cohorts.Len())
	}
}

func TestResolveBaselineAllUnusable(t *testing.T) {
	offers := []domain.RawOffer{
		{},
		{PriceText: str("$120.00")},                   // no departure label
		{DepartureText: str("09:15 - 11:40")},         // no price
		{DepartureText: str("  - 11:40"), PriceText: str("$99.00")}, // empty label
	}
	base, cohorts := ResolveBaseline(offers)
	if base != NoBaseline {
		t.Fatalf("base = %v, want %v", base, NoBaseline)
	}
	if cohorts.Len() != 0 {
		t.Fatalf("cohorts.Len() = %d, want 0", cohorts.Len())
	}
}

func TestResolveBaselineSingleOffer(t *testing.T) {
	offers := []domain.RawOffer{
		{
			PriceText:     str("$59.00"),
			DepartureText: str("08:00 - 10:30"),
			LayoversText:  str("Nonstop"),
		},
	}
	base, cohorts := ResolveBaseline(offers)
	if base != 59.0 {
		t.Fatalf("base = %v, want 59.0", base)
	}
	min, ok := cohorts.Min("08:00")
	if !ok || min != 59.0 {
		t.Fatalf("cohort min for 08:00 = %v, %v; want 59.0, true", min, ok)
	}
	if cohorts.Len() != 1 {
		t.Fatalf("cohorts.Len() = %d, want 1", cohorts.Len())
	}
}

func TestResolveBaselineSkipsLabelWithoutPrice(t *testing.T) {
	offers := []domain.RawOffer{
		{DepartureText: str("06:00 - 08:10")}, // label but no price: skipped
		{
			PriceText:     str("$74.50"),
			DepartureText: str("07:30 - 09:45"),
		},
	}
	base, cohorts := ResolveBaseline(offers)
	if base != 74.5 {
		t.Fatalf("base = %v, want 74.5", base)
	}
	if _, ok := cohorts.Min("06:00"); ok {
		t.Fatal("cohort for skipped record should be empty")
	}
	if min, ok := cohorts.Min("07:30"); !ok || min != 74.5 {
		t.Fatalf("cohort min for 07:30 = %v, %v; want 74.5, true", min, ok)
	}
}

// Resolution stops at the first usable record; later (even cheaper) direct
// offers never reach the tracker.
func TestResolveBaselineOneShot(t *testing.T) {
	offers := []domain.RawOffer{
		{PriceText: str("$100.00"), DepartureText: str("08:00 - 10:30")},
		{PriceText: str("$50.00"), DepartureText: str("12:00 - 14:30")},
	}
	base, cohorts := ResolveBaseline(offers)
	if base != 100.0 {
		t.Fatalf("base = %v, want 100.0", base)
	}
	if cohorts.Len() != 1 {
		t.Fatalf("cohorts.Len() = %d, want 1", cohorts.Len())
	}
	if _, ok := cohorts.Min("12:00"); ok {
		t.Fatal("second record must not be examined")
	}
}
