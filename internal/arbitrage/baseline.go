// Package arbitrage implements the hidden-city detection engine: baseline
// resolution for the direct route, per-candidate scanning, and the run loop
// that aggregates findings across candidate destinations.
package arbitrage

import "github.com/jclinedev/hiddencity/internal/domain"

// NoBaseline is the sentinel base price meaning no usable direct-route offer
// was found. No real fare is ever below it, so the scanner predicate is
// vacuously false without special-casing.
const NoBaseline = -1.0

// ResolveBaseline scans a direct-route offer batch in order and returns the
// baseline fare together with the departure cohort tracker for the run.
//
// Resolution is one-shot: the first offer that normalizes to a usable record
// seeds the tracker with that single (label, price) pair and ends the scan;
// later records in the batch are never examined. Offers missing either the
// price or the departure label are skipped and scanning continues. If the
// batch is empty or exhausted without a usable record, the base price is
// NoBaseline and the tracker stays empty.
func ResolveBaseline(offers []domain.RawOffer) (float64, *domain.DepartureCohorts) {
	cohorts := domain.NewDepartureCohorts()

	for _, offer := range offers {
		rec, ok := offer.Record()
		if !ok {
			continue
		}
		cohorts.Add(rec.DepartureLabel, rec.Price)
		return rec.Price, cohorts
	}

	return NoBaseline, cohorts
}
