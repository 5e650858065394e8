// Package domain holds the pure data model for the hidden-city fare engine:
// raw scraped offers, normalized offer records, departure price cohorts, and
// arbitrage findings, plus the store/cache/source interfaces implemented by
// the infrastructure packages.
package domain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// RawOffer is one offer listing exactly as the itinerary source saw it. Every
// field is optional because listings render asynchronously and individual
// nodes are routinely absent; a nil pointer means the node was missing.
// Extraction never fails with an error; an absent field simply makes the
// dependent value unavailable and the caller skips the record.
type RawOffer struct {
	PriceText     *string `json:"price_text,omitempty"`
	DepartureText *string `json:"departure_text,omitempty"`
	LayoversText  *string `json:"layovers_text,omitempty"`
}

// OfferRecord is the normalized form of a usable offer.
type OfferRecord struct {
	Price          float64
	DepartureLabel string
	Stops          []string
}

// stopCodeRe matches parenthesized airport codes in a layovers description,
// e.g. "1 stop, 2h 5m in (ORD)".
var stopCodeRe = regexp.MustCompile(`\(([^)]*)\)`)

// Price extracts the fare amount from the offer's price text. Prices are
// parsed as decimal currency with two-decimal precision, so "$1,234.56"
// yields 1234.56. It reports false when the price node is absent or the text
// does not contain a parseable non-negative amount.
func (r RawOffer) Price() (float64, bool) {
	if r.PriceText == nil {
		return 0, false
	}
	return parsePrice(*r.PriceText)
}

// DepartureLabel extracts the departure-time cohort key: the text before the
// range separator in a "08:00 - 10:30" style string, trimmed. It is a grouping
// key only, never a timestamp. Reports false when the node is absent or the
// key comes up empty.
func (r RawOffer) DepartureLabel() (string, bool) {
	if r.DepartureText == nil {
		return "", false
	}
	label, _, _ := strings.Cut(*r.DepartureText, "-")
	label = strings.TrimSpace(label)
	if label == "" {
		return "", false
	}
	return label, true
}

// Stops extracts the ordered layover airport codes from the offer's layovers
// text. A present node with no parenthesized codes is a nonstop offer and
// yields an empty slice with ok=true; only an absent node reports false.
func (r RawOffer) Stops() ([]string, bool) {
	if r.LayoversText == nil {
		return nil, false
	}
	matches := stopCodeRe.FindAllStringSubmatch(*r.LayoversText, -1)
	stops := make([]string, 0, len(matches))
	for _, m := range matches {
		if code := strings.TrimSpace(m[1]); code != "" {
			stops = append(stops, code)
		}
	}
	return stops, true
}

// Record normalizes the raw offer. It reports false when the record is
// unusable, i.e. either the price or the departure label could not be
// extracted. Missing layover data alone does not make a record unusable here;
// the scanner applies its own stop-extraction policy.
func (r RawOffer) Record() (OfferRecord, bool) {
	price, ok := r.Price()
	if !ok {
		return OfferRecord{}, false
	}
	label, ok := r.DepartureLabel()
	if !ok {
		return OfferRecord{}, false
	}
	stops, _ := r.Stops()
	return OfferRecord{Price: price, DepartureLabel: label, Stops: stops}, true
}

// parsePrice strips a leading currency marker and thousands separators, then
// parses the remainder as a decimal amount.
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || price < 0 {
		return 0, false
	}
	return price, true
}
