package domain

// RouteQuery identifies one one-way offer search: origin and destination
// airport codes plus the travel date in the source's own date format.
type RouteQuery struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

// CandidateSummary is the post-scan summary for one candidate destination. It
// is reporting data only and never part of the findings list.
type CandidateSummary struct {
	Candidate string `json:"candidate"`

	// LowestStopFare is the cheapest fare seen among offers whose stops and
	// price were both extractable, whether or not they produced a finding.
	LowestStopFare float64 `json:"lowest_stop_fare"`

	// Findings is how many findings this candidate produced.
	Findings int `json:"findings"`

	// NoOffers is true when the batch was empty or every offer in it was
	// unusable at the stops/price extraction stage.
	NoOffers bool `json:"no_offers"`
}
