package domain

// DepartureCohorts tracks the distinct direct-route fares observed per
// departure-time label. It is the only cross-call state in the engine: created
// empty, seeded during baseline resolution, then consulted read-only by every
// candidate scan in the run.
//
// DepartureCohorts is not safe for concurrent mutation. Sequential scanning
// only reads it, so a caller parallelizing candidate scans must keep it
// read-only during the parallel phase.
type DepartureCohorts struct {
	buckets map[string]map[float64]struct{}
}

// NewDepartureCohorts returns an empty tracker.
func NewDepartureCohorts() *DepartureCohorts {
	return &DepartureCohorts{buckets: make(map[string]map[float64]struct{})}
}

// Add records price under label. Re-adding an existing price is a no-op.
func (c *DepartureCohorts) Add(label string, price float64) {
	set, ok := c.buckets[label]
	if !ok {
		set = make(map[float64]struct{})
		c.buckets[label] = set
	}
	set[price] = struct{}{}
}

// Min returns the lowest price recorded under label. It reports false when
// the cohort is empty or absent.
func (c *DepartureCohorts) Min(label string) (float64, bool) {
	set, ok := c.buckets[label]
	if !ok || len(set) == 0 {
		return 0, false
	}
	first := true
	var min float64
	for p := range set {
		if first || p < min {
			min = p
			first = false
		}
	}
	return min, true
}

// Len returns the number of labels with at least one recorded price.
func (c *DepartureCohorts) Len() int {
	return len(c.buckets)
}
