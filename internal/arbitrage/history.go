package arbitrage

import (
	"sync"

	"github.com/jclinedev/hiddencity/internal/domain"
)

// defaultHistoryCap bounds how many runs are retained in memory.
const defaultHistoryCap = 50

// History is an in-memory record of completed runs and the findings they
// produced. It backs the status API in serve mode; nothing is persisted, a
// restart starts empty. Safe for concurrent use.
type History struct {
	mu   sync.RWMutex
	runs []domain.Run
	cap  int
}

// NewHistory creates a History retaining at most capacity runs. A capacity
// of zero or less falls back to the default.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &History{cap: capacity}
}

// Record appends a completed run, evicting the oldest once the capacity is
// reached.
func (h *History) Record(run domain.Run) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.runs = append(h.runs, run)
	if len(h.runs) > h.cap {
		h.runs = h.runs[len(h.runs)-h.cap:]
	}
}

// Runs returns up to limit runs starting at offset, newest first.
func (h *History) Runs(limit, offset int) []domain.Run {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.runs)
	out := make([]domain.Run, 0, limit)
	for i := n - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.runs[i])
	}
	return out
}

// Latest returns the most recently recorded run.
func (h *History) Latest() (domain.Run, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.runs) == 0 {
		return domain.Run{}, false
	}
	return h.runs[len(h.runs)-1], true
}

// Findings returns up to limit findings starting at offset, newest run
// first. Findings within a run keep their scan order.
func (h *History) Findings(limit, offset int) []domain.Finding {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]domain.Finding, 0, limit)
	skipped := 0
	for i := len(h.runs) - 1; i >= 0 && len(out) < limit; i-- {
		for _, f := range h.runs[i].Findings {
			if skipped < offset {
				skipped++
				continue
			}
			if len(out) == limit {
				break
			}
			out = append(out, f)
		}
	}
	return out
}
