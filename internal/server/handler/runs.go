package handler

import (
	"net/http"

	"github.com/jclinedev/hiddencity/internal/arbitrage"
	"github.com/jclinedev/hiddencity/internal/domain"
)

// RunsHandler serves completed scan runs.
type RunsHandler struct {
	history *arbitrage.History
}

// NewRunsHandler creates a RunsHandler backed by the given history.
func NewRunsHandler(history *arbitrage.History) *RunsHandler {
	return &RunsHandler{history: history}
}

// ListRuns returns recent runs, newest first.
// GET /api/runs?limit=50&offset=0
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseListParams(r)

	runs := h.history.Runs(limit, offset)
	if runs == nil {
		runs = []domain.Run{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

// LatestRun returns the most recent run, or 404 when no run has completed.
// GET /api/runs/latest
func (h *RunsHandler) LatestRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.history.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no runs recorded yet")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
