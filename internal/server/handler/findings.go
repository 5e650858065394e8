package handler

import (
	"net/http"

	"github.com/jclinedev/hiddencity/internal/arbitrage"
	"github.com/jclinedev/hiddencity/internal/domain"
)

// FindingsHandler serves hidden-city findings from recent runs.
type FindingsHandler struct {
	history *arbitrage.History
}

// NewFindingsHandler creates a FindingsHandler backed by the given history.
func NewFindingsHandler(history *arbitrage.History) *FindingsHandler {
	return &FindingsHandler{history: history}
}

// ListFindings returns findings from recent runs, newest run first.
// GET /api/findings?limit=50&offset=0
func (h *FindingsHandler) ListFindings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseListParams(r)

	findings := h.history.Findings(limit, offset)
	if findings == nil {
		findings = []domain.Finding{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"findings": findings,
		"count":    len(findings),
	})
}
