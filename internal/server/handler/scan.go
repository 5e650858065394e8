package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// ScanHandler triggers an on-demand scan. Only one triggered scan may run at
// a time; concurrent triggers are rejected with 409.
type ScanHandler struct {
	trigger func(ctx context.Context) error
	busy    atomic.Bool
	logger  *slog.Logger
}

// NewScanHandler creates a ScanHandler. The trigger function runs a full
// scan against the configured route.
func NewScanHandler(trigger func(ctx context.Context) error, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{trigger: trigger, logger: logger}
}

// TriggerScan starts a scan in the background and responds 202 immediately.
// POST /api/scan
func (h *ScanHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	if !h.busy.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "a scan is already running")
		return
	}

	// Detach from the request context so the scan outlives the HTTP call.
	go func() {
		defer h.busy.Store(false)
		if err := h.trigger(context.Background()); err != nil {
			h.logger.Error("triggered scan failed",
				slog.String("error", err.Error()),
			)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scan started"})
}
