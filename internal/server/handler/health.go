package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger checks the liveness of a backing service.
type Pinger func(ctx context.Context) error

// HealthHandler serves the health-check endpoint. Each registered pinger is
// probed on every request and reported individually.
type HealthHandler struct {
	pingers map[string]Pinger
	logger  *slog.Logger
}

// NewHealthHandler creates a HealthHandler. The pingers map may be nil or
// empty, in which case only server liveness is reported.
func NewHealthHandler(pingers map[string]Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{pingers: pingers, logger: logger}
}

// HealthCheck reports server liveness plus the state of each backing service.
// Responds 503 if any pinger fails.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	services := make(map[string]string, len(h.pingers))
	for name, ping := range h.pingers {
		if err := ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "health probe failed",
				slog.String("service", name),
				slog.String("error", err.Error()),
			)
			services[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		services[name] = "up"
	}

	body := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if len(services) > 0 {
		body["services"] = services
	}

	writeJSON(w, status, body)
}
