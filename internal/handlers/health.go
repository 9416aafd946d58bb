package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	logger *slog.Logger
	redis  Pinger
}

// NewHealthHandler creates a new health handler. redis may be nil.
func NewHealthHandler(logger *slog.Logger, redis Pinger) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		redis:  redis,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}
	status := http.StatusOK

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		response.Checks = map[string]string{"redis": "ok"}
		if err := h.redis.Ping(ctx); err != nil {
			h.logger.Warn("redis health check failed", "error", err)
			response.Status = "degraded"
			response.Checks["redis"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	WriteJSON(w, status, response, h.logger)
}
