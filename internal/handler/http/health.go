// Package http provides the middleware, health endpoints and metrics shared by
// the resource handlers of the audition API.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "degraded"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// BreakerState reports the state of the upstream circuit breaker.
type BreakerState interface {
	Name() string
	State() gobreaker.State
}

// HealthHandler reports service health without calling the upstream.
type HealthHandler struct {
	Version     string
	UpstreamURL string
	// Breaker is nil when the circuit breaker is disabled.
	Breaker BreakerState
}

// ServeHTTP always answers 200 while the process can serve. An open breaker
// marks the service as degraded but not unhealthy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := map[string]CheckStatus{
		"upstream": {
			Status:  "healthy",
			Details: map[string]any{"base_url": h.UpstreamURL},
		},
	}

	status := "healthy"
	if h.Breaker != nil {
		check := h.checkBreaker()
		checks["circuit_breaker"] = check
		if check.Status != "healthy" {
			status = "degraded"
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

func (h *HealthHandler) checkBreaker() CheckStatus {
	state := h.Breaker.State()
	details := map[string]any{"name": h.Breaker.Name(), "state": state.String()}

	switch state {
	case gobreaker.StateOpen:
		return CheckStatus{Status: "degraded", Message: "upstream calls are short-circuited", Details: details}
	case gobreaker.StateHalfOpen:
		return CheckStatus{Status: "degraded", Message: "probing upstream", Details: details}
	default:
		return CheckStatus{Status: "healthy", Details: details}
	}
}

// LiveHandler handles liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK while the process is able to respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Default().Error("alive: failed to write response", slog.Any("error", err))
	}
}
