package rest

import (
	"context"
	"net/http"
	"time"
)

// upstreamPinger checks that the dictionary API answers.
type upstreamPinger interface {
	Ping(ctx context.Context) error
}

// sessionCounter reports session registry occupancy.
type sessionCounter interface {
	Len() int
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	upstream    upstreamPinger
	sessions    sessionCounter
	maxSessions int
	version     string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(upstream upstreamPinger, sessions sessionCounter, maxSessions int, version string) *HealthHandler {
	return &HealthHandler{upstream: upstream, sessions: sessions, maxSessions: maxSessions, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 503 once the registry cannot take another
// session. The upstream API is not consulted.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.hasCapacity() {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check. It pings the dictionary API with latency
// measurement and reports session occupancy and the version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)
	overallStatus := "ok"

	start := time.Now()
	err := h.upstream.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		components["dictionary_api"] = CompStatus{Status: "down", Detail: err.Error()}
		overallStatus = "down"
	} else {
		components["dictionary_api"] = CompStatus{
			Status:  "ok",
			Latency: latency.String(),
		}
	}

	sessions := CompStatus{Status: "ok", Detail: occupancy(h.sessions.Len(), h.maxSessions)}
	if !h.hasCapacity() {
		sessions.Status = "full"
		overallStatus = "down"
	}
	components["sessions"] = sessions

	status := http.StatusOK
	if overallStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) hasCapacity() bool {
	return h.sessions.Len() < h.maxSessions
}
