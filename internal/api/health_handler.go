package api

import (
	"net/http"
	"time"
)

var startTime = time.Now()

type healthHandler struct {
	deps RouterDeps
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int    `json:"uptime_seconds"`
}

func (h *healthHandler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       h.deps.Version,
		UptimeSeconds: int(time.Since(startTime).Seconds()),
	})
}

type readyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// readyz verifies the tool registry and pings the upstream API and the
// audit database. Any failing check yields 503.
func (h *healthHandler) readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	ready := true

	if err := h.deps.Registry.Verify(); err != nil {
		checks["registry"] = err.Error()
		ready = false
	} else {
		checks["registry"] = "ok"
	}

	if h.deps.Upstream != nil {
		if err := h.deps.Upstream.Ping(r.Context()); err != nil {
			checks["upstream"] = err.Error()
			ready = false
		} else {
			checks["upstream"] = "ok"
		}
	}

	if h.deps.DB != nil {
		if err := h.deps.DB.Ping(r.Context()); err != nil {
			checks["db"] = err.Error()
			ready = false
		} else {
			checks["db"] = "ok"
		}
	}

	status := http.StatusOK
	resp := readyResponse{Status: "ready", Checks: checks}
	if !ready {
		status = http.StatusServiceUnavailable
		resp.Status = "not ready"
	}
	writeJSON(w, status, resp)
}
