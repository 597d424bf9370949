package api

import "net/http"

type metricsHandler struct {
	deps RouterDeps
}

func (h *metricsHandler) get(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"tools": h.deps.Collector.Snapshot(),
	}
	if h.deps.Caches != nil {
		body["cache"] = h.deps.Caches.Stats()
	}
	if h.deps.Limiter != nil {
		body["rate_limit"] = h.deps.Limiter.Stats()
	}
	writeJSON(w, http.StatusOK, body)
}
