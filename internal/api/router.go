// Package api exposes the HTTP surface: health probes, metrics,
// audit queries, and JSON-RPC over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/vetgate/vetgate/internal/cache"
	"github.com/vetgate/vetgate/internal/gateway"
	"github.com/vetgate/vetgate/internal/metrics"
	"github.com/vetgate/vetgate/internal/ratelimit"
	"github.com/vetgate/vetgate/internal/store"
	"github.com/vetgate/vetgate/internal/tools"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps holds the dependencies needed by the HTTP API router.
type RouterDeps struct {
	Gateway   *gateway.Server
	Registry  *tools.Registry
	Caches    *cache.Tiers
	Limiter   *ratelimit.Limiter
	Collector *metrics.Collector
	Upstream  Pinger           // optional; checked by /readyz
	Store     store.AuditStore // optional; enables /v1/audit
	DB        Pinger           // optional; checked by /readyz
	Version   string
}

// NewRouter creates an http.Handler with all API routes.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	hh := &healthHandler{deps: deps}
	mux.HandleFunc("GET /healthz", hh.healthz)
	mux.HandleFunc("GET /readyz", hh.readyz)

	mh := &metricsHandler{deps: deps}
	mux.HandleFunc("GET /metrics", mh.get)

	if deps.Store != nil {
		ah := &auditHandler{store: deps.Store}
		mux.HandleFunc("GET /v1/audit", ah.query)
	}

	rh := &rpcHandler{gateway: deps.Gateway}
	mux.HandleFunc("POST /rpc", rh.post)

	var handler http.Handler = mux
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}
