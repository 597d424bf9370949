package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vetgate/vetgate/internal/cache"
	"github.com/vetgate/vetgate/internal/gateway"
	"github.com/vetgate/vetgate/internal/metrics"
	"github.com/vetgate/vetgate/internal/ratelimit"
	"github.com/vetgate/vetgate/internal/store"
	"github.com/vetgate/vetgate/internal/tools"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeStore struct {
	records []store.InvocationRecord
}

func (s *fakeStore) InsertInvocation(_ context.Context, r *store.InvocationRecord) error {
	s.records = append(s.records, *r)
	return nil
}

func (s *fakeStore) QueryInvocations(
	_ context.Context, f store.InvocationFilter,
) ([]store.InvocationRecord, int, error) {
	var out []store.InvocationRecord
	for _, r := range s.records {
		if f.Tool != "" && r.Tool != f.Tool {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func newTestRouter(t *testing.T, upstreamErr error) (http.Handler, *fakeStore) {
	t.Helper()

	reg := tools.NewRegistry()
	def := tools.Definition{
		Name:        "echo",
		Description: "echoes args",
		InputSchema: json.RawMessage(`{"type":"object"}`),
	}
	err := reg.Register(def, func(_ context.Context, args map[string]any) (*tools.Result, error) {
		return &tools.Result{Success: true, Data: args}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	limiter := ratelimit.New(ratelimit.Config{Limit: 100, Window: time.Minute})
	collector := metrics.New(true)
	gw := gateway.NewServer(reg, limiter, collector, nil, "vetgate", "test")
	gw.Bootstrap("http")

	st := &fakeStore{}
	router := NewRouter(RouterDeps{
		Gateway:   gw,
		Registry:  reg,
		Caches:    cache.NewTiers(cache.TiersConfig{}),
		Limiter:   limiter,
		Collector: collector,
		Upstream:  fakePinger{err: upstreamErr},
		Store:     st,
		Version:   "test",
	})
	return router, st
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Version != "test" {
		t.Fatalf("body = %+v", body)
	}
}

func TestReadyz(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d, body %s", rec.Code, rec.Body.String())
	}

	router, _ = newTestRouter(t, errors.New("connection refused"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when upstream is down, got %d", rec.Code)
	}
	var body readyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body.Checks["upstream"], "connection refused") {
		t.Fatalf("checks = %v", body.Checks)
	}
}

func TestRPCOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	payload := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{"msg":"oi"}}}`
	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp gateway.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != nil {
		t.Fatalf("rpc error: %+v", resp.Error)
	}
	if !strings.Contains(string(resp.Result), "oi") {
		t.Fatalf("result = %s", resp.Result)
	}
}

func TestRPCNotificationReturns202(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	payload := `{"jsonrpc":"2.0","method":"notifications/initialized"}`
	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	// Drive one call through so counters move.
	payload := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{}}}`
	router.ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(payload)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Tools     metrics.Snapshot       `json:"tools"`
		Cache     map[string]cache.Stats `json:"cache"`
		RateLimit ratelimit.Stats        `json:"rate_limit"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Tools.Total != 1 {
		t.Fatalf("expected 1 recorded call, got %d", body.Tools.Total)
	}
	if _, ok := body.Cache["clients"]; !ok {
		t.Fatalf("missing clients tier in cache stats: %v", body.Cache)
	}
}

func TestAuditQuery(t *testing.T) {
	router, st := newTestRouter(t, nil)
	st.records = []store.InvocationRecord{
		{ID: "a", Tool: "get_client", Status: store.StatusSuccess},
		{ID: "b", Tool: "create_pet", Status: store.StatusError},
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/audit?tool=get_client", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Records []store.InvocationRecord `json:"records"`
		Total   int                      `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Total != 1 || body.Records[0].ID != "a" {
		t.Fatalf("body = %+v", body)
	}
}
