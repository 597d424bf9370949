package tools

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vetgate/vetgate/internal/cache"
	"github.com/vetgate/vetgate/internal/validate"
)

// clinicDashboard aggregates several upstream dashboards in one call.
// The lookups fan out concurrently and are awaited together; an
// individual failure drops that section and marks the result partial
// instead of failing the whole aggregate.
func (s *Service) clinicDashboard(ctx context.Context, args map[string]any) (*Result, error) {
	rawDate, err := requireString(args, "date")
	if err != nil {
		return nil, err
	}
	date, err := validate.Date("date", rawDate)
	if err != nil {
		return nil, err
	}

	key := cache.DashboardKey(date)
	if hit, found := s.caches.Dashboard.Get(key); found {
		return cached(hit.Value, hit.Age), nil
	}

	sections := map[string]string{
		"appointments": "/dashboards/appointments?date=" + url.QueryEscape(date),
		"sales":        "/dashboards/sales?date=" + url.QueryEscape(date),
		"clients":      "/dashboards/clients",
	}

	var mu sync.Mutex
	results := make(map[string]json.RawMessage, len(sections))
	failures := make(map[string]string)

	g, gctx := errgroup.WithContext(ctx)
	for name, path := range sections {
		g.Go(func() error {
			data, err := s.api.Get(gctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[name] = err.Error()
				return nil // tolerate individual failures
			}
			results[name] = data
			return nil
		})
	}
	_ = g.Wait()

	if len(results) == 0 {
		// Every section failed; surface the aggregate as an error so
		// the dispatcher classifies it like any other upstream failure.
		return &Result{
			Success: false,
			Error:   "all dashboard sections failed",
			Meta:    map[string]any{"failures": failures},
		}, nil
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return nil, err
	}

	if len(failures) > 0 {
		// Partial aggregates are not cached: the missing sections
		// should be retried on the next call.
		return okMeta(payload, map[string]any{
			"partial":  true,
			"failures": failures,
		}), nil
	}

	s.caches.Dashboard.Set(key, payload)
	return ok(payload), nil
}
