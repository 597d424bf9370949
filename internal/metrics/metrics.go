// Package metrics aggregates per-operation counts and latencies for the
// dispatcher's observability surface.
package metrics

import (
	"sort"
	"sync"
	"time"
)

const latencyWindow = 256

// Collector accumulates process-wide request counters, a bounded rolling
// window of recent latencies, and per-tool totals. A disabled collector
// accepts records and reports zeros.
type Collector struct {
	mu        sync.Mutex
	enabled   bool
	startedAt time.Time

	total   int64
	success int64
	failed  int64

	latencies [latencyWindow]time.Duration
	filled    int
	next      int

	perTool map[string]*toolStats
}

type toolStats struct {
	calls   int64
	success int64
	failed  int64
	total   time.Duration
}

// New creates a Collector.
func New(enabled bool) *Collector {
	return &Collector{
		enabled:   enabled,
		startedAt: time.Now(),
		perTool:   make(map[string]*toolStats),
	}
}

// Record updates counters for one completed invocation, success or not.
func (c *Collector) Record(tool string, ok bool, d time.Duration) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.total++
	if ok {
		c.success++
	} else {
		c.failed++
	}

	c.latencies[c.next] = d
	c.next = (c.next + 1) % latencyWindow
	if c.filled < latencyWindow {
		c.filled++
	}

	ts, exists := c.perTool[tool]
	if !exists {
		ts = &toolStats{}
		c.perTool[tool] = ts
	}
	ts.calls++
	if ok {
		ts.success++
	} else {
		ts.failed++
	}
	ts.total += d
}

// Snapshot is a point-in-time view for the metrics endpoint.
type Snapshot struct {
	Enabled       bool                `json:"enabled"`
	UptimeSeconds int64               `json:"uptime_seconds"`
	Total         int64               `json:"total_requests"`
	Success       int64               `json:"success_requests"`
	Failed        int64               `json:"failed_requests"`
	AvgLatencyMs  float64             `json:"avg_latency_ms"`
	P95LatencyMs  float64             `json:"p95_latency_ms"`
	Tools         map[string]ToolView `json:"tools"`
}

// ToolView is one tool's aggregate.
type ToolView struct {
	Calls        int64   `json:"calls"`
	Success      int64   `json:"success"`
	Failed       int64   `json:"failed"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// Snapshot returns current aggregates. Latency figures cover the rolling
// window of recent requests, not the whole process lifetime.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Enabled:       c.enabled,
		UptimeSeconds: int64(time.Since(c.startedAt).Seconds()),
		Total:         c.total,
		Success:       c.success,
		Failed:        c.failed,
		Tools:         make(map[string]ToolView, len(c.perTool)),
	}

	if c.filled > 0 {
		window := make([]time.Duration, c.filled)
		copy(window, c.latencies[:c.filled])
		sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })

		var sum time.Duration
		for _, d := range window {
			sum += d
		}
		snap.AvgLatencyMs = float64(sum.Microseconds()) / float64(c.filled) / 1000
		snap.P95LatencyMs = float64(window[(c.filled-1)*95/100].Microseconds()) / 1000
	}

	for name, ts := range c.perTool {
		view := ToolView{Calls: ts.calls, Success: ts.success, Failed: ts.failed}
		if ts.calls > 0 {
			view.AvgLatencyMs = float64(ts.total.Microseconds()) / float64(ts.calls) / 1000
		}
		snap.Tools[name] = view
	}
	return snap
}
