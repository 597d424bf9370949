package metrics

import (
	"testing"
	"time"
)

func TestCollector_Record(t *testing.T) {
	c := New(true)

	c.Record("get_client", true, 10*time.Millisecond)
	c.Record("get_client", true, 20*time.Millisecond)
	c.Record("create_pet", false, 30*time.Millisecond)

	s := c.Snapshot()
	if s.Total != 3 || s.Success != 2 || s.Failed != 1 {
		t.Fatalf("totals = %d/%d/%d; want 3/2/1", s.Total, s.Success, s.Failed)
	}

	gc := s.Tools["get_client"]
	if gc.Calls != 2 || gc.Success != 2 || gc.Failed != 0 {
		t.Fatalf("get_client = %+v", gc)
	}
	if gc.AvgLatencyMs < 14 || gc.AvgLatencyMs > 16 {
		t.Fatalf("get_client avg = %v; want ~15ms", gc.AvgLatencyMs)
	}

	cp := s.Tools["create_pet"]
	if cp.Calls != 1 || cp.Failed != 1 {
		t.Fatalf("create_pet = %+v", cp)
	}
}

func TestCollector_RollingWindow(t *testing.T) {
	c := New(true)

	// Fill past the window; only recent latencies should shape averages.
	for range latencyWindow {
		c.Record("x", true, 100*time.Millisecond)
	}
	for range latencyWindow {
		c.Record("x", true, 10*time.Millisecond)
	}

	s := c.Snapshot()
	if s.AvgLatencyMs > 11 {
		t.Fatalf("avg = %v; want only the recent window to count", s.AvgLatencyMs)
	}
	if s.Total != 2*latencyWindow {
		t.Fatalf("Total = %d; counters must cover the whole lifetime", s.Total)
	}
}

func TestCollector_Disabled(t *testing.T) {
	c := New(false)
	c.Record("x", true, time.Millisecond)

	if s := c.Snapshot(); s.Total != 0 {
		t.Fatalf("disabled collector recorded %d requests", s.Total)
	}
}
