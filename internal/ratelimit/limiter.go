package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLimitExceeded is returned by Execute when an identifier is over its
// admission ceiling.
var ErrLimitExceeded = errors.New("ratelimit: limit exceeded")

// Config configures the limiter.
type Config struct {
	// Limit is the admission ceiling per window. Default: 60.
	Limit int

	// Window is the trailing window length. Default: 1 minute.
	Window time.Duration

	// Disabled makes every check admit.
	Disabled bool
}

// Limiter applies per-identifier sliding-window admission control: a
// request is admitted only if fewer than Limit timestamps remain in the
// trailing window. The identifier space is unbounded (caller address or
// token), so empty windows are reclaimed by a periodic sweep.
type Limiter struct {
	cfg Config

	mu      sync.Mutex
	windows map[string][]time.Time
}

// New creates a Limiter, applying defaults for zero config values.
func New(cfg Config) *Limiter {
	if cfg.Limit <= 0 {
		cfg.Limit = 60
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &Limiter{
		cfg:     cfg,
		windows: make(map[string][]time.Time),
	}
}

// Allow reports whether a request from id is admitted, recording the
// admission timestamp when it is. Expired timestamps are pruned before
// the ceiling check so they never count against the budget.
func (l *Limiter) Allow(id string) bool {
	if l.cfg.Disabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	kept := l.pruneLocked(id, now)
	if len(kept) >= l.cfg.Limit {
		l.windows[id] = kept
		return false
	}

	l.windows[id] = append(kept, now)
	return true
}

// RemainingTime reports how long until the oldest retained timestamp for
// id exits the window, for caller backoff guidance. It returns zero when
// the identifier has budget available.
func (l *Limiter) RemainingTime(id string) time.Duration {
	if l.cfg.Disabled {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	kept := l.pruneLocked(id, now)
	l.windows[id] = kept
	if len(kept) < l.cfg.Limit {
		return 0
	}

	wait := kept[0].Add(l.cfg.Window).Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

// Execute runs op if id is admitted, returning ErrLimitExceeded otherwise.
func (l *Limiter) Execute(ctx context.Context, id string, op func(context.Context) error) error {
	if !l.Allow(id) {
		return ErrLimitExceeded
	}
	return op(ctx)
}

// Sweep removes identifiers with no retained timestamps and returns the
// number reclaimed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	n := 0
	for id := range l.windows {
		if kept := l.pruneLocked(id, now); len(kept) == 0 {
			delete(l.windows, id)
			n++
		} else {
			l.windows[id] = kept
		}
	}
	return n
}

// StartSweeper reclaims empty identifier windows on a fixed interval
// until ctx is cancelled.
func (l *Limiter) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Sweep()
			}
		}
	}()
}

// Stats returns the number of tracked identifiers and the configured
// ceiling/window for observability.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		Identifiers: len(l.windows),
		Limit:       l.cfg.Limit,
		WindowSec:   int(l.cfg.Window.Seconds()),
		Disabled:    l.cfg.Disabled,
	}
}

// Stats is a snapshot of limiter state.
type Stats struct {
	Identifiers int  `json:"identifiers"`
	Limit       int  `json:"limit"`
	WindowSec   int  `json:"window_sec"`
	Disabled    bool `json:"disabled"`
}

// pruneLocked drops timestamps older than now-Window for id and returns
// the retained, still-ordered slice.
func (l *Limiter) pruneLocked(id string, now time.Time) []time.Time {
	cutoff := now.Add(-l.cfg.Window)
	ts := l.windows[id]
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	return ts[i:]
}
