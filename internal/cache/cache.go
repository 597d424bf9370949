package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Store is an in-memory cache holding positive and negative entries with
// independent TTLs, LRU eviction, and hit/miss accounting. A negative entry
// records a known-failed upstream resolution so callers can fail fast
// instead of re-issuing a call that just failed.
type Store struct {
	mu          sync.Mutex
	items       map[string]*list.Element
	evictList   *list.List
	maxEntries  int
	defaultTTL  time.Duration
	negativeTTL time.Duration
	enabled     bool
	stats       Stats
}

// entry is the stored record. Exactly one of value/errMsg is meaningful,
// selected by the negative flag.
type entry struct {
	key       string
	value     json.RawMessage
	errMsg    string
	negative  bool
	createdAt time.Time
	expiresAt time.Time
	hits      int
}

// Hit is the result of a successful lookup. Negative hits are
// distinguishable by shape from any positive payload, including ones
// that are legitimately empty or falsy.
type Hit struct {
	Value    json.RawMessage
	Negative bool
	Err      string
	Age      time.Duration
	Hits     int
}

// Config configures a Store. Zero values fall back to defaults.
type Config struct {
	MaxEntries  int
	DefaultTTL  time.Duration
	NegativeTTL time.Duration
	Disabled    bool
}

const (
	defaultMaxEntries  = 1000
	defaultTTL         = 5 * time.Minute
	defaultNegativeTTL = 30 * time.Second
)

// New creates a Store. A disabled store accepts every operation but
// retains nothing, so callers must tolerate unconditional misses.
func New(cfg Config) *Store {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultMaxEntries
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = defaultTTL
	}
	if cfg.NegativeTTL <= 0 {
		cfg.NegativeTTL = defaultNegativeTTL
	}
	return &Store{
		items:       make(map[string]*list.Element),
		evictList:   list.New(),
		maxEntries:  cfg.MaxEntries,
		defaultTTL:  cfg.DefaultTTL,
		negativeTTL: cfg.NegativeTTL,
		enabled:     !cfg.Disabled,
	}
}

// Set stores a positive entry with the default TTL.
func (s *Store) Set(key string, value json.RawMessage) {
	s.SetWithTTL(key, value, s.defaultTTL)
}

// SetWithTTL stores a positive entry with a custom TTL.
func (s *Store) SetWithTTL(key string, value json.RawMessage, ttl time.Duration) {
	s.put(key, value, "", false, ttl)
}

// SetNegative stores a negative entry with the negative TTL.
func (s *Store) SetNegative(key, errMsg string) {
	s.put(key, nil, errMsg, true, s.negativeTTL)
}

// SetNegativeWithTTL stores a negative entry with a custom TTL.
func (s *Store) SetNegativeWithTTL(key, errMsg string, ttl time.Duration) {
	s.put(key, nil, errMsg, true, ttl)
}

func (s *Store) put(key string, value json.RawMessage, errMsg string, negative bool, ttl time.Duration) {
	if !s.enabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if el, ok := s.items[key]; ok {
		s.evictList.MoveToFront(el)
		e := el.Value.(*entry)
		e.value = value
		e.errMsg = errMsg
		e.negative = negative
		e.createdAt = now
		e.expiresAt = now.Add(ttl)
		e.hits = 0
		return
	}

	e := &entry{
		key:       key,
		value:     value,
		errMsg:    errMsg,
		negative:  negative,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	s.items[key] = s.evictList.PushFront(e)

	for s.evictList.Len() > s.maxEntries {
		s.evictOldestLocked()
	}
}

// Get looks up a key. It returns nil, false on miss or expiry; expired
// entries are evicted on detection.
func (s *Store) Get(key string) (*Hit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		s.stats.Misses++
		return nil, false
	}

	e := el.Value.(*entry)
	now := time.Now()
	if now.After(e.expiresAt) {
		s.removeLocked(el)
		s.stats.Expired++
		s.stats.Misses++
		return nil, false
	}

	s.evictList.MoveToFront(el)
	e.hits++
	if e.negative {
		s.stats.NegativeHits++
	} else {
		s.stats.Hits++
	}
	return &Hit{
		Value:    e.value,
		Negative: e.negative,
		Err:      e.errMsg,
		Age:      now.Sub(e.createdAt),
		Hits:     e.hits,
	}, true
}

// Delete removes a single key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		s.removeLocked(el)
	}
}

// DeletePrefix removes every entry whose key starts with prefix and
// returns the number removed. Write operations use it to invalidate the
// dependent read keys declared for them.
func (s *Store) DeletePrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key, el := range s.items {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			s.removeLocked(el)
			n++
		}
	}
	return n
}

// Cleanup sweeps all expired entries and returns the number removed.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	n := 0
	for _, el := range s.items {
		if e := el.Value.(*entry); now.After(e.expiresAt) {
			s.removeLocked(el)
			s.stats.Expired++
			n++
		}
	}
	return n
}

// StartJanitor sweeps expired entries on a fixed interval until ctx is
// cancelled. The sweep runs independently of lookups so keys that are
// never re-read still get reclaimed.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
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
				s.Cleanup()
			}
		}
	}()
}

// Flush removes all entries.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*list.Element)
	s.evictList.Init()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Enabled reports whether the store actually retains entries.
func (s *Store) Enabled() bool { return s.enabled }

// Stats returns a snapshot of cache statistics.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.Entries = len(s.items)
	if total := st.Hits + st.NegativeHits + st.Misses; total > 0 {
		st.HitRate = float64(st.Hits+st.NegativeHits) / float64(total)
	}
	return st
}

// ResetStats zeroes the counters.
func (s *Store) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = Stats{}
}

func (s *Store) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	delete(s.items, e.key)
	s.evictList.Remove(el)
}

func (s *Store) evictOldestLocked() {
	el := s.evictList.Back()
	if el == nil {
		return
	}
	s.removeLocked(el)
	s.stats.Evictions++
}
