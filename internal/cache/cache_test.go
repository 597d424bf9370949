package cache

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestStore_GetSet(t *testing.T) {
	s := New(Config{MaxEntries: 10, DefaultTTL: time.Minute})

	// Miss
	if _, ok := s.Get("a"); ok {
		t.Fatal("expected miss on empty store")
	}

	// Set and hit
	s.Set("a", json.RawMessage(`{"id":1}`))
	hit, ok := s.Get("a")
	if !ok || hit.Negative {
		t.Fatalf("Get(a) = %+v, %v; want positive hit", hit, ok)
	}
	if string(hit.Value) != `{"id":1}` {
		t.Fatalf("value = %s; want {\"id\":1}", hit.Value)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	s := New(Config{MaxEntries: 10, DefaultTTL: 10 * time.Millisecond})
	s.Set("a", json.RawMessage(`1`))

	if _, ok := s.Get("a"); !ok {
		t.Fatal("expected hit before TTL")
	}

	time.Sleep(15 * time.Millisecond)
	if _, ok := s.Get("a"); ok {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestStore_NegativeHit(t *testing.T) {
	s := New(Config{MaxEntries: 10, DefaultTTL: time.Minute, NegativeTTL: time.Minute})
	s.SetNegative("k", "upstream returned 404")

	hit, ok := s.Get("k")
	if !ok {
		t.Fatal("expected negative hit")
	}
	if !hit.Negative {
		t.Fatal("expected Negative flag set")
	}
	if hit.Err != "upstream returned 404" {
		t.Fatalf("Err = %q; want stored error", hit.Err)
	}
	if hit.Value != nil {
		t.Fatalf("Value = %s; want nil on negative entry", hit.Value)
	}
}

func TestStore_NegativeDistinguishableFromFalsyPayload(t *testing.T) {
	s := New(Config{MaxEntries: 10, DefaultTTL: time.Minute})

	// Falsy-shaped positive payloads must not look like negative hits.
	for _, payload := range []string{`null`, `false`, `0`, `""`, `[]`} {
		s.Set("k", json.RawMessage(payload))
		hit, ok := s.Get("k")
		if !ok || hit.Negative {
			t.Fatalf("payload %s: hit=%+v ok=%v; want positive hit", payload, hit, ok)
		}
	}
}

func TestStore_NegativeTTLIndependent(t *testing.T) {
	s := New(Config{
		MaxEntries:  10,
		DefaultTTL:  time.Hour,
		NegativeTTL: 10 * time.Millisecond,
	})
	s.Set("pos", json.RawMessage(`1`))
	s.SetNegative("neg", "boom")

	time.Sleep(15 * time.Millisecond)

	if _, ok := s.Get("neg"); ok {
		t.Fatal("expected negative entry to expire on its short TTL")
	}
	if _, ok := s.Get("pos"); !ok {
		t.Fatal("expected positive entry to survive")
	}
}

func TestStore_Disabled(t *testing.T) {
	s := New(Config{Disabled: true})
	s.Set("a", json.RawMessage(`1`))
	s.SetNegative("b", "err")

	if _, ok := s.Get("a"); ok {
		t.Fatal("disabled store must not retain positive entries")
	}
	if _, ok := s.Get("b"); ok {
		t.Fatal("disabled store must not retain negative entries")
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d; want 0", s.Len())
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	s := New(Config{MaxEntries: 10, DefaultTTL: time.Minute})
	s.Set("pets:client:1", json.RawMessage(`[]`))
	s.Set("pets:client:2", json.RawMessage(`[]`))
	s.Set("client:1", json.RawMessage(`{}`))

	if n := s.DeletePrefix("pets:client:"); n != 2 {
		t.Fatalf("DeletePrefix = %d; want 2", n)
	}
	if _, ok := s.Get("pets:client:1"); ok {
		t.Fatal("expected pets:client:1 to be invalidated")
	}
	if _, ok := s.Get("client:1"); !ok {
		t.Fatal("expected client:1 to survive")
	}
}

func TestStore_Cleanup(t *testing.T) {
	s := New(Config{MaxEntries: 10, DefaultTTL: 5 * time.Millisecond})
	s.Set("a", json.RawMessage(`1`))
	s.Set("b", json.RawMessage(`2`))
	s.SetWithTTL("c", json.RawMessage(`3`), time.Hour)

	time.Sleep(10 * time.Millisecond)

	if n := s.Cleanup(); n != 2 {
		t.Fatalf("Cleanup = %d; want 2", n)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d; want 1", s.Len())
	}
}

func TestStore_LRUEviction(t *testing.T) {
	s := New(Config{MaxEntries: 2, DefaultTTL: time.Minute})
	s.Set("a", json.RawMessage(`1`))
	s.Set("b", json.RawMessage(`2`))
	s.Get("a")
	s.Set("c", json.RawMessage(`3`))

	if _, ok := s.Get("b"); ok {
		t.Fatal("expected 'b' to be evicted")
	}
	if _, ok := s.Get("a"); !ok {
		t.Fatal("expected 'a' to survive (recently accessed)")
	}
	if st := s.Stats(); st.Evictions != 1 {
		t.Fatalf("Evictions = %d; want 1", st.Evictions)
	}
}

func TestStore_Stats(t *testing.T) {
	s := New(Config{MaxEntries: 10, DefaultTTL: time.Minute})
	s.Set("a", json.RawMessage(`1`))
	s.SetNegative("n", "err")

	s.Get("a")       // hit
	s.Get("n")       // negative hit
	s.Get("missing") // miss

	st := s.Stats()
	if st.Hits != 1 || st.NegativeHits != 1 || st.Misses != 1 {
		t.Fatalf("stats = %+v; want 1 hit, 1 negative, 1 miss", st)
	}
	if st.Entries != 2 {
		t.Fatalf("Entries = %d; want 2", st.Entries)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New(Config{MaxEntries: 100, DefaultTTL: time.Minute})
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Set(ClientKey(string(rune('a'+n%26))), json.RawMessage(`{}`))
		}(i)
	}
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Get(ClientKey(string(rune('a' + n%26))))
		}(i)
	}
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.DeletePrefix(ClientPrefix)
		}()
	}

	wg.Wait()
	// No race or panic = test passes.
}

func TestNegativeKey_PerEndpoint(t *testing.T) {
	a := NegativeKey("GET", "/clients/1", nil)
	b := NegativeKey("GET", "/clients/2", nil)
	c := NegativeKey("POST", "/clients/1", nil)
	if a == b || a == c {
		t.Fatal("negative keys must differ per endpoint and method")
	}
	if a != NegativeKey("GET", "/clients/1", nil) {
		t.Fatal("negative keys must be deterministic")
	}
}
