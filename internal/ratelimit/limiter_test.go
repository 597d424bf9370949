package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_FirstCallAdmits(t *testing.T) {
	l := New(Config{Limit: 1, Window: time.Minute})
	if !l.Allow("fresh") {
		t.Fatal("first-ever call for an identifier must admit")
	}
}

func TestLimiter_CeilingWithinWindow(t *testing.T) {
	l := New(Config{Limit: 3, Window: 60 * time.Second})

	for i := range 3 {
		if !l.Allow("client-a") {
			t.Fatalf("call %d should be admitted", i+1)
		}
	}
	if l.Allow("client-a") {
		t.Fatal("4th call within the window must be rejected")
	}

	wait := l.RemainingTime("client-a")
	if wait <= 0 {
		t.Fatalf("RemainingTime = %v; want positive wait", wait)
	}
	if wait > 60*time.Second {
		t.Fatalf("RemainingTime = %v; want at most the window", wait)
	}
}

func TestLimiter_IdentifiersIndependent(t *testing.T) {
	l := New(Config{Limit: 1, Window: time.Minute})

	if !l.Allow("a") {
		t.Fatal("a should be admitted")
	}
	if !l.Allow("b") {
		t.Fatal("b should be admitted despite a being at its ceiling")
	}
	if l.Allow("a") {
		t.Fatal("a should be rejected")
	}
}

func TestLimiter_WindowSlides(t *testing.T) {
	l := New(Config{Limit: 2, Window: 30 * time.Millisecond})

	l.Allow("c")
	l.Allow("c")
	if l.Allow("c") {
		t.Fatal("3rd call should be rejected")
	}

	time.Sleep(40 * time.Millisecond)

	// Pruning must run before the check, so the expired timestamps no
	// longer count against the budget.
	if !l.Allow("c") {
		t.Fatal("call after window slid should be admitted")
	}
	if l.RemainingTime("c") != 0 {
		t.Fatal("RemainingTime should be zero with budget available")
	}
}

func TestLimiter_RejectionDoesNotConsume(t *testing.T) {
	l := New(Config{Limit: 1, Window: 30 * time.Millisecond})

	l.Allow("d")
	for range 5 {
		l.Allow("d") // rejected; must not extend the window
	}

	time.Sleep(40 * time.Millisecond)
	if !l.Allow("d") {
		t.Fatal("rejected calls must not record timestamps")
	}
}

func TestLimiter_Sweep(t *testing.T) {
	l := New(Config{Limit: 5, Window: 10 * time.Millisecond})

	l.Allow("x")
	l.Allow("y")
	if s := l.Stats(); s.Identifiers != 2 {
		t.Fatalf("Identifiers = %d; want 2", s.Identifiers)
	}

	time.Sleep(15 * time.Millisecond)
	if n := l.Sweep(); n != 2 {
		t.Fatalf("Sweep = %d; want 2", n)
	}
	if s := l.Stats(); s.Identifiers != 0 {
		t.Fatalf("Identifiers after sweep = %d; want 0", s.Identifiers)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := New(Config{Limit: 1, Window: time.Minute, Disabled: true})

	for range 10 {
		if !l.Allow("any") {
			t.Fatal("disabled limiter must always admit")
		}
	}
	if l.RemainingTime("any") != 0 {
		t.Fatal("disabled limiter reports no wait")
	}
}
