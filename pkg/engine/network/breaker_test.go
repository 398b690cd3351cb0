package network

import (
	"testing"
	"time"
)

func TestBreakerTripsAtThreshold(t *testing.T) {
	b := NewCircuitBreaker(3, time.Minute)

	for i := 0; i < 2; i++ {
		b.RecordFailure("example.com")
	}
	if !b.Allow("example.com") {
		t.Fatal("breaker should stay closed below the threshold")
	}

	b.RecordFailure("example.com")
	if b.Allow("example.com") {
		t.Error("breaker should open at the threshold")
	}

	// Other domains are unaffected
	if !b.Allow("other.com") {
		t.Error("unrelated domain should not be blocked")
	}
}

func TestBreakerSuccessClearsState(t *testing.T) {
	b := NewCircuitBreaker(2, time.Minute)

	b.RecordFailure("example.com")
	b.RecordFailure("example.com")
	if b.Allow("example.com") {
		t.Fatal("breaker should be open")
	}

	b.RecordSuccess("example.com")
	if !b.Allow("example.com") {
		t.Error("success should close the breaker")
	}
}

func TestBreakerLazyReset(t *testing.T) {
	b := NewCircuitBreaker(1, 20*time.Millisecond)

	b.RecordFailure("example.com")
	if b.Allow("example.com") {
		t.Fatal("breaker should be open")
	}

	time.Sleep(40 * time.Millisecond)
	if !b.Allow("example.com") {
		t.Error("breaker should reset after the timeout")
	}
}

func TestBreakerSnapshotAndReset(t *testing.T) {
	b := NewCircuitBreaker(2, time.Minute)

	b.RecordFailure("a.com")
	b.RecordFailure("a.com")
	b.RecordFailure("b.com")

	snap := b.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("got %d snapshot entries, want 2", len(snap))
	}
	if !snap["a.com"].Open {
		t.Error("a.com should report open")
	}
	if snap["b.com"].Open {
		t.Error("b.com should report closed")
	}
	if snap["a.com"].FailureCount != 2 {
		t.Errorf("a.com failure count = %d, want 2", snap["a.com"].FailureCount)
	}

	b.Reset("a.com")
	if !b.Allow("a.com") {
		t.Error("reset domain should be allowed")
	}

	b.ResetAll()
	if len(b.Snapshot()) != 0 {
		t.Error("ResetAll should drop every domain")
	}
}
