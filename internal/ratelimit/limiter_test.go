package ratelimit

import (
	"testing"
	"time"
)

func TestAllow_WithinBurst(t *testing.T) {
	l := New(Config{RPS: 1, Burst: 3, CleanupInterval: time.Hour})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be within burst", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request beyond burst should be denied")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l := New(Config{RPS: 1, Burst: 1, CleanupInterval: time.Hour})
	defer l.Stop()

	if !l.Allow("10.0.0.1") {
		t.Fatal("first key should be allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("second key should have its own budget")
	}
}

func TestCleanup_DropsIdleEntries(t *testing.T) {
	l := New(Config{RPS: 1, Burst: 1, CleanupInterval: time.Hour})
	defer l.Stop()

	l.Allow("10.0.0.1")
	l.cleanup(0)

	l.mu.Lock()
	n := len(l.limiters)
	l.mu.Unlock()
	if n != 0 {
		t.Errorf("expected idle entries dropped, have %d", n)
	}
}
