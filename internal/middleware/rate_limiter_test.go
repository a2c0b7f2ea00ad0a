package middleware

import (
	"sync"
	"testing"
	"time"
)

func newTestLimiter(userMax, ipMax int, clock *time.Time) *RateLimiter {
	rl := NewRateLimiter(userMax, ipMax, time.Minute)
	rl.now = func() time.Time { return *clock }
	return rl
}

func TestRateLimiter_UserWindow(t *testing.T) {
	clock := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	rl := newTestLimiter(3, 100, &clock)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.CheckUserLimit(1) {
			t.Fatalf("request %d rejected inside limit", i+1)
		}
	}
	if rl.CheckUserLimit(1) {
		t.Error("fourth request allowed")
	}
	if !rl.CheckUserLimit(2) {
		t.Error("other user affected by limit")
	}
	if got := rl.GetUserRemaining(1); got != 0 {
		t.Errorf("GetUserRemaining() = %d, want 0", got)
	}

	clock = clock.Add(time.Minute + time.Second)
	if !rl.CheckUserLimit(1) {
		t.Error("request rejected after window reset")
	}
	if got := rl.GetUserRemaining(1); got != 2 {
		t.Errorf("GetUserRemaining() = %d, want 2", got)
	}
}

func TestRateLimiter_IPWindow(t *testing.T) {
	clock := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	rl := newTestLimiter(100, 2, &clock)
	defer rl.Stop()

	if !rl.CheckIPLimit("10.0.0.1") || !rl.CheckIPLimit("10.0.0.1") {
		t.Fatal("requests rejected inside limit")
	}
	if rl.CheckIPLimit("10.0.0.1") {
		t.Error("third request allowed")
	}
	if !rl.CheckIPLimit("10.0.0.2") {
		t.Error("other IP affected by limit")
	}
}

func TestRateLimiter_EvictAndReset(t *testing.T) {
	clock := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	rl := newTestLimiter(1, 1, &clock)
	defer rl.Stop()

	rl.CheckUserLimit(1)
	rl.CheckIPLimit("10.0.0.1")

	clock = clock.Add(2 * time.Minute)
	rl.evictExpired()
	if len(rl.userLimits) != 0 || len(rl.ipLimits) != 0 {
		t.Errorf("expired entries kept: users=%d ips=%d", len(rl.userLimits), len(rl.ipLimits))
	}

	rl.CheckUserLimit(1)
	rl.Reset()
	if !rl.CheckUserLimit(1) {
		t.Error("request rejected after Reset")
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter(50, 50, time.Minute)
	defer rl.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.CheckUserLimit(7) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("allowed = %d, want 50", allowed)
	}
}
