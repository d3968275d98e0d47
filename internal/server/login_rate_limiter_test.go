package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoginRateLimiterBlocksAfterFailures(t *testing.T) {
	limiter := newLoginRateLimiter(3, time.Minute, 5*time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		if !limiter.Allow("alice|1.2.3.4", now) {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		limiter.RegisterFailure("alice|1.2.3.4", now)
	}

	if limiter.Allow("alice|1.2.3.4", now) {
		t.Fatal("expected block after reaching the failure limit")
	}

	// The block expires.
	if !limiter.Allow("alice|1.2.3.4", now.Add(6*time.Minute)) {
		t.Fatal("expected block to lift after the lockout window")
	}
}

func TestLoginRateLimiterWindowResets(t *testing.T) {
	limiter := newLoginRateLimiter(3, time.Minute, 5*time.Minute)
	now := time.Now()

	limiter.RegisterFailure("k", now)
	limiter.RegisterFailure("k", now)

	// Failures outside the window start a fresh count.
	later := now.Add(2 * time.Minute)
	limiter.RegisterFailure("k", later)
	limiter.RegisterFailure("k", later)

	if !limiter.Allow("k", later) {
		t.Fatal("stale failures must not count toward the limit")
	}
}

func TestLoginRateLimiterReset(t *testing.T) {
	limiter := newLoginRateLimiter(2, time.Minute, 5*time.Minute)
	now := time.Now()

	limiter.RegisterFailure("k", now)
	limiter.RegisterFailure("k", now)
	if limiter.Allow("k", now) {
		t.Fatal("expected block")
	}

	limiter.Reset("k")
	if !limiter.Allow("k", now) {
		t.Fatal("expected reset to clear the block")
	}
}

func TestLoginRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := newLoginRateLimiter(2, time.Minute, 5*time.Minute)
	now := time.Now()

	limiter.RegisterFailure("alice|1.2.3.4", now)
	limiter.RegisterFailure("alice|1.2.3.4", now)

	if limiter.Allow("alice|1.2.3.4", now) {
		t.Fatal("expected alice from 1.2.3.4 to be blocked")
	}
	if !limiter.Allow("alice|5.6.7.8", now) {
		t.Fatal("another client must not inherit the block")
	}
	if !limiter.Allow("bob|1.2.3.4", now) {
		t.Fatal("another account must not inherit the block")
	}
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	var limiter *loginRateLimiter

	if !limiter.Allow("k", time.Now()) {
		t.Fatal("nil limiter must allow")
	}
	limiter.RegisterFailure("k", time.Now())
	limiter.Reset("k")
}

func TestLoginAttemptKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/users/login", nil)
	req.RemoteAddr = "10.0.0.9:54321"

	key := loginAttemptKey("  Alice@Example.COM ", req)
	if key != "alice@example.com|10.0.0.9" {
		t.Fatalf("unexpected key %q", key)
	}
}
