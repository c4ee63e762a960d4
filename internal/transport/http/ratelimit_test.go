package http

import (
	"testing"
	"time"
)

func TestRateLimiterDisabledByDefault(t *testing.T) {
	r := newRateLimiter(0)
	for i := 0; i < 1000; i++ {
		if !r.allow() {
			t.Fatalf("disabled limiter rejected frame %d", i)
		}
	}
}

func TestRateLimiterCapsWithinWindow(t *testing.T) {
	r := newRateLimiter(3)
	for i := 0; i < 3; i++ {
		if !r.allow() {
			t.Fatalf("frame %d should be allowed", i)
		}
	}
	if r.allow() {
		t.Fatalf("fourth frame should be rejected")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	r := newRateLimiter(1)
	if !r.allow() {
		t.Fatalf("first frame should be allowed")
	}
	if r.allow() {
		t.Fatalf("second frame should be rejected")
	}

	r.windowStart = time.Now().Add(-2 * time.Minute)
	if !r.allow() {
		t.Fatalf("frame after window reset should be allowed")
	}
}

func TestNilRateLimiterAllows(t *testing.T) {
	var r *rateLimiter
	if !r.allow() {
		t.Fatalf("nil limiter must allow")
	}
}
