package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubLimiter struct {
	limit   int64
	counts  map[string]int64
	failure error
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{counts: make(map[string]int64)}
}

func (s *stubLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if s.failure != nil {
		return false, 0, s.failure
	}
	s.counts[scope]++
	remaining := limit - s.counts[scope]
	if remaining < 0 {
		remaining = 0
	}
	return s.counts[scope] <= limit, remaining, nil
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	limiter := newStubLimiter()
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	mw := RateLimit(limiter, 3, time.Minute, nil)
	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cancellations/progress", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, resp.Code)
		}
	}
	if calls != 3 {
		t.Fatalf("expected 3 handler calls, got %d", calls)
	}
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	limiter := newStubLimiter()
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	mw := RateLimit(limiter, 1, time.Minute, nil)
	mw(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/cancellations/progress", nil))

	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cancellations/progress", nil))

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
	if calls != 1 {
		t.Fatalf("expected 1 handler call, got %d", calls)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := newStubLimiter()
	limiter.failure = errors.New("redis down")
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	resp := httptest.NewRecorder()
	RateLimit(limiter, 1, time.Minute, nil)(handler).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/cancellations/progress", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected fail-open 200 got %d", resp.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run, got %d calls", calls)
	}
}

func TestRateLimitDisabledWithoutLimiter(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	mw := RateLimit(nil, 1, time.Minute, nil)
	for i := 0; i < 5; i++ {
		mw(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/cancellations/progress", nil))
	}
	if calls != 5 {
		t.Fatalf("expected all requests through, got %d", calls)
	}
}
