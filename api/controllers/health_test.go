package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/migratemate/cancelflow-backend/pkg/config"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(_ context.Context) error {
	return s.err
}

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "test"

	rec := httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-CancelFlow-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-CancelFlow-Env"))
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "test"

	tests := []struct {
		name  string
		db    *stubPinger
		cache *stubPinger
		want  int
	}{
		{"all healthy", &stubPinger{}, &stubPinger{}, http.StatusOK},
		{"database down", &stubPinger{err: errors.New("conn refused")}, &stubPinger{}, http.StatusServiceUnavailable},
		{"redis down", &stubPinger{}, &stubPinger{err: errors.New("conn refused")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthReady(cfg, tt.db, tt.cache, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			if rec.Code != tt.want {
				t.Fatalf("expected %d got %d", tt.want, rec.Code)
			}
		})
	}
}
