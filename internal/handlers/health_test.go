package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealth(t *testing.T) {
	up := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("dial tcp: refused") }

	tests := []struct {
		name       string
		checks     []HealthCheck
		wantCode   int
		wantStatus string
	}{
		{"all up", []HealthCheck{{"postgres", up}, {"redis", up}}, http.StatusOK, "ok"},
		{"redis down", []HealthCheck{{"postgres", up}, {"redis", down}}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewHealthHandler(tc.checks...).Get(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rr.Code)
			}
			var body struct {
				Status string `json:"status"`
			}
			json.NewDecoder(rr.Body).Decode(&body)
			if body.Status != tc.wantStatus {
				t.Errorf("expected status %q, got %q", tc.wantStatus, body.Status)
			}
		})
	}
}
