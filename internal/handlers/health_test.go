package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"figma-gpt/internal/settings"
)

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(context.Context) error {
	return f.err
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		url        string
		apiKey     string
		pingErr    error
		listErr    error
		wantStatus int
		wantState  string
		wantChecks map[string]string
	}{
		{
			name:       "healthy",
			method:     http.MethodGet,
			url:        "/api/health",
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			wantChecks: map[string]string{"database": "ok"},
		},
		{
			name:       "database down",
			method:     http.MethodGet,
			url:        "/api/health",
			pingErr:    errors.New("disk I/O error"),
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
			wantChecks: map[string]string{"database": "error"},
		},
		{
			name:       "deep check ok",
			method:     http.MethodGet,
			url:        "/api/health?deep=true",
			apiKey:     "sk-test",
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			wantChecks: map[string]string{"database": "ok", "openai": "ok"},
		},
		{
			name:       "deep check without key",
			method:     http.MethodGet,
			url:        "/api/health?deep=true",
			wantStatus: http.StatusOK,
			wantState:  "healthy",
			wantChecks: map[string]string{"database": "ok", "openai": "skipped"},
		},
		{
			name:       "deep check fails",
			method:     http.MethodGet,
			url:        "/api/health?deep=true",
			apiKey:     "sk-test",
			listErr:    errors.New("dial tcp: i/o timeout"),
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "degraded",
			wantChecks: map[string]string{"database": "ok", "openai": "error"},
		},
		{
			name:       "method not allowed",
			method:     http.MethodPost,
			url:        "/api/health",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(func(s *settings.Settings) { s.APIKey = tt.apiKey })
			handler := NewHealthHandler(fakePinger{err: tt.pingErr}, &fakeLister{err: tt.listErr}, store)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.url, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantState == "" {
				return
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantState)
			}
			if len(resp.Checks) != len(tt.wantChecks) {
				t.Errorf("checks = %v, want %v", resp.Checks, tt.wantChecks)
			}
			for k, v := range tt.wantChecks {
				if resp.Checks[k] != v {
					t.Errorf("checks[%s] = %q, want %q", k, resp.Checks[k], v)
				}
			}
		})
	}
}
