package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"figma-gpt/internal/llm"
	"figma-gpt/internal/settings"
)

// fakeLister is a hand-written ModelLister.
type fakeLister struct {
	models []llm.ModelInfo
	err    error
	gotKey string
}

func (f *fakeLister) ListModels(_ context.Context, apiKey string) ([]llm.ModelInfo, error) {
	f.gotKey = apiKey
	return f.models, f.err
}

func TestModelsHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		apiKey        string
		lister        *fakeLister
		wantStatus    int
		wantAvailable []string
	}{
		{
			name:       "catalog only",
			url:        "/api/models",
			lister:     &fakeLister{},
			wantStatus: http.StatusOK,
		},
		{
			name:          "remote models",
			url:           "/api/models?remote=true",
			apiKey:        "sk-test",
			lister:        &fakeLister{models: []llm.ModelInfo{{ID: "gpt-4"}, {ID: "gpt-3.5-turbo"}}},
			wantStatus:    http.StatusOK,
			wantAvailable: []string{"gpt-4", "gpt-3.5-turbo"},
		},
		{
			name:       "remote without key",
			url:        "/api/models?remote=true",
			lister:     &fakeLister{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "remote rejected",
			url:        "/api/models?remote=true",
			apiKey:     "sk-bad",
			lister:     &fakeLister{err: &llm.APIError{StatusCode: 401, Message: "Invalid API key"}},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(func(s *settings.Settings) { s.APIKey = tt.apiKey })
			handler := NewModelsHandler(tt.lister, store)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp ModelsResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if len(resp.Chat) != len(settings.ChatModels) || len(resp.Code) != len(settings.CodeModels) {
				t.Errorf("catalog = %+v", resp)
			}
			if len(resp.Available) != len(tt.wantAvailable) {
				t.Fatalf("available = %v, want %v", resp.Available, tt.wantAvailable)
			}
			for i := range tt.wantAvailable {
				if resp.Available[i] != tt.wantAvailable[i] {
					t.Errorf("available[%d] = %q, want %q", i, resp.Available[i], tt.wantAvailable[i])
				}
			}
			if tt.wantAvailable != nil && tt.lister.gotKey != tt.apiKey {
				t.Errorf("ListModels() key = %q, want %q", tt.lister.gotKey, tt.apiKey)
			}
		})
	}
}
