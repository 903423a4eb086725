package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"figma-gpt/internal/llm"
	"figma-gpt/internal/service"
	"figma-gpt/internal/service/mocks"
	"figma-gpt/internal/settings"

	"go.uber.org/mock/gomock"
)

func TestNewCompletionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockCompletionService(ctrl)
	handler := NewCompletionHandler(mockService, newStore(nil))

	if handler == nil {
		t.Fatal("NewCompletionHandler() returned nil")
	}
	if handler.completions != mockService {
		t.Error("NewCompletionHandler() completions not set correctly")
	}
}

func TestCompletionHandler_Chat(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockSetup  func(*mocks.MockCompletionService, *settings.Store)
		wantStatus int
		wantError  string
		wantPrompt string
	}{
		{
			name: "prompt in body is stored before sending",
			body: `{"prompt":"Hello"}`,
			mockSetup: func(m *mocks.MockCompletionService, store *settings.Store) {
				m.EXPECT().Chat(gomock.Any()).DoAndReturn(func(context.Context) (service.ChatResult, error) {
					if p := store.Read().ChatPrompt; p != "Hello" {
						t.Errorf("prompt at submit = %q, want Hello", p)
					}
					return service.ChatResult{RequestID: "req-1", State: service.StateCompleted, Reply: "Hi there"}, nil
				})
			},
			wantStatus: http.StatusOK,
			wantPrompt: "Hello",
		},
		{
			name: "empty body uses the stored prompt",
			body: "",
			mockSetup: func(m *mocks.MockCompletionService, _ *settings.Store) {
				m.EXPECT().Chat(gomock.Any()).Return(service.ChatResult{State: service.StateCompleted}, nil)
			},
			wantStatus: http.StatusOK,
			wantPrompt: "stored",
		},
		{
			name: "busy",
			body: `{}`,
			mockSetup: func(m *mocks.MockCompletionService, _ *settings.Store) {
				m.EXPECT().Chat(gomock.Any()).Return(service.ChatResult{}, service.ErrBusy)
			},
			wantStatus: http.StatusConflict,
			wantError:  "A completion is already in progress",
			wantPrompt: "stored",
		},
		{
			name: "missing api key",
			body: `{}`,
			mockSetup: func(m *mocks.MockCompletionService, _ *settings.Store) {
				m.EXPECT().Chat(gomock.Any()).Return(service.ChatResult{}, &service.ValidationError{Field: "apiKey", Message: "cannot be empty"})
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation error: validation error on field apiKey: cannot be empty",
			wantPrompt: "stored",
		},
		{
			name: "upstream rejects the key",
			body: `{}`,
			mockSetup: func(m *mocks.MockCompletionService, _ *settings.Store) {
				apiErr := &llm.APIError{StatusCode: 401, Message: "Invalid API key"}
				m.EXPECT().Chat(gomock.Any()).Return(
					service.ChatResult{State: service.StateRolledBack},
					fmt.Errorf("chat completion failed: %w: %w", service.ErrExternalService, apiErr),
				)
			},
			wantStatus: http.StatusBadGateway,
			wantError:  "Invalid API key",
			wantPrompt: "stored",
		},
		{
			name:       "invalid body",
			body:       `{"prompt":`,
			mockSetup:  func(*mocks.MockCompletionService, *settings.Store) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
			wantPrompt: "stored",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := newStore(func(s *settings.Settings) { s.ChatPrompt = "stored" })
			mockService := mocks.NewMockCompletionService(ctrl)
			tt.mockSetup(mockService, store)
			handler := NewCompletionHandler(mockService, store)

			req := httptest.NewRequest(http.MethodPost, "/api/chat/completions", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.Chat(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Chat() status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantError != "" {
				if got := decodeError(t, w); got != tt.wantError {
					t.Errorf("Chat() error = %q, want %q", got, tt.wantError)
				}
			} else {
				var result service.ChatResult
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				if result.State != service.StateCompleted {
					t.Errorf("Chat() state = %q", result.State)
				}
			}
			if p := store.Read().ChatPrompt; p != tt.wantPrompt {
				t.Errorf("stored prompt = %q, want %q", p, tt.wantPrompt)
			}
		})
	}
}

func TestCompletionHandler_Code(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := newStore(nil)
	mockService := mocks.NewMockCompletionService(ctrl)
	mockService.EXPECT().Code(gomock.Any()).Return(service.CodeResult{RequestID: "req-2", Text: "func main() {}", TotalTokens: 9}, nil)
	handler := NewCompletionHandler(mockService, store)

	req := httptest.NewRequest(http.MethodPost, "/api/code/completions", bytes.NewBufferString(`{"prompt":"package main"}`))
	w := httptest.NewRecorder()
	handler.Code(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Code() status = %d: %s", w.Code, w.Body.String())
	}
	var result service.CodeResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Text != "func main() {}" || result.TotalTokens != 9 {
		t.Errorf("Code() = %+v", result)
	}
	if p := store.Read().CodePrompt; p != "package main" {
		t.Errorf("stored code prompt = %q", p)
	}
}
