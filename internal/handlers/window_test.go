package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"figma-gpt/internal/host"
)

func TestWindowHandler_Resize(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantSize   *host.WindowSize
	}{
		{
			name:       "valid size",
			body:       `{"width":500,"height":640}`,
			wantStatus: http.StatusAccepted,
			wantSize:   &host.WindowSize{Width: 500, Height: 640},
		},
		{
			name:       "zero width",
			body:       `{"width":0,"height":640}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid JSON",
			body:       `{"width":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := host.NewBus(4, host.WindowSize{Width: 500})
			events, unsubscribe := bus.Subscribe()
			defer unsubscribe()

			w := httptest.NewRecorder()
			NewWindowHandler(bus).Resize(w, httptest.NewRequest(http.MethodPost, "/api/window/resize", bytes.NewBufferString(tt.body)))

			if w.Code != tt.wantStatus {
				t.Fatalf("Resize() status = %d, want %d", w.Code, tt.wantStatus)
			}

			select {
			case e := <-events:
				if tt.wantSize == nil {
					t.Fatalf("unexpected event %+v", e)
				}
				if e.Name != host.EventResizeWindow || e.Payload != *tt.wantSize {
					t.Errorf("event = %+v, want RESIZE_WINDOW %+v", e, *tt.wantSize)
				}
			default:
				if tt.wantSize != nil {
					t.Error("no RESIZE_WINDOW event emitted")
				}
			}
		})
	}
}
