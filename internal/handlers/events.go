package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"figma-gpt/internal/contextutil"
	"figma-gpt/internal/host"
	"figma-gpt/internal/settings"
)

// EventsHandler streams host events to the UI as Server-Sent Events.
type EventsHandler struct {
	bus          *host.Bus
	store        *settings.Store
	pingInterval time.Duration
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(bus *host.Bus, store *settings.Store) *EventsHandler {
	return &EventsHandler{
		bus:          bus,
		store:        store,
		pingInterval: 15 * time.Second,
	}
}

// ServeHTTP sends LOAD_SETTINGS with the current settings, then every bus
// event until the client goes away.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "streaming not supported by response writer")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, host.Event{Name: host.EventLoadSettings, Payload: h.store.Read()}); err != nil {
		logger.WarnContext(ctx, "failed to write event", "error", err)
		return
	}
	flusher.Flush()
	logger.DebugContext(ctx, "event stream opened")

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.DebugContext(ctx, "event stream closed")
			return
		case <-ping.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, e); err != nil {
				logger.WarnContext(ctx, "failed to write event", "event", e.Name, "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent writes e in SSE format: "event: <name>\ndata: <json>\n\n".
func writeEvent(w http.ResponseWriter, e host.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", e.Name, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, payload)
	return err
}
