package handlers

import (
	"net/http"

	"figma-gpt/internal/contextutil"
	"figma-gpt/internal/host"
)

// WindowHandler forwards window resize requests to the host.
type WindowHandler struct {
	bus *host.Bus
}

// NewWindowHandler creates a new WindowHandler.
func NewWindowHandler(bus *host.Bus) *WindowHandler {
	return &WindowHandler{bus: bus}
}

// Resize emits RESIZE_WINDOW with the requested size.
func (h *WindowHandler) Resize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var size host.WindowSize
	if err := decodeJSON(r, &size); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if size.Width <= 0 || size.Height < 0 {
		writeError(w, http.StatusBadRequest, "width must be positive and height must not be negative")
		return
	}

	h.bus.ResizeWindow(ctx, size)
	w.WriteHeader(http.StatusAccepted)
}
