package handlers

import (
	"net/http"

	"figma-gpt/internal/contextutil"
	"figma-gpt/internal/service"
	"figma-gpt/internal/settings"
)

// CompletionHandler handles chat and code submissions.
type CompletionHandler struct {
	completions service.CompletionService
	store       *settings.Store
}

// NewCompletionHandler creates a new CompletionHandler.
func NewCompletionHandler(completions service.CompletionService, store *settings.Store) *CompletionHandler {
	return &CompletionHandler{
		completions: completions,
		store:       store,
	}
}

// SubmitRequest is the optional body of a submission. When Prompt is set it
// replaces the stored prompt before the request is sent.
type SubmitRequest struct {
	Prompt *string `json:"prompt,omitempty"`
}

// Chat submits the chat prompt. The reply is streamed into the settings
// record; the response carries the terminal state.
func (h *CompletionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Prompt != nil {
		h.store.Update(settings.Patch{ChatPrompt: req.Prompt})
	}

	result, err := h.completions.Chat(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process chat request")
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

// Code submits the code prompt.
func (h *CompletionHandler) Code(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Prompt != nil {
		h.store.Update(settings.Patch{CodePrompt: req.Prompt})
	}

	result, err := h.completions.Code(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process code request")
		return
	}
	writeJSON(ctx, w, http.StatusOK, result)
}
