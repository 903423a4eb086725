package handlers

import (
	"net/http"
	"strconv"
	"time"

	"figma-gpt/internal/service"
	"figma-gpt/internal/storage"
)

const maxHistoryLimit = 200

// HistoryHandler lists recorded completions.
type HistoryHandler struct {
	completions storage.CompletionStore
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(completions storage.CompletionStore) *HistoryHandler {
	return &HistoryHandler{completions: completions}
}

// CompletionEntry is one row of the completion log in the HTTP response.
type CompletionEntry struct {
	ID           string `json:"id"`
	Mode         string `json:"mode"`
	Model        string `json:"model"`
	State        string `json:"state"`
	TotalTokens  int    `json:"total_tokens"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// HistoryResponse is the completion log, newest first.
type HistoryResponse struct {
	Completions []CompletionEntry `json:"completions"`
}

// ServeHTTP handles GET /api/completions?limit=N.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	completions, err := h.completions.ListRecent(ctx, limit)
	if err != nil {
		handleServiceError(w, ctx, service.WrapError(err, "list completions"), "Failed to list completions")
		return
	}
	resp := HistoryResponse{Completions: make([]CompletionEntry, 0, len(completions))}
	for _, c := range completions {
		resp.Completions = append(resp.Completions, CompletionEntry{
			ID:           c.ID,
			Mode:         c.Mode,
			Model:        c.Model,
			State:        c.State,
			TotalTokens:  c.TotalTokens,
			ErrorMessage: c.ErrorMessage,
			CreatedAt:    c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}
