package handlers

import (
	"context"
	"net/http"

	"figma-gpt/internal/llm"
	"figma-gpt/internal/settings"
)

// ModelLister lists the models available to an API key.
type ModelLister interface {
	ListModels(ctx context.Context, apiKey string) ([]llm.ModelInfo, error)
}

// ModelsHandler serves the model catalog.
type ModelsHandler struct {
	lister ModelLister
	store  *settings.Store
}

// NewModelsHandler creates a new ModelsHandler.
func NewModelsHandler(lister ModelLister, store *settings.Store) *ModelsHandler {
	return &ModelsHandler{
		lister: lister,
		store:  store,
	}
}

// ModelsResponse is the selectable models per tab.
type ModelsResponse struct {
	Chat []settings.Model `json:"chat"`
	Code []settings.Model `json:"code"`
	// Available is set with ?remote=true: the ids the upstream API reports
	// for the stored key.
	Available []string `json:"available,omitempty"`
}

// ServeHTTP returns the catalog, optionally with the upstream model list.
func (h *ModelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := ModelsResponse{
		Chat: settings.ChatModels,
		Code: settings.CodeModels,
	}

	if r.URL.Query().Get("remote") == "true" {
		apiKey := h.store.Read().APIKey
		if apiKey == "" {
			writeError(w, http.StatusBadRequest, "An API key is required to list remote models")
			return
		}
		models, err := h.lister.ListModels(ctx, apiKey)
		if err != nil {
			handleServiceError(w, ctx, err, "Failed to list models")
			return
		}
		resp.Available = make([]string, 0, len(models))
		for _, m := range models {
			resp.Available = append(resp.Available, m.ID)
		}
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
