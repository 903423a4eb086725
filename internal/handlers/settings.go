package handlers

import (
	"fmt"
	"net/http"

	"figma-gpt/internal/contextutil"
	"figma-gpt/internal/service"
	"figma-gpt/internal/settings"
)

// Notification texts.
const (
	MessageConversationCleared = "Conversation cleared."
	MessageParametersReset     = "Parameters reset."
)

// SettingsHandler serves the settings record.
type SettingsHandler struct {
	store    *settings.Store
	notifier service.Notifier
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store *settings.Store, notifier service.Notifier) *SettingsHandler {
	return &SettingsHandler{
		store:    store,
		notifier: notifier,
	}
}

// Get returns the current settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.store.Read())
}

// Patch merges the request body into the settings. Sampling parameters are
// range checked and max-token budgets are clamped to the selected model.
func (h *SettingsHandler) Patch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var p settings.Patch
	if err := decodeJSON(r, &p); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// Owned by the completion service.
	p.Loading = nil

	next, err := h.store.Modify(func(cur *settings.Settings) error {
		p.Apply(cur)
		return validatePatch(p, cur)
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update settings")
		return
	}

	writeJSON(ctx, w, http.StatusOK, next)
}

// Reset restores the sampling parameters to their defaults.
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	next := h.store.Update(settings.ResetParameters())
	h.notifier.Notify(ctx, MessageParametersReset, false)
	writeJSON(ctx, w, http.StatusOK, next)
}

// ClearCode empties the code prompt and result.
func (h *SettingsHandler) ClearCode(w http.ResponseWriter, r *http.Request) {
	next := h.store.Update(settings.ClearCode())
	writeJSON(r.Context(), w, http.StatusOK, next)
}

// validatePatch checks the fields set by p against the merged settings s.
// A model change lowers the matching budget unless the budget was set too.
func validatePatch(p settings.Patch, s *settings.Settings) error {
	checks := []struct {
		field    string
		set      bool
		value    float64
		min, max float64
	}{
		{"temperature", p.Temperature != nil, s.Temperature, 0, 2},
		{"topP", p.TopP != nil, s.TopP, 0, 1},
		{"frequencyPenalty", p.FrequencyPenalty != nil, s.FrequencyPenalty, -2, 2},
		{"presencePenalty", p.PresencePenalty != nil, s.PresencePenalty, -2, 2},
	}
	for _, c := range checks {
		if c.set && (c.value < c.min || c.value > c.max) {
			return &service.ValidationError{
				Field:   c.field,
				Message: fmt.Sprintf("must be between %g and %g", c.min, c.max),
			}
		}
	}

	if err := validateBudget(settings.KindChat, p.ChatModel, p.ChatMaxTokens, s.ChatModel, s); err != nil {
		return err
	}
	return validateBudget(settings.KindCode, p.CodeModel, p.CodeMaxTokens, s.CodeModel, s)
}

func validateBudget(kind settings.Kind, modelPatch *string, tokensPatch *int, modelID string, s *settings.Settings) error {
	modelField, tokensField := "chatModel", "chatMaxTokens"
	tokens := s.ChatMaxTokens
	if kind == settings.KindCode {
		modelField, tokensField = "codeModel", "codeMaxTokens"
		tokens = s.CodeMaxTokens
	}

	model, ok := settings.LookupModel(modelID)
	if modelPatch != nil && (!ok || model.Kind != kind) {
		return &service.ValidationError{Field: modelField, Message: fmt.Sprintf("unknown %s model %q", kind, modelID)}
	}

	if tokensPatch != nil {
		limit := 0
		if ok {
			limit = model.MaxTokens
		}
		if tokens < 1 {
			return &service.ValidationError{Field: tokensField, Message: "must be at least 1"}
		}
		if limit > 0 && tokens > limit {
			return &service.ValidationError{Field: tokensField, Message: fmt.Sprintf("must be between 1 and %d", limit)}
		}
		return nil
	}

	if modelPatch != nil {
		settings.ClampMaxTokens(s, kind)
	}
	return nil
}
