package handlers

import (
	"net/http"

	"figma-gpt/internal/contextutil"
	"figma-gpt/internal/render"
	"figma-gpt/internal/service"
	"figma-gpt/internal/settings"
)

// MessagesHandler serves the chat history.
type MessagesHandler struct {
	store    *settings.Store
	renderer *render.Renderer
	notifier service.Notifier
}

// NewMessagesHandler creates a new MessagesHandler.
func NewMessagesHandler(store *settings.Store, renderer *render.Renderer, notifier service.Notifier) *MessagesHandler {
	return &MessagesHandler{
		store:    store,
		renderer: renderer,
		notifier: notifier,
	}
}

// MessagesResponse is the chat history with its token counter.
type MessagesResponse struct {
	Messages    []settings.ChatMessage `json:"messages"`
	TotalTokens int                    `json:"totalTokens"`
}

// RenderedMessagesResponse is the chat history rendered to HTML.
type RenderedMessagesResponse struct {
	Messages    []render.RenderedMessage `json:"messages"`
	TotalTokens int                      `json:"totalTokens"`
}

// List returns the chat history. With ?format=html every message also
// carries its markdown rendered to HTML.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	cur := h.store.Read()

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(ctx, w, http.StatusOK, MessagesResponse{
			Messages:    cur.ChatMessages,
			TotalTokens: cur.ChatTotalTokens,
		})
	case "html":
		rendered, err := h.renderer.RenderMessages(cur.ChatMessages)
		if err != nil {
			logger.ErrorContext(ctx, "failed to render messages", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to render messages")
			return
		}
		writeJSON(ctx, w, http.StatusOK, RenderedMessagesResponse{
			Messages:    rendered,
			TotalTokens: cur.ChatTotalTokens,
		})
	default:
		logger.WarnContext(ctx, "unsupported format", "format", format)
		writeError(w, http.StatusBadRequest, "format must be json or html")
	}
}

// Clear empties the conversation.
func (h *MessagesHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.store.Update(settings.ClearConversation())
	h.notifier.Notify(ctx, MessageConversationCleared, false)
	w.WriteHeader(http.StatusNoContent)
}
