package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"figma-gpt/internal/handlers"
	"figma-gpt/internal/host"
	"figma-gpt/internal/render"
	"figma-gpt/internal/service"
	"figma-gpt/internal/settings"
	"figma-gpt/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Store       *settings.Store
	Completions service.CompletionService
	Bus         *host.Bus
	Models      handlers.ModelLister
	History     storage.CompletionStore
	DB          handlers.Pinger
	Renderer    *render.Renderer
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// Add CORS middleware
	r.Use(CORS)

	renderer := deps.Renderer
	if renderer == nil {
		renderer = render.NewRenderer()
	}

	settingsHandler := handlers.NewSettingsHandler(deps.Store, deps.Bus)
	completionHandler := handlers.NewCompletionHandler(deps.Completions, deps.Store)
	messagesHandler := handlers.NewMessagesHandler(deps.Store, renderer, deps.Bus)
	windowHandler := handlers.NewWindowHandler(deps.Bus)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", settingsHandler.Get)
		r.Patch("/settings", settingsHandler.Patch)
		r.Post("/settings/reset", settingsHandler.Reset)
		r.Method(http.MethodGet, "/models", handlers.NewModelsHandler(deps.Models, deps.Store))

		r.Post("/chat/completions", completionHandler.Chat)
		r.Get("/chat/messages", messagesHandler.List)
		r.Delete("/chat/messages", messagesHandler.Clear)

		r.Post("/code/completions", completionHandler.Code)
		r.Delete("/code", settingsHandler.ClearCode)

		r.Post("/window/resize", windowHandler.Resize)
		r.Method(http.MethodGet, "/events", handlers.NewEventsHandler(deps.Bus, deps.Store))
		r.Method(http.MethodGet, "/completions", handlers.NewHistoryHandler(deps.History))
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB, deps.Models, deps.Store))
	})

	return r
}
