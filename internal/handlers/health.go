package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"figma-gpt/internal/contextutil"
	"figma-gpt/internal/settings"
)

// Pinger checks a connection, as *sql.DB does.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	db                 Pinger
	lister             ModelLister
	store              *settings.Store
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, lister ModelLister, store *settings.Store) *HealthHandler {
	return &HealthHandler{
		db:                 db,
		lister:             lister,
		store:              store,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// The database is always checked. The OpenAI API is only checked with
// ?deep=true since it costs a round trip; a failure there degrades the
// status without making it unhealthy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Create context with timeout for health checks
	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string
	status := "healthy"
	httpStatus := http.StatusOK

	if h.checkDatabase(checkCtx, logger) {
		checks["database"] = "ok"
	} else {
		checks["database"] = "error"
		issues = append(issues, "database_unavailable")
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	if r.URL.Query().Get("deep") == "true" {
		switch h.checkOpenAI(checkCtx, logger) {
		case "ok":
			checks["openai"] = "ok"
		case "skipped":
			checks["openai"] = "skipped"
		default:
			checks["openai"] = "error"
			issues = append(issues, "openai_unavailable")
			if status == "healthy" {
				status = "degraded"
				httpStatus = http.StatusServiceUnavailable
			}
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if len(issues) > 0 {
		response.Issues = issues
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}

// checkDatabase checks if the database is accessible.
func (h *HealthHandler) checkDatabase(ctx context.Context, logger *slog.Logger) bool {
	if err := h.db.PingContext(ctx); err != nil {
		logger.WarnContext(ctx, "database health check failed", "error", err)
		return false
	}
	return true
}

// checkOpenAI lists models with the stored key. Without a key there is
// nothing to check.
func (h *HealthHandler) checkOpenAI(ctx context.Context, logger *slog.Logger) string {
	apiKey := h.store.Read().APIKey
	if apiKey == "" {
		return "skipped"
	}
	if _, err := h.lister.ListModels(ctx, apiKey); err != nil {
		logger.WarnContext(ctx, "openai health check failed", "error", err)
		return "error"
	}
	return "ok"
}
