package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completion_store.go -package=mocks figma-gpt/internal/storage CompletionStore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// CompletionStore defines the interface for the completion log.
type CompletionStore interface {
	// Record appends c to the log. An empty ID is filled with a new UUID.
	Record(ctx context.Context, c *Completion) error
	// ListRecent returns at most limit rows, newest first.
	ListRecent(ctx context.Context, limit int) ([]Completion, error)
}

// CompletionRepo provides methods for the completion log.
// It implements the CompletionStore interface.
type CompletionRepo struct {
	db *sql.DB
}

// NewCompletionRepo creates a new CompletionRepo.
func NewCompletionRepo(db *sql.DB) *CompletionRepo {
	return &CompletionRepo{db: db}
}

// Record appends c to the log.
func (r *CompletionRepo) Record(ctx context.Context, c *Completion) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO completions (id, mode, model, state, total_tokens, error_message)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Mode, c.Model, c.State, c.TotalTokens, c.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}
	return nil
}

// ListRecent returns at most limit rows, newest first.
func (r *CompletionRepo) ListRecent(ctx context.Context, limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, mode, model, state, total_tokens, error_message, created_at
		 FROM completions ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var c Completion
		if err := rows.Scan(&c.ID, &c.Mode, &c.Model, &c.State, &c.TotalTokens, &c.ErrorMessage, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
