package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"figma-gpt/internal/settings"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// SettingsRepo stores Settings documents keyed by name.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo creates a new SettingsRepo.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Load reads the settings stored under key. Fields missing from the stored
// document keep their default values. Returns ErrNotFound if nothing is
// stored yet. The loading flag is never restored.
func (r *SettingsRepo) Load(ctx context.Context, key string) (settings.Settings, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return settings.Settings{}, ErrNotFound
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}

	s := settings.Defaults()
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return settings.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if s.ChatMessages == nil {
		s.ChatMessages = []settings.ChatMessage{}
	}
	s.Loading = false
	return s, nil
}

// LoadOrDefault is Load that falls back to settings.Defaults when nothing is stored.
func (r *SettingsRepo) LoadOrDefault(ctx context.Context, key string) (settings.Settings, error) {
	s, err := r.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return settings.Defaults(), nil
	}
	return s, err
}

// Save writes s under key, replacing any previous document.
func (r *SettingsRepo) Save(ctx context.Context, key string, s settings.Settings) error {
	s.Loading = false
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
