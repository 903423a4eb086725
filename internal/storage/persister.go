package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"figma-gpt/internal/settings"
)

// SettingsSaver writes a settings document.
type SettingsSaver interface {
	Save(ctx context.Context, key string, s settings.Settings) error
}

// Persister writes settings changes to storage, coalescing bursts of
// changes (typing in the prompt) into one write per delay window.
type Persister struct {
	saver   SettingsSaver
	key     string
	delay   time.Duration
	onSaved func(settings.Settings)
	logger  *slog.Logger

	// saveMu keeps writes in the order the snapshots were taken.
	saveMu sync.Mutex

	mu      sync.Mutex
	pending *settings.Settings
	timer   *time.Timer
}

// NewPersister creates a Persister. A zero delay writes on every change.
// onSaved, if not nil, is called after each successful write.
func NewPersister(saver SettingsSaver, key string, delay time.Duration, onSaved func(settings.Settings)) *Persister {
	return &Persister{
		saver:   saver,
		key:     key,
		delay:   delay,
		onSaved: onSaved,
		logger:  slog.Default().With("component", "persister"),
	}
}

// SettingsChanged is a settings.Subscriber.
func (p *Persister) SettingsChanged(_, next settings.Settings) {
	p.mu.Lock()
	p.pending = &next
	if p.delay <= 0 {
		p.mu.Unlock()
		p.flush(context.Background())
		return
	}
	if p.timer == nil {
		p.timer = time.AfterFunc(p.delay, func() {
			p.flush(context.Background())
		})
	} else {
		p.timer.Reset(p.delay)
	}
	p.mu.Unlock()
}

// Flush writes any pending change immediately. It is called on shutdown.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.mu.Unlock()
	return p.flush(ctx)
}

func (p *Persister) flush(ctx context.Context) error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	if pending == nil {
		return nil
	}

	if err := p.saver.Save(ctx, p.key, *pending); err != nil {
		p.logger.ErrorContext(ctx, "failed to persist settings", "key", p.key, "error", err)
		return err
	}
	p.logger.DebugContext(ctx, "settings persisted", "key", p.key)
	if p.onSaved != nil {
		p.onSaved(*pending)
	}
	return nil
}
