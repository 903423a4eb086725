package host

import (
	"context"
	"sync"

	"figma-gpt/internal/contextutil"
	"figma-gpt/internal/settings"
)

// EventName identifies a message crossing the plugin/UI boundary.
type EventName string

const (
	EventNotify       EventName = "NOTIFY"
	EventResizeWindow EventName = "RESIZE_WINDOW"
	EventLoadSettings EventName = "LOAD_SETTINGS"
	EventSaveSettings EventName = "SAVE_SETTINGS"
	EventSettings     EventName = "SETTINGS"
)

// Event is one message on the bus.
type Event struct {
	Name    EventName `json:"name"`
	Payload any       `json:"payload"`
}

// Notification is a transient user-facing message.
type Notification struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// WindowSize is the requested plugin window size.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Bus fans events out to subscribers. Slow subscribers miss events rather
// than block the emitter.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	buffer int
	window WindowSize
}

// NewBus creates a bus whose subscriber channels hold buffer events. window
// is the size requested whenever the layout changes.
func NewBus(buffer int, window WindowSize) *Bus {
	if buffer <= 0 {
		buffer = 1
	}
	return &Bus{
		subs:   make(map[uint64]chan Event),
		buffer: buffer,
		window: window,
	}
}

// Subscribe returns a channel of events and a function that closes it.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Emit delivers e to every subscriber without blocking.
func (b *Bus) Emit(ctx context.Context, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "dropping event for slow subscriber", "event", e.Name)
		}
	}
}

// Notify shows a transient message to the user.
func (b *Bus) Notify(ctx context.Context, message string, isError bool) {
	logger := contextutil.LoggerFromContext(ctx)
	if isError {
		logger.WarnContext(ctx, "notify", "message", message, "error", true)
	} else {
		logger.DebugContext(ctx, "notify", "message", message)
	}
	b.Emit(ctx, Event{Name: EventNotify, Payload: Notification{Message: message, Error: isError}})
}

// ResizeWindow asks the host to resize the plugin window.
func (b *Bus) ResizeWindow(ctx context.Context, size WindowSize) {
	b.Emit(ctx, Event{Name: EventResizeWindow, Payload: size})
}

// SettingsChanged is a settings.Subscriber that mirrors every change to the
// UI and requests a resize when a layout-affecting field changed.
func (b *Bus) SettingsChanged(prev, next settings.Settings) {
	ctx := context.Background()
	b.Emit(ctx, Event{Name: EventSettings, Payload: next})
	if settings.LayoutChanged(prev, next) {
		b.ResizeWindow(ctx, b.window)
	}
}

// SettingsSaved reports a completed persistence write.
func (b *Bus) SettingsSaved(saved settings.Settings) {
	b.Emit(context.Background(), Event{Name: EventSaveSettings, Payload: saved})
}
