package settings

import (
	"sort"
	"sync"
)

// Subscriber is called after every change with the previous and the new
// snapshot. Subscribers must not call Update or Modify on the same store.
type Subscriber func(prev, next Settings)

// Store holds the current Settings and notifies subscribers of changes.
// All methods are safe for concurrent use; writes are applied in the order
// they acquire the store and the last write wins.
type Store struct {
	// notifyMu serialises whole write+notify cycles so subscribers observe
	// snapshots in the order they were produced.
	notifyMu sync.Mutex

	mu      sync.RWMutex
	current Settings
	subs    map[uint64]Subscriber
	nextID  uint64
}

// NewStore creates a Store holding initial.
func NewStore(initial Settings) *Store {
	return &Store{
		current: initial.Clone(),
		subs:    make(map[uint64]Subscriber),
	}
}

// Read returns a snapshot of the current settings.
func (s *Store) Read() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Update shallow-merges p into the current settings, notifies subscribers
// and returns the new snapshot. No validation is performed.
func (s *Store) Update(p Patch) Settings {
	next, _ := s.Modify(func(cur *Settings) error {
		p.Apply(cur)
		return nil
	})
	return next
}

// Modify runs fn against a copy of the current settings and commits the
// result if fn returns nil. Subscribers are only notified on commit.
func (s *Store) Modify(fn func(*Settings) error) (Settings, error) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	prev := s.current.Clone()
	next := prev.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return prev, err
	}
	s.current = next.Clone()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(prev.Clone(), next.Clone())
	}
	return next, nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// subscribersLocked returns subscribers in registration order.
func (s *Store) subscribersLocked() []Subscriber {
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Subscriber, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subs[id])
	}
	return out
}
