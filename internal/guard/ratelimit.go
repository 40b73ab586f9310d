package guard

import (
	"sync"
	"time"
)

// Window is one fixed-window counter.
type Window struct {
	Count int
	Start time.Time
}

// CounterStore persists window counters per logical key.
type CounterStore interface {
	Load(key string) (Window, bool, error)
	Save(key string, w Window) error
}

// FixedWindow allows up to max actions per window per key. The window
// resets once it elapses. Storage failures fail open: the action is
// allowed rather than blocking legitimate traffic on a broken counter.
type FixedWindow struct {
	store  CounterStore
	max    int
	window time.Duration
	now    func() time.Time
}

// NewFixedWindow builds a limiter over the given counter store.
func NewFixedWindow(store CounterStore, max int, window time.Duration) *FixedWindow {
	return &FixedWindow{store: store, max: max, window: window, now: time.Now}
}

// SetClock overrides the time source for tests.
func (l *FixedWindow) SetClock(fn func() time.Time) {
	if fn != nil {
		l.now = fn
	}
}

// Allow records one action for key and reports whether it is within the
// limit. The max-th action in a window is allowed; the next one is not.
func (l *FixedWindow) Allow(key string) bool {
	if l == nil || l.store == nil {
		return true
	}
	w, ok, err := l.store.Load(key)
	if err != nil {
		return true
	}
	now := l.now()
	if !ok || now.Sub(w.Start) >= l.window {
		w = Window{Start: now}
	}
	if w.Count >= l.max {
		return false
	}
	w.Count++
	if err := l.store.Save(key, w); err != nil {
		return true
	}
	return true
}

// MemoryCounterStore keeps counters in process memory.
type MemoryCounterStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

// NewMemoryCounterStore creates an empty counter store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{windows: make(map[string]Window)}
}

func (s *MemoryCounterStore) Load(key string) (Window, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[key]
	return w, ok, nil
}

func (s *MemoryCounterStore) Save(key string, w Window) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[key] = w
	return nil
}
