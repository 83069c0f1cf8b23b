package config

import "sync"

// Change is a settings change event.
type Change struct {
	// Old is the previous settings value.
	Old Config

	// New is the applied settings value.
	New Config

	// Source identifies where the change came from ("ui", "file", ...).
	Source string
}

// Observer is called synchronously when settings change, so dependent
// visual constants can be re-derived before the next render.
type Observer func(change Change)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this observer.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
		s.notifier = nil
	}
}

// Notifier owns the current settings value and its observers.
type Notifier struct {
	mu sync.RWMutex

	current   Config
	observers map[uint64]Observer
	nextID    uint64
}

// NewNotifier creates a notifier holding the given initial settings.
func NewNotifier(initial Config) *Notifier {
	return &Notifier{
		current:   initial,
		observers: make(map[uint64]Observer),
	}
}

// Current returns the current settings value.
func (n *Notifier) Current() Config {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// Subscribe registers an observer for future changes.
func (n *Notifier) Subscribe(obs Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.observers[id] = obs
	return &Subscription{id: id, notifier: n}
}

// Apply validates and installs new settings, notifying observers
// synchronously. Invalid settings are rejected and nothing changes.
func (n *Notifier) Apply(cfg Config, source string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	n.mu.Lock()
	old := n.current
	if old == cfg {
		n.mu.Unlock()
		return nil
	}
	n.current = cfg
	observers := make([]Observer, 0, len(n.observers))
	for _, obs := range n.observers {
		observers = append(observers, obs)
	}
	n.mu.Unlock()

	change := Change{Old: old, New: cfg, Source: source}
	for _, obs := range observers {
		obs(change)
	}
	return nil
}

// unsubscribe removes an observer by id.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}
