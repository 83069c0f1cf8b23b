// Package event provides the synchronous topic bus connecting the host
// to the annotation engine. All engine work runs on the host's update
// cycle, so delivery is in-line and ordered; there are no worker pools
// or queues.
package event

import (
	"errors"
	"sync"
)

// ErrNilHandler is returned when subscribing with a nil handler.
var ErrNilHandler = errors.New("event: nil handler")

// Topic identifies an event stream.
type Topic string

// Engine topics.
const (
	// TopicDocumentChanged fires after the document text changes.
	TopicDocumentChanged Topic = "document.changed"

	// TopicViewportChanged fires after scroll or resize changes the
	// visible windows.
	TopicViewportChanged Topic = "viewport.changed"

	// TopicSelectionChanged fires after cursor or selection movement.
	TopicSelectionChanged Topic = "selection.changed"

	// TopicConfigChanged fires after settings are applied.
	TopicConfigChanged Topic = "config.changed"
)

// Handler receives published events.
type Handler func(topic Topic, payload any)

// Subscription is an active bus subscription.
type Subscription struct {
	id    uint64
	topic Topic
	bus   *Bus
}

// Unsubscribe removes this subscription from the bus.
func (s *Subscription) Unsubscribe() {
	if s.bus != nil {
		s.bus.unsubscribe(s.topic, s.id)
		s.bus = nil
	}
}

// Bus is a synchronous topic bus. Handlers run in subscription order on
// the publishing goroutine; a panicking handler is recovered so one
// broken subscriber cannot take down the update cycle.
type Bus struct {
	mu sync.RWMutex

	subs   map[Topic][]busEntry
	nextID uint64

	// panicHandler observes recovered handler panics. Optional.
	panicHandler func(topic Topic, recovered any)
}

type busEntry struct {
	id      uint64
	handler Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]busEntry)}
}

// SetPanicHandler installs an observer for recovered handler panics.
func (b *Bus) SetPanicHandler(fn func(topic Topic, recovered any)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.panicHandler = fn
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], busEntry{id: id, handler: handler})

	return &Subscription{id: id, topic: topic, bus: b}, nil
}

// Publish delivers an event to every subscriber of the topic, in
// subscription order, synchronously.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	entries := make([]busEntry, len(b.subs[topic]))
	copy(entries, b.subs[topic])
	panicHandler := b.panicHandler
	b.mu.RUnlock()

	for _, e := range entries {
		b.deliver(topic, payload, e.handler, panicHandler)
	}
}

// SubscriberCount returns the number of subscribers for a topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// deliver invokes one handler with panic recovery.
func (b *Bus) deliver(topic Topic, payload any, h Handler, panicHandler func(Topic, any)) {
	defer func() {
		if r := recover(); r != nil && panicHandler != nil {
			panicHandler(topic, r)
		}
	}()
	h(topic, payload)
}

// unsubscribe removes a subscription by id.
func (b *Bus) unsubscribe(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.subs[topic]
	for i, e := range entries {
		if e.id == id {
			b.subs[topic] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}
