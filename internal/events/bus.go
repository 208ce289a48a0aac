// Package events delivers favourite-change notifications to independent
// subscribers.
package events

import (
	"log"
	"sync"
	"time"

	"github.com/mrlokans/postbrowser/internal/entities"
)

// FavouriteEvent is published whenever a user's favourites change.
type FavouriteEvent struct {
	Type     entities.FavouriteEventType
	UserID   string
	Identity entities.PostIdentity
	At       time.Time
}

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine and should not block.
type Handler func(FavouriteEvent)

// Publisher is the publishing side of the bus.
type Publisher interface {
	Publish(evt FavouriteEvent)
}

// Bus is a concurrency-safe fan-out of favourite events.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[uint64]Handler)}
}

// Subscribe registers h and returns a function that removes it. The returned
// function is safe to call more than once.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers evt to every current subscriber. A panicking subscriber is
// logged and does not prevent delivery to the others.
func (b *Bus) Publish(evt FavouriteEvent) {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(h, evt)
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func deliver(h Handler, evt FavouriteEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EVENTS] Subscriber panicked on %s event for %s: %v", evt.Type, evt.Identity, r)
		}
	}()
	h(evt)
}
