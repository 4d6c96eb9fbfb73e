// Package eventbus provides the in-process event bus used between services,
// the presenter and the visualizer loop.
package eventbus

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/ports"
)

// ErrClosed is returned by Close when the bus was already closed.
var ErrClosed = errors.New("event bus already closed")

// SyncEventBus delivers events on the publishing goroutine, in subscription order.
// Type-specific handlers run before wildcard handlers.
//
// Handlers may publish or subscribe from inside a handler: the subscriber
// list is copied before delivery, so a handler added during Publish only sees
// the next event.
type SyncEventBus struct {
	logger *slog.Logger

	mu       sync.RWMutex
	byType   map[domain.EventType][]subscription
	wildcard []subscription
	nextID   uint64
	closed   bool
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus.
// A nil logger discards handler panics silently.
func NewSyncEventBus(logger *slog.Logger) *SyncEventBus {
	return &SyncEventBus{
		logger: logger,
		byType: make(map[domain.EventType][]subscription),
	}
}

// SetLogger replaces the logger.
func (bus *SyncEventBus) SetLogger(logger *slog.Logger) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.logger = logger
}

// Publish delivers event to every matching handler. Publishing on a closed
// bus, or publishing nil, does nothing. A panicking handler is logged and
// does not stop delivery to the others.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	targets := make([]subscription, 0, len(bus.byType[event.Type()])+len(bus.wildcard))
	targets = append(targets, bus.byType[event.Type()]...)
	targets = append(targets, bus.wildcard...)
	logger := bus.logger
	bus.mu.RUnlock()

	for _, sub := range targets {
		deliver(logger, sub, event)
	}
}

func deliver(logger *slog.Logger, sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && logger != nil {
			logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("event_type", string(event.Type())),
				slog.String("subscription", string(sub.id)))
		}
	}()
	sub.handler(event)
}

// Subscribe registers a handler for events of the specified type.
// It panics on a nil handler and returns an empty ID on a closed bus.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("eventbus: nil handler")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.closed {
		return ""
	}

	bus.nextID++
	sub := subscription{id: domain.SubscriptionID(fmt.Sprintf("%s#%d", eventType, bus.nextID)), handler: handler}
	bus.byType[eventType] = append(bus.byType[eventType], sub)
	return sub.id
}

// SubscribeAll registers a handler that receives every event.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("eventbus: nil handler")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.closed {
		return ""
	}

	bus.nextID++
	sub := subscription{id: domain.SubscriptionID(fmt.Sprintf("*#%d", bus.nextID)), handler: handler}
	bus.wildcard = append(bus.wildcard, sub)
	return sub.id
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
// The relative order of the remaining handlers is preserved.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	if id == "" {
		return
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	match := func(s subscription) bool { return s.id == id }
	for eventType, subs := range bus.byType {
		if i := slices.IndexFunc(subs, match); i >= 0 {
			bus.byType[eventType] = slices.Delete(subs, i, i+1)
			return
		}
	}
	if i := slices.IndexFunc(bus.wildcard, match); i >= 0 {
		bus.wildcard = slices.Delete(bus.wildcard, i, i+1)
	}
}

// HasSubscribers reports whether anything would receive an event of this type.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.byType[eventType]) > 0 || len(bus.wildcard) > 0
}

// SubscriberCount returns the number of active subscriptions.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.wildcard)
	for _, subs := range bus.byType {
		count += len(subs)
	}
	return count
}

// Close drops all subscriptions. Closing twice returns ErrClosed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return ErrClosed
	}
	bus.closed = true
	bus.byType = make(map[domain.EventType][]subscription)
	bus.wildcard = nil
	return nil
}

var _ ports.EventBus = (*SyncEventBus)(nil)
