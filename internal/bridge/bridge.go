// Package bridge propagates consent decisions to downstream integrations. It
// is the server-side mirror of the client runtime: subscribers receive the
// saved decision, the signal helpers translate it into third-party consent
// APIs, and the reload policy decides whether the page must re-render.
package bridge

import (
	"context"
	"log/slog"
	"sync"

	"cookiegate/internal/consent/models"
)

// Event is the payload delivered on every consent change.
type Event struct {
	Categories map[models.Category]bool
	ActionType models.ActionType
}

// Subscriber receives consent change events. Delivery order between
// subscribers is unspecified; the state seen is at least as fresh as the save
// that triggered it.
type Subscriber func(ctx context.Context, event Event)

// Dispatcher fans consent events out to subscribers.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	logger      *slog.Logger
}

// NewDispatcher constructs an empty dispatcher.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Subscribe registers a subscriber for all subsequent events.
func (d *Dispatcher) Subscribe(subscriber Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, subscriber)
}

// Publish delivers the event to every subscriber synchronously. A panicking
// subscriber is isolated so the save path survives.
func (d *Dispatcher) Publish(ctx context.Context, event Event) {
	d.mu.RLock()
	subscribers := make([]Subscriber, len(d.subscribers))
	copy(subscribers, d.subscribers)
	d.mu.RUnlock()

	for _, subscriber := range subscribers {
		func() {
			defer func() {
				if rec := recover(); rec != nil && d.logger != nil {
					d.logger.ErrorContext(ctx, "consent subscriber panicked", "panic", rec)
				}
			}()
			subscriber(ctx, event)
		}()
	}
}
