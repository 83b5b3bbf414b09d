package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Dispatcher delivers a named profile event.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, ev *ProfileEvent) error
}

// Listener observes one event name on a Bus.
type Listener func(ctx context.Context, ev *ProfileEvent) error

// Bus is a synchronous in-process dispatcher. Listeners run in subscription
// order; the first error stops delivery and is returned.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]Listener)}
}

// Subscribe registers l for every name given.
func (b *Bus) Subscribe(l Listener, names ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, name := range names {
		b.listeners[name] = append(b.listeners[name], l)
	}
}

// Dispatch runs the listeners of name.
func (b *Bus) Dispatch(ctx context.Context, name string, ev *ProfileEvent) error {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[name]...)
	b.mu.RUnlock()

	for _, l := range listeners {
		if err := l(ctx, ev); err != nil {
			return fmt.Errorf("events: %s listener: %w", name, err)
		}
	}
	return nil
}

// Multi fans an event out to every dispatcher and joins their errors.
type Multi []Dispatcher

func (m Multi) Dispatch(ctx context.Context, name string, ev *ProfileEvent) error {
	var errs []error
	for _, d := range m {
		if d == nil {
			continue
		}
		if err := d.Dispatch(ctx, name, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
