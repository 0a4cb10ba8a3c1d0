// Package notify implements the change-notification contract shared by the
// style and extension registries. Every mutation bumps a version counter and
// synchronously calls the registered listeners, outside of any registry lock.
package notify

import (
	"sync"
	"sync/atomic"
)

// Listener is invoked after a registry mutation.
type Listener func()

// Subscription represents a registered listener. Callers invoke Unsubscribe to
// stop receiving notifications.
type Subscription interface {
	Unsubscribe()
}

// Broadcaster tracks a version counter and its listeners. The zero value is
// ready to use.
type Broadcaster struct {
	version atomic.Uint64

	mu        sync.Mutex
	nextID    int
	listeners []listenerEntry
}

type listenerEntry struct {
	id int
	fn Listener
}

// Version returns the number of changes published so far.
func (b *Broadcaster) Version() uint64 {
	return b.version.Load()
}

// Subscribe registers fn for future changes.
func (b *Broadcaster) Subscribe(fn Listener) Subscription {
	if fn == nil {
		return noopSubscription{}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, listenerEntry{id: id, fn: fn})
	b.mu.Unlock()

	return &subscription{cancel: func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, entry := range b.listeners {
			if entry.id == id {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}}
}

// Publish bumps the version and notifies listeners in subscription order.
func (b *Broadcaster) Publish() uint64 {
	version := b.version.Add(1)

	b.mu.Lock()
	listeners := append([]listenerEntry(nil), b.listeners...)
	b.mu.Unlock()

	for _, entry := range listeners {
		entry.fn()
	}
	return version
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}
