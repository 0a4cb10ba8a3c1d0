package style

import (
	"sort"
	"sync"

	"github.com/feedkit/feedkit/internal/notify"
)

// Registry stores override fragments keyed by (component, slot). At most one
// fragment is stored per key; SetOverride replaces the previous fragment in
// full rather than merging into it.
//
// Writers are expected to run during plugin setup or in response to a
// discrete user action, never from inside a style resolution. Such reentrant
// writes do not deadlock but their ordering relative to the running
// resolution is undefined.
type Registry struct {
	mu        sync.RWMutex
	overrides map[Key]Fragment
	changes   notify.Broadcaster
}

// NewRegistry returns an empty override registry.
func NewRegistry() *Registry {
	return &Registry{overrides: make(map[Key]Fragment)}
}

// SetOverride stores a copy of fragment under (component, slot),
// unconditionally replacing any prior value.
func (r *Registry) SetOverride(component ComponentName, slot SlotName, fragment Fragment) {
	r.mu.Lock()
	r.overrides[Key{Component: component, Slot: slot}] = fragment.Clone()
	r.mu.Unlock()

	r.changes.Publish()
}

// Override returns a copy of the fragment stored for (component, slot).
func (r *Registry) Override(component ComponentName, slot SlotName) (Fragment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	frag, ok := r.overrides[Key{Component: component, Slot: slot}]
	if !ok {
		return nil, false
	}
	return frag.Clone(), true
}

// ClearOverride removes the fragment for (component, slot) if present.
func (r *Registry) ClearOverride(component ComponentName, slot SlotName) {
	key := Key{Component: component, Slot: slot}

	r.mu.Lock()
	_, existed := r.overrides[key]
	delete(r.overrides, key)
	r.mu.Unlock()

	if existed {
		r.changes.Publish()
	}
}

// ClearAll drops every override. Intended for test isolation.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	existed := len(r.overrides) > 0
	r.overrides = make(map[Key]Fragment)
	r.mu.Unlock()

	if existed {
		r.changes.Publish()
	}
}

// Keys returns all keys holding an override, sorted by component then slot.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	keys := make([]Key, 0, len(r.overrides))
	for key := range r.overrides {
		keys = append(keys, key)
	}
	r.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })
	return keys
}

// Len returns the number of stored overrides.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.overrides)
}

// Version increases on every mutation. Hosts compare it across render passes.
func (r *Registry) Version() uint64 {
	return r.changes.Version()
}

// Subscribe registers fn to run after every mutation.
func (r *Registry) Subscribe(fn func()) notify.Subscription {
	return r.changes.Subscribe(fn)
}
