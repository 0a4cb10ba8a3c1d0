package style

import (
	"sort"
	"sync"

	"github.com/feedkit/feedkit/internal/notify"
	"github.com/feedkit/feedkit/internal/theme"
	feedkiterrors "github.com/feedkit/feedkit/pkg/errors"
)

// Factory computes the base styles of a component from a theme snapshot and
// the variant it is rendered with. Factories must be pure: the same inputs
// always yield the same slots.
type Factory func(theme.Theme, Variant) Slots

// Factories binds component names to their style factories.
type Factories struct {
	mu        sync.RWMutex
	factories map[ComponentName]Factory
	changes   notify.Broadcaster
}

// NewFactories returns an empty factory binding table.
func NewFactories() *Factories {
	return &Factories{factories: make(map[ComponentName]Factory)}
}

// RegisterFactory binds factory to component. Rebinding a name replaces the
// previous factory: the last registration wins, which lets theme packs
// redefine a component's base styling. A nil factory removes the binding.
func (f *Factories) RegisterFactory(component ComponentName, factory Factory) {
	f.mu.Lock()
	if factory == nil {
		delete(f.factories, component)
	} else {
		f.factories[component] = factory
	}
	f.mu.Unlock()

	f.changes.Publish()
}

// ResolveBase invokes the factory bound to component. It fails with
// *errors.UnboundComponentError when no factory was ever registered.
func (f *Factories) ResolveBase(component ComponentName, th theme.Theme, variant Variant) (Slots, error) {
	f.mu.RLock()
	factory, ok := f.factories[component]
	f.mu.RUnlock()

	if !ok {
		return nil, feedkiterrors.NewUnboundComponentError(string(component))
	}

	slots := factory(th, variant)
	if slots == nil {
		slots = Slots{}
	}
	return slots, nil
}

// Bound reports whether component has a factory.
func (f *Factories) Bound(component ComponentName) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.factories[component]
	return ok
}

// Components lists bound component names in sorted order.
func (f *Factories) Components() []ComponentName {
	f.mu.RLock()
	names := make([]ComponentName, 0, len(f.factories))
	for name := range f.factories {
		names = append(names, name)
	}
	f.mu.RUnlock()

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Version increases whenever a binding changes.
func (f *Factories) Version() uint64 {
	return f.changes.Version()
}

// Subscribe registers fn to run after every binding change.
func (f *Factories) Subscribe(fn func()) notify.Subscription {
	return f.changes.Subscribe(fn)
}
