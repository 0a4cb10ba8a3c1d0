package style

import (
	"github.com/feedkit/feedkit/internal/theme"
)

// Recorder observes style resolutions. internal/metrics provides the
// Prometheus-backed implementation.
type Recorder interface {
	ObserveResolution(component string, overridden int, err error)
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithRecorder attaches a resolution recorder.
func WithRecorder(rec Recorder) ResolverOption {
	return func(r *Resolver) {
		r.recorder = rec
	}
}

// Resolver combines base styles from the factory table with overrides from
// the registry. It keeps no state of its own: every call reads the current
// contents of both tables, so an override set before the next render pass is
// visible on that pass.
type Resolver struct {
	factories *Factories
	overrides *Registry
	recorder  Recorder
}

// NewResolver returns a resolver reading from factories and overrides.
func NewResolver(factories *Factories, overrides *Registry, opts ...ResolverOption) *Resolver {
	r := &Resolver{factories: factories, overrides: overrides}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the final slot styles for component. For every slot the
// factory produces, a registered override is shallow-merged over the base
// fragment: override properties win, base properties absent from the
// override are kept. Overrides for slots the factory does not produce are
// ignored.
func (r *Resolver) Resolve(component ComponentName, variant Variant, th theme.Theme) (Slots, error) {
	base, err := r.factories.ResolveBase(component, th, variant)
	if err != nil {
		r.observe(component, 0, err)
		return nil, err
	}

	resolved := make(Slots, len(base))
	overridden := 0
	for slot, fragment := range base {
		override, ok := r.overrides.Override(component, slot)
		if !ok {
			resolved[slot] = fragment.Clone()
			continue
		}
		resolved[slot] = Merge(fragment, override)
		overridden++
	}

	r.observe(component, overridden, nil)
	return resolved, nil
}

// MustResolve is Resolve for components whose factory is bound during
// program initialisation. A missing factory is a programming error and panics.
func (r *Resolver) MustResolve(component ComponentName, variant Variant, th theme.Theme) Slots {
	slots, err := r.Resolve(component, variant, th)
	if err != nil {
		panic(err)
	}
	return slots
}

// Factories exposes the factory table the resolver reads from.
func (r *Resolver) Factories() *Factories {
	return r.factories
}

// Overrides exposes the override registry the resolver reads from.
func (r *Resolver) Overrides() *Registry {
	return r.overrides
}

func (r *Resolver) observe(component ComponentName, overridden int, err error) {
	if r.recorder == nil {
		return
	}
	r.recorder.ObserveResolution(string(component), overridden, err)
}
