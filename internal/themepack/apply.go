package themepack

import (
	"errors"
	"sort"
	"sync"

	"github.com/feedkit/feedkit/internal/plugin"
)

// ApplyResult summarises one Apply.
type ApplyResult struct {
	// Applied holds the packs whose overrides were replaced.
	Applied []*Pack
	// Skipped names packs on disk that are not loaded plugins. Their
	// overrides wait for the next bootstrap.
	Skipped []string
	Set     int
	Cleared int
}

// Applier re-applies pack overrides on reload through the plugin loader, so
// that load order decides which plugin owns a style key.
type Applier struct {
	mu      sync.Mutex
	loader  *plugin.Loader
	tracked map[string]struct{}
}

// NewApplier returns an applier replacing overrides through loader.
func NewApplier(loader *plugin.Loader) *Applier {
	return &Applier{loader: loader, tracked: make(map[string]struct{})}
}

// Track records the packs handed to the loader at bootstrap. Only tracked
// packs are re-applied.
func (a *Applier) Track(packs []*Pack) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, pack := range packs {
		a.tracked[pack.Name] = struct{}{}
	}
}

// Apply replaces the overrides of every tracked, loaded pack with those in
// packs. A tracked pack that is gone from packs loses its overrides.
func (a *Applier) Apply(packs []*Pack) (ApplyResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var (
		result ApplyResult
		errs   []error
	)
	seen := make(map[string]struct{}, len(packs))
	for _, pack := range packs {
		seen[pack.Name] = struct{}{}
		if !a.loaded(pack.Name) {
			result.Skipped = append(result.Skipped, pack.Name)
			continue
		}

		set, cleared, err := a.loader.ReplaceOverrides(pack.Name, pack.Descriptor().Overrides)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result.Set += set
		result.Cleared += cleared
		result.Applied = append(result.Applied, pack)
	}

	gone := make([]string, 0)
	for name := range a.tracked {
		if _, ok := seen[name]; !ok && a.loaded(name) {
			gone = append(gone, name)
		}
	}
	sort.Strings(gone)
	for _, name := range gone {
		_, cleared, err := a.loader.ReplaceOverrides(name, nil)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result.Cleared += cleared
	}

	return result, errors.Join(errs...)
}

// loaded must be called with a.mu held.
func (a *Applier) loaded(name string) bool {
	if _, ok := a.tracked[name]; !ok {
		return false
	}
	return a.loader.State(name) == plugin.StateLoaded
}
