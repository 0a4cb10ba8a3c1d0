package plugin

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/feedkit/feedkit/internal/extension"
	"github.com/feedkit/feedkit/internal/logger"
	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
	feederrors "github.com/feedkit/feedkit/pkg/errors"
)

// State is the lifecycle position of one plugin.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// Recorder observes load outcomes.
type Recorder interface {
	ObservePluginLoad(plugin string, duration time.Duration, err error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the loader logger.
func WithLogger(log *logger.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithRecorder reports every load attempt to rec.
func WithRecorder(rec Recorder) LoaderOption {
	return func(l *Loader) {
		l.recorder = rec
	}
}

// WithTheme supplies the theme exposed to plugins through Capabilities.
func WithTheme(current func() theme.Theme) LoaderOption {
	return func(l *Loader) {
		if current != nil {
			l.theme = current
		}
	}
}

// PluginStatus is a read-only summary of one plugin known to the loader.
type PluginStatus struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source,omitempty"`
	State       string    `json:"state"`
	Extensions  int       `json:"extensions"`
	Overrides   int       `json:"overrides"`
	Error       string    `json:"error,omitempty"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`
}

type record struct {
	descriptor Descriptor
	state      State
	extensions int
	overrides  int
	failure    error
	loadedAt   time.Time

	// rank orders load attempts; applied lists the overrides the latest
	// attempt set, in the order it set them.
	rank    uint64
	applied []overrideEntry
}

// Loader runs plugin descriptors against the extension and style registries.
// Loaded is terminal; a failed plugin returns to unloaded and may be retried.
// Registrations made before a failure are kept.
type Loader struct {
	mu           sync.Mutex
	extensions   *extension.Registry
	overrides    *style.Registry
	records      map[string]*record
	order        []string
	attempts     uint64
	bootstrapped bool

	log      *logger.Logger
	recorder Recorder
	theme    func() theme.Theme
}

// NewLoader returns a loader writing into the given registries.
func NewLoader(extensions *extension.Registry, overrides *style.Registry, opts ...LoaderOption) *Loader {
	l := &Loader{
		extensions: extensions,
		overrides:  overrides,
		records:    make(map[string]*record),
		log:        logger.Nop(),
		theme:      theme.Light,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load runs descriptor once. Loading an already loaded plugin is a no-op.
func (l *Loader) Load(descriptor Descriptor) error {
	name := descriptor.Name

	l.mu.Lock()
	rec, known := l.records[name]
	if known {
		switch rec.state {
		case StateLoaded:
			l.mu.Unlock()
			return nil
		case StateLoading:
			l.mu.Unlock()
			return fmt.Errorf("plugin '%s': %w", name, ErrPluginLoading)
		}
	}
	l.mu.Unlock()

	if err := descriptor.Validate(); err != nil {
		return l.fail(descriptor, feederrors.NewPluginSetupError(name, err), 0)
	}
	if err := l.checkRequires(descriptor); err != nil {
		return l.fail(descriptor, feederrors.NewPluginSetupError(name, err), 0)
	}

	l.mu.Lock()
	rec = l.track(descriptor)
	rec.state = StateLoading
	rec.extensions, rec.overrides = 0, 0
	l.attempts++
	rec.rank = l.attempts
	rec.applied = nil
	l.mu.Unlock()

	log := l.log.With("plugin", name)
	log.Debug("loading plugin")

	start := time.Now()
	caps := &capabilities{loader: l, plugin: name, log: log}
	err := caps.run(descriptor)
	elapsed := time.Since(start)

	if err != nil {
		return l.fail(descriptor, feederrors.NewPluginSetupError(name, err), elapsed)
	}

	l.mu.Lock()
	rec.state = StateLoaded
	rec.failure = nil
	rec.loadedAt = time.Now()
	l.mu.Unlock()

	l.observe(name, elapsed, nil)
	log.WithFields(map[string]any{
		"extensions": caps.extensions,
		"overrides":  caps.overrides,
	}).Info("plugin loaded")
	return nil
}

// Bootstrap loads descriptors in list order. It continues past failures and
// returns every failure joined. Only the first call does anything.
func (l *Loader) Bootstrap(descriptors []Descriptor) error {
	l.mu.Lock()
	if l.bootstrapped {
		l.mu.Unlock()
		return ErrAlreadyBootstrapped
	}
	l.bootstrapped = true
	l.mu.Unlock()

	var errs []error
	for _, descriptor := range descriptors {
		if err := l.Load(descriptor); err != nil {
			errs = append(errs, err)
		}
	}

	l.log.WithFields(map[string]any{
		"plugins": len(descriptors),
		"failed":  len(errs),
	}).Info("plugins bootstrapped")
	return errors.Join(errs...)
}

// State returns the lifecycle state of name.
func (l *Loader) State(name string) State {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec, ok := l.records[name]; ok {
		return rec.state
	}
	return StateUnloaded
}

// Loaded lists loaded plugins in the order they were first seen.
func (l *Loader) Loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.order))
	for _, name := range l.order {
		if l.records[name].state == StateLoaded {
			names = append(names, name)
		}
	}
	return names
}

// Failures returns the last error of every plugin that is not loaded.
func (l *Loader) Failures() map[string]error {
	l.mu.Lock()
	defer l.mu.Unlock()

	failures := make(map[string]error)
	for name, rec := range l.records {
		if rec.failure != nil {
			failures[name] = rec.failure
		}
	}
	return failures
}

// Status summarises every plugin the loader has seen, sorted by name.
func (l *Loader) Status() []PluginStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	statuses := make([]PluginStatus, 0, len(l.records))
	for name, rec := range l.records {
		status := PluginStatus{
			Name:        name,
			Version:     rec.descriptor.Version,
			Description: rec.descriptor.Description,
			Source:      rec.descriptor.Source,
			State:       rec.state.String(),
			Extensions:  rec.extensions,
			Overrides:   rec.overrides,
			LoadedAt:    rec.loadedAt,
		}
		if rec.failure != nil {
			status.Error = rec.failure.Error()
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}

func (l *Loader) checkRequires(descriptor Descriptor) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, dep := range descriptor.Requires {
		rec, ok := l.records[dep.Name]
		if !ok || rec.state != StateLoaded {
			return ErrMissingDependency{Plugin: descriptor.Name, Dependency: dep.Name}
		}
		if !dep.Constraint.Satisfies(rec.descriptor.Version) {
			return ErrVersionConflict{
				Plugin:        descriptor.Name,
				Dependency:    dep.Name,
				Constraint:    dep.Constraint.String(),
				ActualVersion: rec.descriptor.Version,
			}
		}
	}
	return nil
}

// track must be called with l.mu held.
func (l *Loader) track(descriptor Descriptor) *record {
	rec, ok := l.records[descriptor.Name]
	if !ok {
		rec = &record{}
		l.records[descriptor.Name] = rec
		l.order = append(l.order, descriptor.Name)
	}
	rec.descriptor = descriptor
	return rec
}

func (l *Loader) fail(descriptor Descriptor, err error, elapsed time.Duration) error {
	l.mu.Lock()
	rec := l.track(descriptor)
	rec.state = StateUnloaded
	rec.failure = err
	l.mu.Unlock()

	l.observe(descriptor.Name, elapsed, err)
	l.log.With("plugin", descriptor.Name).Error(err, "plugin failed to load")
	return err
}

func (l *Loader) observe(name string, elapsed time.Duration, err error) {
	if l.recorder != nil {
		l.recorder.ObservePluginLoad(name, elapsed, err)
	}
}

func (l *Loader) countExtension(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if rec, ok := l.records[name]; ok {
		rec.extensions++
	}
}

