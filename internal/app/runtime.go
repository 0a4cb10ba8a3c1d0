// Package app wires the style core, the extension registry and the plugin
// loader into a runtime built from the application configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/feedkit/feedkit/internal/components"
	"github.com/feedkit/feedkit/internal/config"
	"github.com/feedkit/feedkit/internal/extension"
	"github.com/feedkit/feedkit/internal/feed"
	"github.com/feedkit/feedkit/internal/i18n"
	"github.com/feedkit/feedkit/internal/logger"
	"github.com/feedkit/feedkit/internal/metrics"
	"github.com/feedkit/feedkit/internal/notify"
	"github.com/feedkit/feedkit/internal/plugin"
	"github.com/feedkit/feedkit/internal/plugin/script"
	"github.com/feedkit/feedkit/internal/plugins/builtin"
	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
	"github.com/feedkit/feedkit/internal/themepack"
)

// Options configures a Runtime.
type Options struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	// Builtins replaces the shipped plugins when non-nil.
	Builtins []plugin.Descriptor
	Now      func() time.Time
}

// Runtime owns every registry of one feedkit process.
type Runtime struct {
	Config     *config.Config
	Log        *logger.Logger
	Metrics    *metrics.Metrics
	Factories  *style.Factories
	Overrides  *style.Registry
	Styles     *style.Resolver
	Extensions *extension.Registry
	Themes     *theme.Manager
	Loader     *plugin.Loader
	Printer    *i18n.Printer
	Index      *themepack.Index

	builtins []plugin.Descriptor
	now      func() time.Time
	applier  *themepack.Applier
	subs     []notify.Subscription

	mu    sync.Mutex
	packs []*themepack.Pack
}

// New builds the registries, binds the component factories and prepares the
// plugin loader. Plugins are not loaded until Bootstrap.
func New(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	th, err := theme.ByName(cfg.Theme)
	if err != nil {
		return nil, err
	}

	idx, err := themepack.OpenIndex(cfg.PackIndexPath())
	if err != nil {
		return nil, fmt.Errorf("open theme pack index: %w", err)
	}

	r := &Runtime{
		Config:     cfg,
		Log:        log,
		Metrics:    opts.Metrics,
		Factories:  style.NewFactories(),
		Overrides:  style.NewRegistry(),
		Extensions: extension.NewRegistry(),
		Themes:     theme.NewManager(th),
		Printer:    i18n.New(cfg.Locale),
		Index:      idx,
		builtins:   opts.Builtins,
		now:        opts.Now,
	}
	if r.builtins == nil {
		r.builtins = builtin.Defaults()
	}
	if r.now == nil {
		r.now = time.Now
	}

	components.Register(r.Factories)

	var resolverOpts []style.ResolverOption
	loaderOpts := []plugin.LoaderOption{
		plugin.WithLogger(log.With("component", "loader")),
		plugin.WithTheme(r.Themes.Current),
	}
	if r.Metrics != nil {
		resolverOpts = append(resolverOpts, style.WithRecorder(r.Metrics))
		loaderOpts = append(loaderOpts, plugin.WithRecorder(r.Metrics))
		r.observeVersions()
	}
	r.Styles = style.NewResolver(r.Factories, r.Overrides, resolverOpts...)
	r.Loader = plugin.NewLoader(r.Extensions, r.Overrides, loaderOpts...)
	r.applier = themepack.NewApplier(r.Loader)

	return r, nil
}

func (r *Runtime) observeVersions() {
	watch := func(name string, subscribe func(func()) notify.Subscription, version func() uint64) {
		r.Metrics.ObserveRegistryVersion(name, version())
		r.subs = append(r.subs, subscribe(func() {
			r.Metrics.ObserveRegistryVersion(name, version())
		}))
	}
	watch("factories", r.Factories.Subscribe, r.Factories.Version)
	watch("overrides", r.Overrides.Subscribe, r.Overrides.Version)
	watch("extensions", r.Extensions.Subscribe, r.Extensions.Version)
}

// PackPaths lists the configured theme pack paths followed by installed packs.
func (r *Runtime) PackPaths() []string {
	paths := append([]string{}, r.Config.ThemePacks...)
	return append(paths, r.Index.Paths()...)
}

// Descriptors collects the enabled plugins in load order: builtins, theme
// packs, then scripts.
func (r *Runtime) Descriptors() ([]plugin.Descriptor, []*themepack.Pack, error) {
	var (
		descriptors []plugin.Descriptor
		errs        []error
	)
	for _, d := range r.builtins {
		if r.Config.PluginEnabled(d.Name) {
			descriptors = append(descriptors, d)
		}
	}

	packs, err := themepack.LoadPaths(r.PackPaths())
	if err != nil {
		errs = append(errs, err)
	}
	packs = r.enabledPacks(packs)
	for _, pack := range packs {
		descriptors = append(descriptors, pack.Descriptor())
	}

	scriptOpts := []script.Option{script.WithLogger(r.Log.With("component", "script"))}
	for _, path := range r.Config.Scripts {
		loaded, err := loadScripts(path, scriptOpts...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, d := range loaded {
			if r.Config.PluginEnabled(d.Name) {
				descriptors = append(descriptors, d)
			}
		}
	}

	return descriptors, packs, errors.Join(errs...)
}

func loadScripts(path string, opts ...script.Option) ([]plugin.Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("script path %s: %w", path, err)
	}
	if info.IsDir() {
		return script.LoadDir(path, opts...)
	}
	d, err := script.LoadFile(path, opts...)
	if err != nil {
		return nil, err
	}
	return []plugin.Descriptor{d}, nil
}

func (r *Runtime) enabledPacks(packs []*themepack.Pack) []*themepack.Pack {
	enabled := make([]*themepack.Pack, 0, len(packs))
	for _, pack := range packs {
		if r.Config.PluginEnabled(pack.Name) {
			enabled = append(enabled, pack)
		}
	}
	return enabled
}

// Bootstrap loads every enabled plugin. Plugins that fail to load or cannot
// be read are reported together; the rest stay loaded.
func (r *Runtime) Bootstrap() error {
	descriptors, packs, loadErr := r.Descriptors()
	r.applyBaseTheme(packs)

	bootErr := r.Loader.Bootstrap(descriptors)
	r.setPacks(r.loadedPacks(packs))
	r.applier.Track(packs)

	return errors.Join(loadErr, bootErr)
}

// applyBaseTheme switches to the first pack base theme when no theme was
// configured.
func (r *Runtime) applyBaseTheme(packs []*themepack.Pack) {
	if r.Config.Theme != "" {
		return
	}
	for _, pack := range packs {
		if pack.BaseTheme == "" {
			continue
		}
		th, err := theme.ByName(pack.BaseTheme)
		if err != nil {
			r.Log.With("pack", pack.Name).Warn(err.Error())
			continue
		}
		r.Themes.Set(th)
		return
	}
}

func (r *Runtime) loadedPacks(packs []*themepack.Pack) []*themepack.Pack {
	loaded := make([]*themepack.Pack, 0, len(packs))
	for _, pack := range packs {
		if r.Loader.State(pack.Name) == plugin.StateLoaded {
			loaded = append(loaded, pack)
		}
	}
	return loaded
}

// Reload re-reads the theme packs and re-applies the overrides of those the
// loader holds. Pack contributions registered at bootstrap are left in
// place. Packs that are new or failed to load wait for the next start.
func (r *Runtime) Reload() error {
	packs, err := themepack.LoadPaths(r.PackPaths())
	return r.ApplyPacks(packs, err)
}

// ApplyPacks re-applies the overrides of packs unless err is set.
func (r *Runtime) ApplyPacks(packs []*themepack.Pack, err error) error {
	if err != nil {
		r.Metrics.ObserveThemePackReload(err)
		r.Log.Error(err, "theme pack reload failed")
		return err
	}

	result, err := r.applier.Apply(r.enabledPacks(packs))
	r.Metrics.ObserveThemePackReload(err)
	r.setPacks(result.Applied)
	for _, name := range result.Skipped {
		r.Log.With("pack", name).Warn("theme pack is not loaded; restart to apply it")
	}
	if err != nil {
		r.Log.Error(err, "theme pack reload failed")
		return err
	}

	r.Log.WithFields(map[string]any{"set": result.Set, "cleared": result.Cleared}).Info("theme pack overrides applied")
	return nil
}

// Packs returns the theme packs currently applied.
func (r *Runtime) Packs() []*themepack.Pack {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*themepack.Pack(nil), r.packs...)
}

func (r *Runtime) setPacks(packs []*themepack.Pack) {
	r.mu.Lock()
	r.packs = packs
	r.mu.Unlock()
}

// Watch re-applies pack overrides whenever a pack file changes, until ctx is
// cancelled. onReload, if set, is called after each reload.
func (r *Runtime) Watch(ctx context.Context, onReload func(error)) error {
	watcher := themepack.NewWatcher(r.PackPaths(), themepack.WithWatchLogger(r.Log.With("component", "themepack")))
	return watcher.Run(ctx, func(packs []*themepack.Pack, err error) {
		err = r.ApplyPacks(packs, err)
		if onReload != nil {
			onReload(err)
		}
	})
}

// Renderer returns a feed renderer over the runtime registries.
func (r *Runtime) Renderer() feed.Renderer {
	return feed.Renderer{
		Styles:     r.Styles,
		Extensions: r.Extensions,
		Themes:     r.Themes,
		Printer:    r.Printer,
		Variant:    style.Variant(r.Config.Variant),
		Now:        r.now,
	}
}

// Source returns the configured post source.
func (r *Runtime) Source() feed.Source {
	if r.Config.Posts != "" {
		return feed.FileSource{Path: r.Config.Posts}
	}
	return feed.SampleSource{Now: r.now}
}

// Close releases registry subscriptions.
func (r *Runtime) Close() {
	for _, sub := range r.subs {
		sub.Unsubscribe()
	}
	r.subs = nil
}
