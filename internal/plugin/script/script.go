// Package script loads plugins written in Starlark. A script declares its
// identity through module globals and registers content through builtins:
//
//	NAME = "weather"
//	VERSION = "1.0.0"
//	DESCRIPTION = "Shows the forecast"   # optional
//	REQUIRES = ["core.header@1.x"]       # optional
//
//	register_extension("home.header", "Sunny, 21°", priority = 5, component = "Banner")
//	set_override("PostCard", "container", {"padding": 2 if theme["dark"] else 1})
//
// The script runs once to read its globals and again as the plugin's Setup,
// when the builtins act on the live registries.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.starlark.net/starlark"

	"github.com/feedkit/feedkit/internal/extension"
	"github.com/feedkit/feedkit/internal/logger"
	"github.com/feedkit/feedkit/internal/plugin"
	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
	feederrors "github.com/feedkit/feedkit/pkg/errors"
)

// Extension is the file suffix recognised by LoadDir.
const Extension = ".star"

const defaultMaxSteps = 1_000_000

// Option configures script loading.
type Option func(*options)

type options struct {
	maxSteps uint64
	log      *logger.Logger
}

// WithMaxSteps bounds the number of Starlark computation steps per run.
func WithMaxSteps(steps uint64) Option {
	return func(o *options) {
		if steps > 0 {
			o.maxSteps = steps
		}
	}
}

// WithLogger routes script print() output to log at debug level.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// LoadFile reads a script from disk and returns its plugin descriptor.
func LoadFile(path string, opts ...Option) (plugin.Descriptor, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return plugin.Descriptor{}, fmt.Errorf("read script %s: %w", path, err)
	}
	return Load(path, string(src), opts...)
}

// LoadDir loads every script in dir in lexical order. A missing directory
// yields no descriptors.
func LoadDir(dir string, opts ...Option) ([]plugin.Descriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read script directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), Extension) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	descriptors := make([]plugin.Descriptor, 0, len(names))
	for _, name := range names {
		d, err := LoadFile(filepath.Join(dir, name), opts...)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

// Load builds a descriptor from script source. filename is used in error
// messages and as the descriptor source.
func Load(filename, src string, opts ...Option) (plugin.Descriptor, error) {
	o := options{maxSteps: defaultMaxSteps, log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	// The first run only reads globals; the builtins record nothing.
	globals, err := run(filename, src, o, theme.Light(), nil)
	if err != nil {
		return plugin.Descriptor{}, err
	}

	d := plugin.Descriptor{Source: filename}
	if d.Name, err = stringGlobal(globals, "NAME", true); err != nil {
		return plugin.Descriptor{}, feederrors.NewParseError(filename, 0, err)
	}
	if d.Version, err = stringGlobal(globals, "VERSION", true); err != nil {
		return plugin.Descriptor{}, feederrors.NewParseError(filename, 0, err)
	}
	if d.Description, err = stringGlobal(globals, "DESCRIPTION", false); err != nil {
		return plugin.Descriptor{}, feederrors.NewParseError(filename, 0, err)
	}

	requires, err := stringList(globals["REQUIRES"])
	if err != nil {
		return plugin.Descriptor{}, feederrors.NewParseError(filename, 0, fmt.Errorf("REQUIRES: %w", err))
	}
	for _, raw := range requires {
		dep, err := plugin.ParseDependency(raw)
		if err != nil {
			return plugin.Descriptor{}, feederrors.NewParseError(filename, 0, err)
		}
		d.Requires = append(d.Requires, dep)
	}

	d.Setup = func(caps plugin.Capabilities) error {
		runOpts := o
		runOpts.log = caps.Logger()
		_, err := run(filename, src, runOpts, caps.Theme(), caps)
		return err
	}
	return d, nil
}

func stringGlobal(globals starlark.StringDict, name string, required bool) (string, error) {
	v, ok := globals[name]
	if !ok {
		if required {
			return "", fmt.Errorf("script must define %s", name)
		}
		return "", nil
	}
	s, ok := starlark.AsString(v)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %s", name, v.Type())
	}
	return s, nil
}

// run executes src once. With a nil caps the builtins validate their
// arguments but register nothing.
func run(filename, src string, o options, th theme.Theme, caps plugin.Capabilities) (starlark.StringDict, error) {
	log := o.log
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			log.With("script", filename).Debug(msg)
		},
	}
	thread.SetMaxExecutionSteps(o.maxSteps)

	themeDict, err := themeValue(th)
	if err != nil {
		return nil, err
	}

	b := &builtins{caps: caps}
	predeclared := starlark.StringDict{
		"theme":              themeDict,
		"register_extension": starlark.NewBuiltin("register_extension", b.registerExtension),
		"set_override":       starlark.NewBuiltin("set_override", b.setOverride),
	}

	globals, err := starlark.ExecFile(thread, filename, src, predeclared)
	if err != nil {
		return nil, scriptError(filename, err)
	}
	return globals, nil
}

func scriptError(filename string, err error) error {
	if evalErr, ok := err.(*starlark.EvalError); ok {
		return feederrors.NewParseError(filename, 0, fmt.Errorf("%s", evalErr.Backtrace()))
	}
	return feederrors.NewParseError(filename, 0, err)
}

type builtins struct {
	caps plugin.Capabilities
}

func (b *builtins) registerExtension(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		point, text     string
		component, slot string
		priority        starlark.Value = starlark.None
	)
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"point", &point,
		"text", &text,
		"priority?", &priority,
		"component?", &component,
		"slot?", &slot,
	); err != nil {
		return nil, err
	}

	pointName, err := extension.ParsePointName(point)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	var opts []extension.Option
	if priority != starlark.None {
		p, err := starlark.AsInt32(priority)
		if err != nil {
			return nil, fmt.Errorf("%s: priority: %w", fn.Name(), err)
		}
		opts = append(opts, extension.WithPriority(p))
	}

	var componentName style.ComponentName
	if component != "" {
		if componentName, err = style.ParseComponentName(component); err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
	}
	var slotName style.SlotName
	if slot != "" {
		if slotName, err = style.ParseSlotName(slot); err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
	}

	if b.caps != nil {
		b.caps.RegisterExtension(pointName, extension.Contribution{
			Name:   text,
			Render: extension.Text(text, componentName, slotName),
		}, opts...)
	}
	return starlark.None, nil
}

func (b *builtins) setOverride(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		component, slot string
		dict            *starlark.Dict
	)
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "component", &component, "slot", &slot, "style", &dict); err != nil {
		return nil, err
	}

	componentName, err := style.ParseComponentName(component)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	slotName, err := style.ParseSlotName(slot)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	fragment, err := fragmentFromDict(dict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	if b.caps != nil {
		b.caps.SetOverride(componentName, slotName, fragment)
	}
	return starlark.None, nil
}
