package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrPluginLoading is returned by a re-entrant Load of a plugin whose
	// setup is still running.
	ErrPluginLoading = errors.New("plugin is already loading")
	// ErrAlreadyBootstrapped is returned by every Bootstrap call after the first.
	ErrAlreadyBootstrapped = errors.New("plugins already bootstrapped")
	// ErrNotLoaded is returned when an operation needs a loaded plugin.
	ErrNotLoaded = errors.New("plugin is not loaded")
)

// ErrMissingDependency is returned when a required plugin has not been loaded.
type ErrMissingDependency struct {
	Plugin     string
	Dependency string
}

func (e ErrMissingDependency) Error() string {
	return fmt.Sprintf(
		"plugin '%s' requires '%s' which is not loaded\nHint: list '%s' before '%s' in the plugin list",
		e.Plugin,
		e.Dependency,
		e.Dependency,
		e.Plugin,
	)
}

// ErrVersionConflict is returned when a required plugin is loaded at a
// version outside the declared constraint.
type ErrVersionConflict struct {
	Plugin        string
	Dependency    string
	Constraint    string
	ActualVersion string
}

func (e ErrVersionConflict) Error() string {
	return fmt.Sprintf(
		"plugin '%s' requires '%s' %s but %s is loaded\nHint: align plugin versions or relax the constraint",
		e.Plugin,
		e.Dependency,
		e.Constraint,
		e.ActualVersion,
	)
}
