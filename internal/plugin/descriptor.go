package plugin

import (
	"fmt"

	"github.com/feedkit/feedkit/internal/extension"
	"github.com/feedkit/feedkit/internal/logger"
	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
	"github.com/feedkit/feedkit/internal/validation"
	feederrors "github.com/feedkit/feedkit/pkg/errors"
)

// SetupFunc is the imperative part of a plugin. It runs after the declarative
// intents have been applied.
type SetupFunc func(Capabilities) error

// Capabilities is everything a plugin may touch during setup.
type Capabilities interface {
	// RegisterExtension adds a contribution owned by the plugin.
	RegisterExtension(point extension.PointName, contribution extension.Contribution, opts ...extension.Option) extension.Contribution
	// SetOverride replaces the style override for one component slot.
	SetOverride(component style.ComponentName, slot style.SlotName, fragment style.Fragment)
	// Theme is the theme active while the plugin loads.
	Theme() theme.Theme
	// Logger is scoped to the plugin.
	Logger() *logger.Logger
}

// ExtensionIntent declares a contribution without any setup code.
type ExtensionIntent struct {
	Point    extension.PointName  `validate:"required,point_name"`
	Name     string               `validate:"omitempty,max=128"`
	Priority *int
	Render   extension.RenderFunc `validate:"required"`
}

// OverrideIntent declares a style override without any setup code.
type OverrideIntent struct {
	Component style.ComponentName `validate:"required,component_name"`
	Slot      style.SlotName      `validate:"required,slot_name"`
	Style     style.Fragment
}

// Descriptor describes one plugin: identity, dependencies, declarative
// intents and an optional Setup function.
type Descriptor struct {
	Name        string            `validate:"required,plugin_name"`
	Version     string            `validate:"required,semver"`
	Description string            `validate:"omitempty,max=256"`
	Source      string
	Requires    []Dependency      `validate:"dive"`
	Extensions  []ExtensionIntent `validate:"dive"`
	Overrides   []OverrideIntent  `validate:"dive"`
	Setup       SetupFunc
}

// Validate ensures the descriptor is well-formed.
func (d Descriptor) Validate() error {
	if err := validation.Struct("plugin", d); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(d.Requires))
	for _, dep := range d.Requires {
		if dep.Name == d.Name {
			return feederrors.NewValidationError("plugin.requires", fmt.Sprintf("plugin '%s' cannot depend on itself", d.Name), nil)
		}
		if _, exists := seen[dep.Name]; exists {
			return feederrors.NewValidationError("plugin.requires", fmt.Sprintf("plugin '%s' lists dependency '%s' more than once", d.Name, dep.Name), nil)
		}
		seen[dep.Name] = struct{}{}
	}
	return nil
}
