package plugin

import (
	"fmt"

	"github.com/feedkit/feedkit/internal/extension"
	"github.com/feedkit/feedkit/internal/logger"
	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
)

// capabilities scopes registry access to one plugin. Contributions are
// stamped with the plugin name.
type capabilities struct {
	loader     *Loader
	plugin     string
	log        *logger.Logger
	extensions int
	overrides  int
}

func (c *capabilities) RegisterExtension(point extension.PointName, contribution extension.Contribution, opts ...extension.Option) extension.Contribution {
	contribution.Plugin = c.plugin
	stored := c.loader.extensions.Register(point, contribution, opts...)
	c.extensions++
	c.loader.countExtension(c.plugin)
	return stored
}

func (c *capabilities) SetOverride(component style.ComponentName, slot style.SlotName, fragment style.Fragment) {
	c.loader.overrides.SetOverride(component, slot, fragment)
	c.overrides++
	c.loader.recordOverride(c.plugin, style.Key{Component: component, Slot: slot}, fragment)
}

func (c *capabilities) Theme() theme.Theme {
	return c.loader.theme()
}

func (c *capabilities) Logger() *logger.Logger {
	return c.log
}

// run applies the declarative intents, then Setup. Panics in Setup are
// reported as errors.
func (c *capabilities) run(descriptor Descriptor) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during setup: %v", r)
		}
	}()

	for _, intent := range descriptor.Extensions {
		var opts []extension.Option
		if intent.Priority != nil {
			opts = append(opts, extension.WithPriority(*intent.Priority))
		}
		c.RegisterExtension(intent.Point, extension.Contribution{Name: intent.Name, Render: intent.Render}, opts...)
	}

	for _, intent := range descriptor.Overrides {
		c.SetOverride(intent.Component, intent.Slot, intent.Style)
	}

	if descriptor.Setup != nil {
		return descriptor.Setup(c)
	}
	return nil
}
