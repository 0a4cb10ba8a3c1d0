package extension

import (
	"fmt"

	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
)

// PointName identifies an extension point, e.g. "home.content".
type PointName string

// ParsePointName validates s and converts it to a PointName.
func ParsePointName(s string) (PointName, error) {
	if !style.ValidName(s) {
		return "", fmt.Errorf("invalid extension point name '%s'", s)
	}
	return PointName(s), nil
}

// RenderContext is the ambient context an extension point passes through to
// each contribution.
type RenderContext struct {
	Theme  theme.Theme
	Styles *style.Resolver
	Width  int
	Values map[string]any
}

// Value returns an ambient value supplied by the host, or nil.
func (c RenderContext) Value(key string) any {
	if c.Values == nil {
		return nil
	}
	return c.Values[key]
}

// RenderFunc produces the content of one contribution.
type RenderFunc func(RenderContext) string

// Contribution is one unit of content registered against an extension point.
// ID and Priority are assigned by the registry.
type Contribution struct {
	ID       string
	Name     string
	Plugin   string
	Priority int
	Render   RenderFunc
}

type registration struct {
	priority    int
	hasPriority bool
}

// Option adjusts a single registration.
type Option func(*registration)

// WithPriority places the contribution by explicit priority (ascending).
// Without it a contribution's priority is its insertion index at the point.
func WithPriority(priority int) Option {
	return func(r *registration) {
		r.priority = priority
		r.hasPriority = true
	}
}

// DefaultTextSlot is the slot Text renders through when none is named.
const DefaultTextSlot style.SlotName = "container"

// Text returns a render function for static text. When component is set and
// the context carries a resolver, the text is rendered through that
// component's slot; otherwise it is returned verbatim.
func Text(text string, component style.ComponentName, slot style.SlotName) RenderFunc {
	if slot == "" {
		slot = DefaultTextSlot
	}
	return func(ctx RenderContext) string {
		if component == "" || ctx.Styles == nil {
			return text
		}
		slots, err := ctx.Styles.Resolve(component, nil, ctx.Theme)
		if err != nil {
			return text
		}
		return slots.Get(slot).Render(ctx.Theme, text)
	}
}
