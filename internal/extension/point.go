package extension

import "github.com/charmbracelet/lipgloss"

// Point is the render boundary for an extension point. It holds no
// contribution state: every render pass re-reads the registry, so content
// registered after the point was first mounted shows up on the next pass.
type Point struct {
	registry *Registry
	name     PointName
}

// NewPoint mounts the extension point name backed by registry.
func NewPoint(registry *Registry, name PointName) *Point {
	return &Point{registry: registry, name: name}
}

// Name returns the point name.
func (p *Point) Name() PointName {
	return p.name
}

// RenderEach renders every contribution in order and returns the outputs.
// Contributions without a render function are skipped.
func (p *Point) RenderEach(ctx RenderContext) []string {
	contributions := p.registry.Contributions(p.name)
	rendered := make([]string, 0, len(contributions))
	for _, contribution := range contributions {
		if contribution.Render == nil {
			continue
		}
		rendered = append(rendered, contribution.Render(ctx))
	}
	return rendered
}

// Render renders every contribution in order, stacked vertically. A point
// with no contributions renders as the empty string.
func (p *Point) Render(ctx RenderContext) string {
	rendered := p.RenderEach(ctx)
	if len(rendered) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}
