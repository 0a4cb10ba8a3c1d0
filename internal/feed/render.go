package feed

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/feedkit/feedkit/internal/components"
	"github.com/feedkit/feedkit/internal/extension"
	"github.com/feedkit/feedkit/internal/i18n"
	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
)

// Renderer draws the feed page: the home.header and home.content extension
// points followed by one post card per post, each with its post.footer point.
type Renderer struct {
	Styles     *style.Resolver
	Extensions *extension.Registry
	Themes     *theme.Manager
	Printer    *i18n.Printer
	Variant    style.Variant
	Now        func() time.Time
}

// Render returns the page for posts at the given width. A card that fails to
// resolve its styles aborts the render with that error.
func (r Renderer) Render(posts []components.Post, width int) (string, error) {
	th := r.theme()
	printer := r.Printer
	if printer == nil {
		printer = i18n.New("")
	}

	extensions := r.Extensions
	if extensions == nil {
		extensions = extension.NewRegistry()
	}

	values := map[string]any{
		components.ValuePosts:    posts,
		components.ValueSubtitle: printer.Sprintf(i18n.KeyPostCount, len(posts)),
	}
	ctx := extension.RenderContext{Theme: th, Styles: r.Styles, Width: width, Values: values}

	var sections []string
	if header := extension.NewPoint(extensions, components.PointHomeHeader).Render(ctx); header != "" {
		sections = append(sections, header)
	}
	if content := extension.NewPoint(extensions, components.PointHomeContent).Render(ctx); content != "" {
		sections = append(sections, content)
	}

	if len(posts) == 0 {
		muted := style.TextFragment(th, th.Typography.Caption)
		sections = append(sections, muted.Render(th, printer.Sprintf(i18n.KeyEmptyFeed)))
		return lipgloss.JoinVertical(lipgloss.Left, sections...), nil
	}

	footers := extension.NewPoint(extensions, components.PointPostFooter)
	for _, post := range posts {
		postCtx := ctx
		postCtx.Values = withValue(values, components.ValuePost, post)

		card := components.NewCard(post).
			WithVariant(r.Variant).
			WithWidth(width).
			WithFooter(footers.Render(postCtx))
		if r.Now != nil {
			card = card.WithClock(r.Now)
		}
		view, err := card.View(r.Styles, th)
		if err != nil {
			return "", err
		}
		sections = append(sections, view)
	}

	return strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, sections...), "\n"), nil
}

func (r Renderer) theme() theme.Theme {
	if r.Themes == nil {
		return theme.Light()
	}
	return r.Themes.Current()
}

func withValue(values map[string]any, key string, value any) map[string]any {
	next := make(map[string]any, len(values)+1)
	for k, v := range values {
		next[k] = v
	}
	next[key] = value
	return next
}
