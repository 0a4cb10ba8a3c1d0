// Package feed hosts the interactive feed: a Bubble Tea program that renders
// the feed through the extension points and style resolver and re-renders
// whenever either registry changes.
package feed

import (
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/feedkit/feedkit/internal/components"
	"github.com/feedkit/feedkit/internal/logger"
)

// PostsLoadedMsg carries posts read from the Source.
type PostsLoadedMsg struct {
	Posts []components.Post
}

// PostsErrorMsg reports a Source failure.
type PostsErrorMsg struct {
	Err error
}

// RegistryChangedMsg indicates the extension or style registry changed.
type RegistryChangedMsg struct{}

// ReloadedMsg reports the outcome of a theme pack reload.
type ReloadedMsg struct {
	Err error
}

// Options configures a Model.
type Options struct {
	Renderer Renderer
	Source   Source
	Reload   func() error
	Changes  *Changes
	Logger   *logger.Logger
}

const (
	defaultWidth = 80
	footerHeight = 2
)

// Model is the Bubble Tea model of the feed.
type Model struct {
	renderer Renderer
	source   Source
	reload   func() error
	changes  *Changes
	log      *logger.Logger
	keys     keyMap

	posts    []components.Post
	viewport viewport.Model
	content  string
	status   string
	err      error
	ready    bool
	quitting bool

	width  int
	height int
}

// NewModel constructs the feed model.
func NewModel(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	source := opts.Source
	if source == nil {
		source = SampleSource{Now: opts.Renderer.Now}
	}

	m := Model{
		renderer: opts.Renderer,
		source:   source,
		reload:   opts.Reload,
		changes:  opts.Changes,
		log:      log.With("component", "feed"),
		keys:     defaultKeyMap(),
		viewport: viewport.New(defaultWidth, 0),
		width:    defaultWidth,
	}
	m.refresh()
	return m
}

// Init loads the posts and starts listening for registry changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadPostsCmd(m.source), m.changes.wait())
}

// Posts returns the posts currently shown.
func (m Model) Posts() []components.Post {
	return m.posts
}

// Content returns the rendered feed without the host chrome.
func (m Model) Content() string {
	return m.content
}

// Err returns the last render, source or reload error.
func (m Model) Err() error {
	return m.err
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

func loadPostsCmd(source Source) tea.Cmd {
	return func() tea.Msg {
		posts, err := source.Posts(context.Background())
		if err != nil {
			return PostsErrorMsg{Err: err}
		}
		return PostsLoadedMsg{Posts: posts}
	}
}

func reloadCmd(reload func() error) tea.Cmd {
	return func() tea.Msg {
		return ReloadedMsg{Err: reload()}
	}
}

// refresh re-renders the feed into the viewport.
func (m *Model) refresh() {
	content, err := m.renderer.Render(m.posts, m.width)
	if err != nil {
		m.err = err
		m.log.Error(err, "render feed")
		return
	}
	m.err = nil
	m.content = content
	m.viewport.SetContent(content)
}

// RenderOnce reads the posts from source and renders a single frame of the
// feed at width, for non-interactive output.
func RenderOnce(ctx context.Context, renderer Renderer, source Source, width int) (string, error) {
	if source == nil {
		source = SampleSource{Now: renderer.Now}
	}
	if width <= 0 {
		width = defaultWidth
	}
	posts, err := source.Posts(ctx)
	if err != nil {
		return "", err
	}
	return renderer.Render(posts, width)
}
