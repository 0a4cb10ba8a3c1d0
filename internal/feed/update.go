package feed

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/feedkit/feedkit/internal/i18n"
)

// Update handles Bubble Tea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-footerHeight, 1)
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case PostsLoadedMsg:
		m.posts = msg.Posts
		m.refresh()
		return m, nil

	case PostsErrorMsg:
		m.err = msg.Err
		m.log.Error(msg.Err, "load posts")
		return m, nil

	case RegistryChangedMsg:
		m.refresh()
		return m, m.changes.wait()

	case ReloadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.log.Error(msg.Err, "reload theme packs")
			return m, nil
		}
		m.status = m.printer().Sprintf(i18n.KeyReloaded)
		m.refresh()
		return m, loadPostsCmd(m.source)
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Theme):
		if m.renderer.Themes == nil {
			return m, nil
		}
		th := m.renderer.Themes.Toggle()
		m.status = m.printer().Sprintf(i18n.KeyThemeLabel, th.Name)
		m.log.Debug("theme switched to " + th.Name)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.reload == nil {
			return m, nil
		}
		return m, reloadCmd(m.reload)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) printer() *i18n.Printer {
	if m.renderer.Printer == nil {
		return i18n.New("")
	}
	return m.renderer.Printer
}
