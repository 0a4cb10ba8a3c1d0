package feed

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/feedkit/feedkit/internal/i18n"
	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
)

// View renders the current state of the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	th := m.renderer.theme()
	muted := style.TextFragment(th, th.Typography.Caption)

	body := m.content
	if m.ready {
		body = m.viewport.View()
	}

	footer := []string{m.printer().Sprintf(i18n.KeyHelp)}
	if m.status != "" {
		footer = append(footer, m.status)
	}
	sections := []string{body}
	if m.err != nil {
		sections = append(sections, errorFragment.Render(th, "✗ "+m.err.Error()))
	}
	sections = append(sections, muted.Render(th, strings.Join(footer, "  •  ")))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

var errorFragment = style.Fragment{
	style.PropForeground: string(theme.SlotDanger),
	style.PropBold:       true,
}
