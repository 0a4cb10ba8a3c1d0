package style

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/feedkit/feedkit/internal/theme"
)

// Well-known fragment properties understood by the terminal renderer.
const (
	PropPadding          = "padding"
	PropPaddingX         = "padding_x"
	PropPaddingY         = "padding_y"
	PropMargin           = "margin"
	PropMarginBottom     = "margin_bottom"
	PropForeground       = "foreground"
	PropBackground       = "background"
	PropBold             = "bold"
	PropItalic           = "italic"
	PropFaint            = "faint"
	PropUnderline        = "underline"
	PropBorder           = "border"
	PropBorderForeground = "border_foreground"
	PropWidth            = "width"
	PropAlign            = "align"
)

// Lipgloss converts the fragment into a lipgloss style. Colour values may be
// lipgloss colours, hex/ANSI strings, or palette references such as "primary"
// or "surface.muted" which are looked up in th. Unknown properties and values
// of the wrong type are ignored.
func (f Fragment) Lipgloss(th theme.Theme) lipgloss.Style {
	s := lipgloss.NewStyle()

	if v, ok := intProp(f, PropPadding); ok {
		s = s.Padding(v)
	}
	if v, ok := intProp(f, PropPaddingX); ok {
		s = s.PaddingLeft(v).PaddingRight(v)
	}
	if v, ok := intProp(f, PropPaddingY); ok {
		s = s.PaddingTop(v).PaddingBottom(v)
	}
	if v, ok := intProp(f, PropMargin); ok {
		s = s.Margin(v)
	}
	if v, ok := intProp(f, PropMarginBottom); ok {
		s = s.MarginBottom(v)
	}
	if v, ok := intProp(f, PropWidth); ok {
		s = s.Width(v)
	}
	if c, ok := colourProp(f, PropForeground, th); ok {
		s = s.Foreground(c)
	}
	if c, ok := colourProp(f, PropBackground, th); ok {
		s = s.Background(c)
	}
	if v, ok := f[PropBold].(bool); ok {
		s = s.Bold(v)
	}
	if v, ok := f[PropItalic].(bool); ok {
		s = s.Italic(v)
	}
	if v, ok := f[PropFaint].(bool); ok {
		s = s.Faint(v)
	}
	if v, ok := f[PropUnderline].(bool); ok {
		s = s.Underline(v)
	}
	if b, ok := borderProp(f, th); ok {
		s = s.Border(b)
	}
	if c, ok := colourProp(f, PropBorderForeground, th); ok {
		s = s.BorderForeground(c)
	}
	if align, ok := f[PropAlign].(string); ok {
		switch strings.ToLower(align) {
		case "center":
			s = s.Align(lipgloss.Center)
		case "right":
			s = s.Align(lipgloss.Right)
		case "left":
			s = s.Align(lipgloss.Left)
		}
	}

	return s
}

// Render styles text with the fragment.
func (f Fragment) Render(th theme.Theme, text string) string {
	return f.Lipgloss(th).Render(text)
}

// TextFragment converts a typography token into a fragment.
func TextFragment(th theme.Theme, token theme.TextStyle) Fragment {
	frag := Fragment{PropForeground: th.Colour(token.Foreground)}
	if token.Bold {
		frag[PropBold] = true
	}
	if token.Italic {
		frag[PropItalic] = true
	}
	if token.Faint {
		frag[PropFaint] = true
	}
	if token.Underline {
		frag[PropUnderline] = true
	}
	return frag
}

func intProp(f Fragment, key string) (int, bool) {
	switch v := f[key].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(math.Round(v)), true
	default:
		return 0, false
	}
}

func colourProp(f Fragment, key string, th theme.Theme) (lipgloss.TerminalColor, bool) {
	switch v := f[key].(type) {
	case lipgloss.AdaptiveColor:
		return v, true
	case lipgloss.Color:
		return v, true
	case lipgloss.TerminalColor:
		return v, true
	case string:
		if v == "" {
			return nil, false
		}
		if c, ok := paletteRef(v, th); ok {
			return c, true
		}
		return lipgloss.Color(v), true
	default:
		return nil, false
	}
}

func paletteRef(ref string, th theme.Theme) (lipgloss.TerminalColor, bool) {
	slotName, shade, _ := strings.Cut(strings.ToLower(ref), ".")
	slot := theme.PaletteSlot(slotName)
	switch slot {
	case theme.SlotPrimary, theme.SlotSecondary, theme.SlotSurface, theme.SlotSuccess,
		theme.SlotWarning, theme.SlotDanger, theme.SlotInfo, theme.SlotNeutral:
	default:
		return nil, false
	}

	set := th.Palette.Set(slot)
	switch shade {
	case "", "base":
		return set.Base, true
	case "on_base":
		return set.OnBase, true
	case "muted":
		return set.Muted, true
	case "contrast":
		return set.Contrast, true
	default:
		return nil, false
	}
}

func borderProp(f Fragment, th theme.Theme) (lipgloss.Border, bool) {
	switch v := f[PropBorder].(type) {
	case lipgloss.Border:
		return v, true
	case string:
		switch strings.ToLower(v) {
		case "normal":
			return th.Borders.Normal, true
		case "rounded":
			return th.Borders.Rounded, true
		case "thick":
			return th.Borders.Thick, true
		case "double":
			return th.Borders.Double, true
		case "hidden":
			return lipgloss.HiddenBorder(), true
		}
	}
	return lipgloss.Border{}, false
}
