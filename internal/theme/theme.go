package theme

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const (
	NameLight = "light"
	NameDark  = "dark"
)

// Theme is an immutable snapshot of design tokens. It is passed by value; the
// style core never mutates it.
type Theme struct {
	Name       string
	Palette    Palette
	Spacing    SpacingScale
	Typography TypographyScale
	Borders    BorderSet
}

// Colour resolves a palette slot to its base colour.
func (t Theme) Colour(slot PaletteSlot) lipgloss.AdaptiveColor {
	return t.Palette.Set(slot).Base
}

// Space resolves a spacing token to terminal cells.
func (t Theme) Space(size SpacingSize) int {
	return t.Spacing.Value(size)
}

// Manager coordinates access to the active Theme. It plays the role of the
// theming context: consumers read snapshots and never mutate them.
type Manager struct {
	mu    sync.RWMutex
	theme Theme
}

// NewManager allocates a Manager with the provided theme.
func NewManager(theme Theme) *Manager {
	return &Manager{theme: normalize(theme)}
}

// Set replaces the managed theme.
func (m *Manager) Set(theme Theme) {
	m.mu.Lock()
	m.theme = normalize(theme)
	m.mu.Unlock()
}

// Current returns the active snapshot.
func (m *Manager) Current() Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// Toggle switches between the light and dark themes and returns the new snapshot.
func (m *Manager) Toggle() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.theme.Name == NameDark {
		m.theme = Light()
	} else {
		m.theme = Dark()
	}
	return m.theme
}

func normalize(theme Theme) Theme {
	if theme.Spacing.isZero() {
		theme.Spacing = defaultSpacingScale()
	}
	if theme.Name == "" {
		theme.Name = NameLight
	}
	return theme
}

// ByName returns a built-in theme.
func ByName(name string) (Theme, error) {
	switch name {
	case "", NameLight, "default":
		return Light(), nil
	case NameDark:
		return Dark(), nil
	default:
		return Theme{}, fmt.Errorf("unknown theme '%s' (available: %v)", name, Names())
	}
}

// Names lists built-in theme names.
func Names() []string {
	names := []string{NameLight, NameDark}
	sort.Strings(names)
	return names
}

// Light returns the default theme.
func Light() Theme {
	ac := func(light, dark string) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: light, Dark: dark}
	}

	palette := Palette{
		Primary: ColourSet{
			Base:     ac("#3b82f6", "#60a5fa"),
			OnBase:   ac("#f8fafc", "#0b1120"),
			Muted:    ac("#2563eb", "#1d4ed8"),
			Contrast: ac("#facc15", "#ca8a04"),
		},
		Secondary: ColourSet{
			Base:     ac("#a855f7", "#c084fc"),
			OnBase:   ac("#f8fafc", "#1f2937"),
			Muted:    ac("#7c3aed", "#6b21a8"),
			Contrast: ac("#f472b6", "#f472b6"),
		},
		Surface: ColourSet{
			Base:     ac("#f9fafb", "#111827"),
			OnBase:   ac("#111827", "#f9fafb"),
			Muted:    ac("#e2e8f0", "#1f2937"),
			Contrast: ac("#3b82f6", "#60a5fa"),
		},
		Success: ColourSet{
			Base:     ac("#22c55e", "#4ade80"),
			OnBase:   ac("#052e16", "#022c22"),
			Muted:    ac("#16a34a", "#15803d"),
			Contrast: ac("#f8fafc", "#f8fafc"),
		},
		Warning: ColourSet{
			Base:     ac("#eab308", "#facc15"),
			OnBase:   ac("#422006", "#422006"),
			Muted:    ac("#ca8a04", "#a16207"),
			Contrast: ac("#111827", "#111827"),
		},
		Danger: ColourSet{
			Base:     ac("#ef4444", "#f87171"),
			OnBase:   ac("#7f1d1d", "#450a0a"),
			Muted:    ac("#dc2626", "#b91c1c"),
			Contrast: ac("#f8fafc", "#f8fafc"),
		},
		Info: ColourSet{
			Base:     ac("#06b6d4", "#22d3ee"),
			OnBase:   ac("#083344", "#04121a"),
			Muted:    ac("#0891b2", "#0e7490"),
			Contrast: ac("#f8fafc", "#f8fafc"),
		},
		Neutral: ColourSet{
			Base:     ac("#64748b", "#94a3b8"),
			OnBase:   ac("#f1f5f9", "#0f172a"),
			Muted:    ac("#475569", "#334155"),
			Contrast: ac("#f8fafc", "#f8fafc"),
		},
	}

	return Theme{
		Name:       NameLight,
		Palette:    palette,
		Spacing:    defaultSpacingScale(),
		Typography: defaultTypography(),
		Borders: BorderSet{
			Normal:  lipgloss.NormalBorder(),
			Rounded: lipgloss.RoundedBorder(),
			Thick:   lipgloss.ThickBorder(),
			Double:  lipgloss.DoubleBorder(),
		},
	}
}

// Dark returns the dark variant of Light.
func Dark() Theme {
	theme := Light()
	theme.Name = NameDark

	theme.Palette.Surface = ColourSet{
		Base:     lipgloss.AdaptiveColor{Light: "#111827", Dark: "#0b1120"},
		OnBase:   lipgloss.AdaptiveColor{Light: "#f9fafb", Dark: "#e5e7eb"},
		Muted:    lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#111827"},
		Contrast: lipgloss.AdaptiveColor{Light: "#3b82f6", Dark: "#60a5fa"},
	}
	theme.Palette.Neutral = ColourSet{
		Base:     lipgloss.AdaptiveColor{Light: "#475569", Dark: "#334155"},
		OnBase:   lipgloss.AdaptiveColor{Light: "#e5e7eb", Dark: "#cbd5f5"},
		Muted:    lipgloss.AdaptiveColor{Light: "#374151", Dark: "#1f2937"},
		Contrast: lipgloss.AdaptiveColor{Light: "#f8fafc", Dark: "#f8fafc"},
	}
	return theme
}

func defaultTypography() TypographyScale {
	return TypographyScale{
		Title:    TextStyle{Foreground: SlotPrimary, Bold: true},
		Subtitle: TextStyle{Foreground: SlotSecondary, Faint: true},
		Body:     TextStyle{Foreground: SlotNeutral},
		Caption:  TextStyle{Foreground: SlotNeutral, Faint: true, Italic: true},
		Emphasis: TextStyle{Foreground: SlotPrimary, Bold: true, Underline: true},
	}
}
