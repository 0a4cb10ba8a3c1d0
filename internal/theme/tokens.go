package theme

import "github.com/charmbracelet/lipgloss"

// ColourSet represents a semantic color set with base, on-base, muted, and contrast colors.
type ColourSet struct {
	Base     lipgloss.AdaptiveColor
	OnBase   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Contrast lipgloss.AdaptiveColor
}

// Palette describes semantic colour slots used by components.
type Palette struct {
	Primary   ColourSet
	Secondary ColourSet
	Surface   ColourSet
	Success   ColourSet
	Warning   ColourSet
	Danger    ColourSet
	Info      ColourSet
	Neutral   ColourSet
}

// PaletteSlot names a semantic colour slot. Theme packs refer to slots by
// these names, e.g. "primary" or "surface.muted".
type PaletteSlot string

const (
	SlotPrimary   PaletteSlot = "primary"
	SlotSecondary PaletteSlot = "secondary"
	SlotSurface   PaletteSlot = "surface"
	SlotSuccess   PaletteSlot = "success"
	SlotWarning   PaletteSlot = "warning"
	SlotDanger    PaletteSlot = "danger"
	SlotInfo      PaletteSlot = "info"
	SlotNeutral   PaletteSlot = "neutral"
)

// Set returns the colour set for a slot, falling back to Neutral.
func (p Palette) Set(slot PaletteSlot) ColourSet {
	switch slot {
	case SlotPrimary:
		return p.Primary
	case SlotSecondary:
		return p.Secondary
	case SlotSurface:
		return p.Surface
	case SlotSuccess:
		return p.Success
	case SlotWarning:
		return p.Warning
	case SlotDanger:
		return p.Danger
	case SlotInfo:
		return p.Info
	default:
		return p.Neutral
	}
}

// SpacingSize enumerates supported spacing size tokens.
type SpacingSize int

const (
	SpacingNone SpacingSize = iota
	SpacingExtraSmall
	SpacingSmall
	SpacingMedium
	SpacingLarge
	SpacingExtraLarge
)

const spacingSizeCount = int(SpacingExtraLarge) + 1

// SpacingScale maps spacing tokens to terminal cells.
type SpacingScale [spacingSizeCount]int

// Value returns the cell count for size; out-of-range sizes resolve to Medium.
func (s SpacingScale) Value(size SpacingSize) int {
	index := int(size)
	if index < 0 || index >= len(s) {
		index = int(SpacingMedium)
	}
	return s[index]
}

func (s SpacingScale) isZero() bool {
	for _, value := range s {
		if value != 0 {
			return false
		}
	}
	return true
}

func defaultSpacingScale() SpacingScale {
	return SpacingScale{
		SpacingNone:       0,
		SpacingExtraSmall: 1,
		SpacingSmall:      1,
		SpacingMedium:     2,
		SpacingLarge:      3,
		SpacingExtraLarge: 4,
	}
}

// TextStyle is a typography token. Colour is expressed as a palette slot so
// the token stays valid when the palette changes.
type TextStyle struct {
	Foreground PaletteSlot
	Bold       bool
	Italic     bool
	Faint      bool
	Underline  bool
}

// TypographyScale contains semantic typography presets.
type TypographyScale struct {
	Title    TextStyle
	Subtitle TextStyle
	Body     TextStyle
	Caption  TextStyle
	Emphasis TextStyle
}

// BorderSet groups reusable border definitions.
type BorderSet struct {
	Normal  lipgloss.Border
	Rounded lipgloss.Border
	Thick   lipgloss.Border
	Double  lipgloss.Border
}
