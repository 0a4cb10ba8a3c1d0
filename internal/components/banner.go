package components

import (
	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
)

// Banner tones map to palette slots.
var bannerTones = map[string]theme.PaletteSlot{
	"info":    theme.SlotInfo,
	"success": theme.SlotSuccess,
	"warning": theme.SlotWarning,
	"danger":  theme.SlotDanger,
}

// BannerStyles is the Banner factory. Variant key "tone" selects
// info|success|warning|danger.
func BannerStyles(th theme.Theme, variant style.Variant) style.Slots {
	tone, ok := bannerTones[variant.Get("tone", "info")]
	if !ok {
		tone = theme.SlotInfo
	}

	return style.Slots{
		SlotContainer: {
			style.PropBorder:           "normal",
			style.PropBorderForeground: string(tone),
			style.PropPaddingX:         th.Space(theme.SpacingSmall),
			style.PropMarginBottom:     th.Space(theme.SpacingExtraSmall),
		},
		SlotText: {
			style.PropForeground: string(tone),
		},
	}
}

// RenderBanner renders text inside a Banner of the given tone.
func RenderBanner(resolver *style.Resolver, th theme.Theme, tone, text string) (string, error) {
	slots, err := resolver.Resolve(Banner, style.Variant{"tone": tone}, th)
	if err != nil {
		return "", err
	}
	return slots.Get(SlotContainer).Render(th, slots.Get(SlotText).Render(th, text)), nil
}
