package components

import (
	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
)

// FeedHeaderStyles is the FeedHeader factory.
func FeedHeaderStyles(th theme.Theme, _ style.Variant) style.Slots {
	return style.Slots{
		SlotContainer: {
			style.PropPaddingX:     th.Space(theme.SpacingExtraSmall),
			style.PropMarginBottom: th.Space(theme.SpacingExtraSmall),
		},
		SlotTitle:    style.TextFragment(th, th.Typography.Title),
		SlotSubtitle: style.TextFragment(th, th.Typography.Subtitle),
	}
}

// Header renders the feed title line.
func Header(resolver *style.Resolver, th theme.Theme, title, subtitle string) (string, error) {
	slots, err := resolver.Resolve(FeedHeader, nil, th)
	if err != nil {
		return "", err
	}

	line := slots.Get(SlotTitle).Render(th, title)
	if subtitle != "" {
		line += "  " + slots.Get(SlotSubtitle).Render(th, subtitle)
	}
	return slots.Get(SlotContainer).Render(th, line), nil
}
