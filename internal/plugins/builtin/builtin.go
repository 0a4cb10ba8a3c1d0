// Package builtin contains the plugins shipped with feedkit.
package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/feedkit/feedkit/internal/components"
	"github.com/feedkit/feedkit/internal/extension"
	"github.com/feedkit/feedkit/internal/plugin"
	"github.com/feedkit/feedkit/internal/style"
)

// Names of the builtin plugins.
const (
	CoreHeader  = "core.header"
	ComposeHint = "core.compose-hint"
	Trending    = "trending"
	Compact     = "compact"
)

const version = "1.0.0"

// Defaults returns the builtin plugins in load order.
func Defaults() []plugin.Descriptor {
	return []plugin.Descriptor{
		coreHeader(),
		composeHint(),
		trending(),
		compact(),
	}
}

func coreHeader() plugin.Descriptor {
	priority := -100
	return plugin.Descriptor{
		Name:        CoreHeader,
		Version:     version,
		Description: "Feed title and post count",
		Extensions: []plugin.ExtensionIntent{{
			Point:    components.PointHomeHeader,
			Name:     "title",
			Priority: &priority,
			Render: func(ctx extension.RenderContext) string {
				subtitle, _ := ctx.Value(components.ValueSubtitle).(string)
				if ctx.Styles == nil {
					return strings.TrimSpace("feedkit " + subtitle)
				}
				out, err := components.Header(ctx.Styles, ctx.Theme, "feedkit", subtitle)
				if err != nil {
					return "feedkit"
				}
				return out
			},
		}},
	}
}

func composeHint() plugin.Descriptor {
	return plugin.Descriptor{
		Name:        ComposeHint,
		Version:     version,
		Description: "Nudges the reader to post",
		Requires:    []plugin.Dependency{{Name: CoreHeader}},
		Setup: func(caps plugin.Capabilities) error {
			caps.RegisterExtension(components.PointHomeContent, extension.Contribution{
				Name:   "compose-hint",
				Render: bannerRender("info", "✎ What's happening? Share it with feedkit post."),
			}, extension.WithPriority(-10))
			return nil
		},
	}
}

func trending() plugin.Descriptor {
	return plugin.Descriptor{
		Name:        Trending,
		Version:     version,
		Description: "Trending tags and post engagement",
		Extensions: []plugin.ExtensionIntent{
			{
				Point:  components.PointHomeContent,
				Name:   "trending-tags",
				Render: trendingTags,
			},
			{
				Point:  components.PointPostFooter,
				Name:   "engagement",
				Render: engagement,
			},
		},
	}
}

func compact() plugin.Descriptor {
	return plugin.Descriptor{
		Name:        Compact,
		Version:     version,
		Description: "Denser post cards",
		Requires:    []plugin.Dependency{{Name: CoreHeader, Constraint: &plugin.VersionConstraint{MajorVersion: 1}}},
		Overrides: []plugin.OverrideIntent{
			{
				Component: components.PostCard,
				Slot:      components.SlotContainer,
				Style:     style.Fragment{style.PropPaddingX: 0, style.PropMarginBottom: 0},
			},
			{
				Component: components.PostCard,
				Slot:      components.SlotHandle,
				Style:     style.Fragment{style.PropItalic: false},
			},
		},
	}
}

func bannerRender(tone, text string) extension.RenderFunc {
	return func(ctx extension.RenderContext) string {
		if ctx.Styles == nil {
			return text
		}
		out, err := components.RenderBanner(ctx.Styles, ctx.Theme, tone, text)
		if err != nil {
			return text
		}
		return out
	}
}

// trendingTags renders the three most used tags among the visible posts.
func trendingTags(ctx extension.RenderContext) string {
	posts, _ := ctx.Value(components.ValuePosts).([]components.Post)

	counts := make(map[string]int)
	for _, post := range posts {
		for _, tag := range post.Tags {
			counts[strings.TrimPrefix(strings.ToLower(tag), "#")]++
		}
	}
	if len(counts) == 0 {
		return ""
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > 3 {
		tags = tags[:3]
	}

	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, fmt.Sprintf("#%s (%d)", tag, counts[tag]))
	}
	return bannerRender("success", "Trending: "+strings.Join(parts, "  "))(ctx)
}

// engagement renders like and reply counts for the post being rendered.
func engagement(ctx extension.RenderContext) string {
	post, ok := ctx.Value(components.ValuePost).(components.Post)
	if !ok {
		return ""
	}
	return fmt.Sprintf("♥ %d  ↩ %d", post.Likes, post.Replies)
}
