package components

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
)

// Post is one feed entry.
type Post struct {
	ID       string    `json:"id" yaml:"id"`
	Author   string    `json:"author" yaml:"author"`
	Handle   string    `json:"handle" yaml:"handle"`
	Body     string    `json:"body" yaml:"body"`
	Tags     []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Likes    int       `json:"likes" yaml:"likes"`
	Replies  int       `json:"replies" yaml:"replies"`
	PostedAt time.Time `json:"posted_at" yaml:"posted_at"`
}

// PostCardStyles is the PostCard factory. Variant keys: "density"
// (comfortable|compact) and "emphasis" (none|highlighted).
func PostCardStyles(th theme.Theme, variant style.Variant) style.Slots {
	padding := th.Space(theme.SpacingSmall)
	margin := th.Space(theme.SpacingExtraSmall)
	if variant.Get("density", "comfortable") == "compact" {
		padding = th.Space(theme.SpacingNone)
		margin = th.Space(theme.SpacingNone)
	}

	borderColour := "neutral.muted"
	if variant.Get("emphasis", "none") == "highlighted" {
		borderColour = string(theme.SlotPrimary)
	}

	return style.Slots{
		SlotContainer: {
			style.PropBorder:           "rounded",
			style.PropBorderForeground: borderColour,
			style.PropPaddingX:         padding,
			style.PropMarginBottom:     margin,
		},
		SlotAuthor: style.TextFragment(th, th.Typography.Title),
		SlotHandle: style.TextFragment(th, th.Typography.Caption),
		SlotBody:   style.TextFragment(th, th.Typography.Body),
		SlotMeta:   style.TextFragment(th, th.Typography.Subtitle),
		SlotFooter: {
			style.PropForeground: "neutral",
			style.PropFaint:      true,
		},
	}
}

// Card renders one post through the PostCard styles.
type Card struct {
	post    Post
	variant style.Variant
	width   int
	footer  string
	now     func() time.Time
}

// NewCard creates a card for post.
func NewCard(post Post) *Card {
	return &Card{post: post, now: time.Now}
}

// WithVariant sets the style variant.
func (c *Card) WithVariant(variant style.Variant) *Card {
	c.variant = variant
	return c
}

// WithWidth sets the outer card width; zero leaves the card unconstrained.
func (c *Card) WithWidth(width int) *Card {
	c.width = width
	return c
}

// WithFooter sets content rendered under the post body, typically the
// output of the post.footer extension point.
func (c *Card) WithFooter(footer string) *Card {
	c.footer = footer
	return c
}

// WithClock overrides the clock used for relative timestamps.
func (c *Card) WithClock(now func() time.Time) *Card {
	if now != nil {
		c.now = now
	}
	return c
}

// View renders the card.
func (c *Card) View(resolver *style.Resolver, th theme.Theme) (string, error) {
	slots, err := resolver.Resolve(PostCard, c.variant, th)
	if err != nil {
		return "", err
	}

	container := slots.Get(SlotContainer).Lipgloss(th)
	if c.width > 0 {
		container = container.Width(c.width - horizontalBorderWidth(container))
	}

	header := slots.Get(SlotAuthor).Render(th, c.post.Author)
	if c.post.Handle != "" {
		header += " " + slots.Get(SlotHandle).Render(th, "@"+strings.TrimPrefix(c.post.Handle, "@"))
	}
	if !c.post.PostedAt.IsZero() {
		header += " " + slots.Get(SlotMeta).Render(th, "· "+relativeTime(c.now(), c.post.PostedAt))
	}

	content := []string{header}
	if c.post.Body != "" {
		inner := c.width - horizontalBorderWidth(container) - container.GetHorizontalPadding()
		content = append(content, slots.Get(SlotBody).Render(th, wrapText(c.post.Body, inner)))
	}
	if len(c.post.Tags) > 0 {
		tags := make([]string, 0, len(c.post.Tags))
		for _, tag := range c.post.Tags {
			tags = append(tags, "#"+strings.TrimPrefix(tag, "#"))
		}
		content = append(content, slots.Get(SlotMeta).Render(th, strings.Join(tags, " ")))
	}
	if c.footer != "" {
		content = append(content, slots.Get(SlotFooter).Render(th, c.footer))
	}

	return container.Render(strings.Join(content, "\n")), nil
}

func relativeTime(now, then time.Time) string {
	elapsed := now.Sub(then)
	switch {
	case elapsed < time.Minute:
		return "now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh", int(elapsed.Hours()))
	default:
		return then.Format("Jan 2")
	}
}

// wrapText wraps text to maxWidth cells, breaking words longer than a line.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range words {
		if utf8.RuneCountInString(word) > maxWidth {
			wordRunes := []rune(word)
			if currentLine != "" {
				lines = append(lines, currentLine)
				currentLine = ""
			}
			for len(wordRunes) > maxWidth {
				lines = append(lines, string(wordRunes[:maxWidth]))
				wordRunes = wordRunes[maxWidth:]
			}
			if len(wordRunes) > 0 {
				currentLine = string(wordRunes)
			}
			continue
		}

		testLine := currentLine
		if currentLine != "" {
			testLine += " "
		}
		testLine += word

		if utf8.RuneCountInString(testLine) <= maxWidth {
			currentLine = testLine
		} else {
			if currentLine != "" {
				lines = append(lines, currentLine)
			}
			currentLine = word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n")
}

func horizontalBorderWidth(s lipgloss.Style) int {
	width := s.GetBorderLeftSize() + s.GetBorderRightSize()
	if width < 0 {
		return 0
	}
	return width
}
