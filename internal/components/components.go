// Package components contains the feed's stylable components. Each component
// binds a style factory under its name; rendering always goes through the
// resolver so registered overrides apply.
package components

import (
	"github.com/feedkit/feedkit/internal/extension"
	"github.com/feedkit/feedkit/internal/style"
)

// Component names.
const (
	PostCard   style.ComponentName = "PostCard"
	FeedHeader style.ComponentName = "FeedHeader"
	Banner     style.ComponentName = "Banner"
)

// Slot names shared by several components.
const (
	SlotContainer style.SlotName = "container"
	SlotTitle     style.SlotName = "title"
	SlotSubtitle  style.SlotName = "subtitle"
	SlotText      style.SlotName = "text"
	SlotAuthor    style.SlotName = "author"
	SlotHandle    style.SlotName = "handle"
	SlotBody      style.SlotName = "body"
	SlotMeta      style.SlotName = "meta"
	SlotFooter    style.SlotName = "footer"
)

// Extension points mounted by the feed host.
const (
	PointHomeHeader  extension.PointName = "home.header"
	PointHomeContent extension.PointName = "home.content"
	PointPostFooter  extension.PointName = "post.footer"
)

// Values placed in extension.RenderContext by the feed host.
const (
	ValuePosts    = "feed.posts"
	ValuePost     = "feed.post"
	ValueSubtitle = "feed.subtitle"
)

// Register binds the factories of every component.
func Register(factories *style.Factories) {
	factories.RegisterFactory(PostCard, PostCardStyles)
	factories.RegisterFactory(FeedHeader, FeedHeaderStyles)
	factories.RegisterFactory(Banner, BannerStyles)
}
