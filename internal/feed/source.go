package feed

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/feedkit/feedkit/internal/components"
	feedkiterrors "github.com/feedkit/feedkit/pkg/errors"
)

// Source supplies the posts shown in the feed. The host treats posts as
// opaque data and never fetches them itself.
type Source interface {
	Posts(ctx context.Context) ([]components.Post, error)
}

// FileSource reads posts from a YAML (or JSON) document on disk. The document
// is either a list of posts or a mapping with a "posts" key.
type FileSource struct {
	Path string
}

type postsDocument struct {
	Posts []components.Post `yaml:"posts"`
}

// Posts reads and decodes the file, newest post first.
func (s FileSource) Posts(ctx context.Context) ([]components.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read posts: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, feedkiterrors.NewParseError(s.Path, 0, err)
	}
	if len(node.Content) == 0 {
		return []components.Post{}, nil
	}

	var posts []components.Post
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		err = root.Decode(&posts)
	default:
		var doc postsDocument
		err = root.Decode(&doc)
		posts = doc.Posts
	}
	if err != nil {
		return nil, feedkiterrors.NewParseError(s.Path, root.Line, err)
	}

	sortPosts(posts)
	return posts, nil
}

// SampleSource returns a fixed set of posts relative to Now.
type SampleSource struct {
	Now func() time.Time
}

// Posts returns the sample posts.
func (s SampleSource) Posts(ctx context.Context) ([]components.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	posts := []components.Post{
		{
			ID:       "1",
			Author:   "Ada Lovelace",
			Handle:   "ada",
			Body:     "Shipped the new engine notes today. The loops finally terminate.",
			Tags:     []string{"#engines", "#math"},
			Likes:    42,
			Replies:  7,
			PostedAt: now.Add(-5 * time.Minute),
		},
		{
			ID:       "2",
			Author:   "Grace Hopper",
			Handle:   "grace",
			Body:     "Found an actual moth in relay 70. Taped it into the log book.",
			Tags:     []string{"#debugging"},
			Likes:    128,
			Replies:  23,
			PostedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:       "3",
			Author:   "Alan Turing",
			Handle:   "alan",
			Body:     "Can machines think? Asking for a friend.",
			Tags:     []string{"#math", "#ai"},
			Likes:    64,
			Replies:  31,
			PostedAt: now.Add(-26 * time.Hour),
		},
	}
	sortPosts(posts)
	return posts, nil
}

func sortPosts(posts []components.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PostedAt.After(posts[j].PostedAt)
	})
}
