package extension

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/feedkit/feedkit/internal/notify"
)

// Registry maps extension point names to ordered contribution lists. Order is
// priority ascending; equal priorities keep registration order.
type Registry struct {
	mu      sync.RWMutex
	points  map[PointName][]Contribution
	changes notify.Broadcaster
}

// NewRegistry returns an empty extension registry.
func NewRegistry() *Registry {
	return &Registry{points: make(map[PointName][]Contribution)}
}

// Register appends contribution to point and re-sorts the point stably by
// priority. The stored contribution, with its assigned ID and priority, is
// returned. Registration never fails.
func (r *Registry) Register(point PointName, contribution Contribution, opts ...Option) Contribution {
	var reg registration
	for _, opt := range opts {
		opt(&reg)
	}

	contribution.ID = uuid.NewString()

	r.mu.Lock()
	existing := r.points[point]
	if reg.hasPriority {
		contribution.Priority = reg.priority
	} else {
		contribution.Priority = len(existing)
	}

	next := make([]Contribution, len(existing), len(existing)+1)
	copy(next, existing)
	next = append(next, contribution)
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].Priority < next[j].Priority
	})
	r.points[point] = next
	r.mu.Unlock()

	r.changes.Publish()
	return contribution
}

// Contributions returns the ordered contributions for point. Unknown points
// yield an empty, non-nil slice.
func (r *Registry) Contributions(point PointName) []Contribution {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.points[point]
	out := make([]Contribution, len(stored))
	copy(out, stored)
	return out
}

// Points lists the names of points with at least one contribution, sorted.
func (r *Registry) Points() []PointName {
	r.mu.RLock()
	names := make([]PointName, 0, len(r.points))
	for name, contributions := range r.points {
		if len(contributions) > 0 {
			names = append(names, name)
		}
	}
	r.mu.RUnlock()

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Len returns the total number of contributions across all points.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, contributions := range r.points {
		total += len(contributions)
	}
	return total
}

// ClearAll drops every contribution. Intended for test isolation.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	existed := len(r.points) > 0
	r.points = make(map[PointName][]Contribution)
	r.mu.Unlock()

	if existed {
		r.changes.Publish()
	}
}

// Version increases on every mutation.
func (r *Registry) Version() uint64 {
	return r.changes.Version()
}

// Subscribe registers fn to run after every mutation.
func (r *Registry) Subscribe(fn func()) notify.Subscription {
	return r.changes.Subscribe(fn)
}
