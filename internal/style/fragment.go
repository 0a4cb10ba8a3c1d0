package style

import (
	"fmt"
	"sort"
	"strings"
)

// Fragment is a bag of style properties for one slot. The core treats values
// as opaque and only ever merges fragments by shallow key overwrite.
type Fragment map[string]any

// Clone returns a shallow copy. Cloning nil yields an empty fragment.
func (f Fragment) Clone() Fragment {
	out := make(Fragment, len(f))
	for key, value := range f {
		out[key] = value
	}
	return out
}

// Keys returns the property names in sorted order.
func (f Fragment) Keys() []string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// String renders the fragment with sorted keys, e.g. "{bold=true padding=8}".
func (f Fragment) String() string {
	parts := make([]string, 0, len(f))
	for _, key := range f.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", key, f[key]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Merge returns a new fragment holding every property of base, with the
// properties of override taking precedence. Neither input is modified.
func Merge(base, override Fragment) Fragment {
	out := base.Clone()
	for key, value := range override {
		out[key] = value
	}
	return out
}

// Slots maps slot names to fragments for one component.
type Slots map[SlotName]Fragment

// Names returns the slot names in sorted order.
func (s Slots) Names() []SlotName {
	names := make([]SlotName, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Get returns the fragment for slot, or an empty fragment.
func (s Slots) Get(slot SlotName) Fragment {
	if frag, ok := s[slot]; ok {
		return frag
	}
	return Fragment{}
}

// String renders one line per slot property, sorted, e.g. "container.padding = 8".
func (s Slots) String() string {
	var b strings.Builder
	for _, name := range s.Names() {
		frag := s[name]
		for _, key := range frag.Keys() {
			fmt.Fprintf(&b, "%s.%s = %v\n", name, key, frag[key])
		}
	}
	return b.String()
}

// Variant carries the variant props a component was rendered with. Factories
// may branch on it; the resolver passes it through untouched.
type Variant map[string]string

// Get returns the value for key or fallback when unset.
func (v Variant) Get(key, fallback string) string {
	if value, ok := v[key]; ok && value != "" {
		return value
	}
	return fallback
}
