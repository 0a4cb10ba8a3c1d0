package style

import (
	"fmt"
	"regexp"
)

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]{0,63}$`)

// ComponentName identifies a component type, e.g. "PostCard".
type ComponentName string

// SlotName identifies one overridable region of a component, e.g. "container".
type SlotName string

// ValidName reports whether s is acceptable as a component or slot name.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}

// ParseComponentName validates s and converts it to a ComponentName. Names
// that come from configuration, theme packs or scripts go through here;
// compiled code uses typed constants.
func ParseComponentName(s string) (ComponentName, error) {
	if !ValidName(s) {
		return "", fmt.Errorf("invalid component name '%s' (expected %s)", s, namePattern.String())
	}
	return ComponentName(s), nil
}

// ParseSlotName validates s and converts it to a SlotName.
func ParseSlotName(s string) (SlotName, error) {
	if !ValidName(s) {
		return "", fmt.Errorf("invalid slot name '%s' (expected %s)", s, namePattern.String())
	}
	return SlotName(s), nil
}

// Key uniquely identifies one overridable region of one component type.
type Key struct {
	Component ComponentName
	Slot      SlotName
}

func (k Key) String() string {
	return string(k.Component) + "." + string(k.Slot)
}

func lessKey(a, b Key) bool {
	if a.Component != b.Component {
		return a.Component < b.Component
	}
	return a.Slot < b.Slot
}
