package plugin

import (
	"fmt"
	"strconv"
	"strings"
)

// VersionConstraint restricts acceptable plugin versions to a single major version.
type VersionConstraint struct {
	MajorVersion int
}

// ParseVersionConstraint parses a string in the form "N.x" into a VersionConstraint.
func ParseVersionConstraint(s string) (*VersionConstraint, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("version constraint string is empty")
	}

	major, ok := strings.CutSuffix(trimmed, ".x")
	if !ok {
		return nil, fmt.Errorf("invalid version constraint '%s' (expected format: N.x)", s)
	}

	value, err := strconv.Atoi(major)
	if err != nil {
		return nil, fmt.Errorf("invalid major version in constraint '%s'", s)
	}
	if value < 0 {
		return nil, fmt.Errorf("major version must be non-negative in constraint '%s'", s)
	}

	return &VersionConstraint{MajorVersion: value}, nil
}

// Satisfies determines whether version satisfies the constraint. A nil
// constraint accepts everything.
func (vc *VersionConstraint) Satisfies(version string) bool {
	if vc == nil {
		return true
	}
	head, _, _ := strings.Cut(strings.TrimSpace(version), ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return false
	}
	return major == vc.MajorVersion
}

func (vc *VersionConstraint) String() string {
	if vc == nil {
		return ""
	}
	return fmt.Sprintf("%d.x", vc.MajorVersion)
}

// Dependency names a plugin that must be loaded first.
type Dependency struct {
	Name       string `validate:"required,plugin_name"`
	Constraint *VersionConstraint
}

// ParseDependency parses "name" or "name@N.x".
func ParseDependency(s string) (Dependency, error) {
	name, constraint, hasConstraint := strings.Cut(strings.TrimSpace(s), "@")
	if name == "" {
		return Dependency{}, fmt.Errorf("dependency '%s' has an empty name", s)
	}

	dep := Dependency{Name: name}
	if hasConstraint {
		vc, err := ParseVersionConstraint(constraint)
		if err != nil {
			return Dependency{}, fmt.Errorf("dependency '%s': %w", s, err)
		}
		dep.Constraint = vc
	}
	return dep, nil
}

func (d Dependency) String() string {
	if d.Constraint == nil {
		return d.Name
	}
	return d.Name + "@" + d.Constraint.String()
}
