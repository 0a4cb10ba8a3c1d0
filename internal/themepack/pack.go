// Package themepack loads declarative theme packs: YAML or TOML documents
// that override component styles and contribute static content. A pack is
// turned into a plugin descriptor whose intents the loader applies.
package themepack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/feedkit/feedkit/internal/extension"
	"github.com/feedkit/feedkit/internal/plugin"
	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/validation"
	feederrors "github.com/feedkit/feedkit/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Override replaces one component slot style.
type Override struct {
	Component string         `yaml:"component" toml:"component" validate:"required,component_name"`
	Slot      string         `yaml:"slot" toml:"slot" validate:"required,slot_name"`
	Style     map[string]any `yaml:"style" toml:"style" validate:"required"`
}

// Contribution adds static text to an extension point.
type Contribution struct {
	Point     string `yaml:"point" toml:"point" validate:"required,point_name"`
	Text      string `yaml:"text" toml:"text" validate:"required"`
	Priority  *int   `yaml:"priority,omitempty" toml:"priority,omitempty"`
	Component string `yaml:"component,omitempty" toml:"component,omitempty" validate:"omitempty,component_name"`
	Slot      string `yaml:"slot,omitempty" toml:"slot,omitempty" validate:"omitempty,slot_name"`
}

// Pack is one theme pack document.
type Pack struct {
	Name          string         `yaml:"name" toml:"name" validate:"required,plugin_name"`
	Version       string         `yaml:"version" toml:"version" validate:"required,semver"`
	Description   string         `yaml:"description,omitempty" toml:"description,omitempty"`
	BaseTheme     string         `yaml:"base_theme,omitempty" toml:"base_theme,omitempty" validate:"omitempty,theme_name"`
	Requires      []string       `yaml:"requires,omitempty" toml:"requires,omitempty"`
	Overrides     []Override     `yaml:"overrides,omitempty" toml:"overrides,omitempty" validate:"dive"`
	Contributions []Contribution `yaml:"contributions,omitempty" toml:"contributions,omitempty" validate:"dive"`

	// Path is the file the pack was read from.
	Path string `yaml:"-" toml:"-"`
}

// IsPackFile reports whether path has a theme pack extension.
func IsPackFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// Parse decodes and validates a pack. The format is chosen by the path
// extension.
func Parse(path string, data []byte) (*Pack, error) {
	var pack Pack

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &pack); err != nil {
			line := 0
			var decodeErr *toml.DecodeError
			if errors.As(err, &decodeErr) {
				line, _ = decodeErr.Position()
			}
			return nil, feederrors.NewParseError(path, line, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, feederrors.NewParseError(path, extractLine(err), err)
		}
	default:
		return nil, feederrors.NewParseError(path, 0, fmt.Errorf("unsupported theme pack format %q", filepath.Ext(path)))
	}

	pack.Path = path
	if err := validation.Struct("themepack", pack); err != nil {
		return nil, err
	}
	for _, raw := range pack.Requires {
		if _, err := plugin.ParseDependency(raw); err != nil {
			return nil, feederrors.NewValidationError("themepack.requires", err.Error(), err)
		}
	}
	return &pack, nil
}

// LoadFile reads and parses one pack.
func LoadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, feederrors.NewParseError(path, 0, err)
	}
	return Parse(path, data)
}

// LoadPaths loads packs from files and directories. Directories contribute
// every pack file they contain, in lexical order. Missing paths are skipped.
func LoadPaths(paths []string) ([]*Pack, error) {
	var packs []*Pack
	for _, path := range paths {
		files, err := packFiles(path)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			pack, err := LoadFile(file)
			if err != nil {
				return nil, err
			}
			packs = append(packs, pack)
		}
	}
	return packs, nil
}

func packFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && IsPackFile(entry.Name()) {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Fragment returns the override style with numbers normalised to int where
// they are whole, so YAML and TOML packs produce identical fragments.
func (o Override) Fragment() style.Fragment {
	fragment := make(style.Fragment, len(o.Style))
	for key, value := range o.Style {
		fragment[key] = normalise(value)
	}
	return fragment
}

func normalise(value any) any {
	switch v := value.(type) {
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return value
}

// Descriptor converts the pack into a plugin descriptor made of intents only.
func (p *Pack) Descriptor() plugin.Descriptor {
	d := plugin.Descriptor{
		Name:        p.Name,
		Version:     p.Version,
		Description: p.Description,
		Source:      p.Path,
	}

	for _, raw := range p.Requires {
		if dep, err := plugin.ParseDependency(raw); err == nil {
			d.Requires = append(d.Requires, dep)
		}
	}

	for _, o := range p.Overrides {
		d.Overrides = append(d.Overrides, plugin.OverrideIntent{
			Component: style.ComponentName(o.Component),
			Slot:      style.SlotName(o.Slot),
			Style:     o.Fragment(),
		})
	}

	for _, c := range p.Contributions {
		d.Extensions = append(d.Extensions, plugin.ExtensionIntent{
			Point:    extension.PointName(c.Point),
			Name:     c.Text,
			Priority: c.Priority,
			Render:   extension.Text(c.Text, style.ComponentName(c.Component), style.SlotName(c.Slot)),
		})
	}
	return d
}

func extractLine(err error) int {
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
