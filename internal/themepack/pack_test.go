package themepack

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedkit/feedkit/internal/extension"
	"github.com/feedkit/feedkit/internal/plugin"
	"github.com/feedkit/feedkit/internal/style"
	feederrors "github.com/feedkit/feedkit/pkg/errors"
)

const oceanYAML = `name: ocean
version: 1.0.0
description: Calm blues
base_theme: dark
overrides:
  - component: PostCard
    slot: container
    style:
      padding_x: 2
      border: double
      border_foreground: info
contributions:
  - point: home.header
    text: "~ ocean ~"
    priority: 50
    component: Banner
    slot: text
`

const oceanTOML = `name = "ocean"
version = "1.0.0"
description = "Calm blues"
base_theme = "dark"

[[overrides]]
component = "PostCard"
slot = "container"
style = { padding_x = 2, border = "double", border_foreground = "info" }

[[contributions]]
point = "home.header"
text = "~ ocean ~"
priority = 50
component = "Banner"
slot = "text"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestYAMLAndTOMLProduceSamePack(t *testing.T) {
	fromYAML, err := Parse("ocean.yaml", []byte(oceanYAML))
	require.NoError(t, err)
	fromTOML, err := Parse("ocean.toml", []byte(oceanTOML))
	require.NoError(t, err)

	assert.Equal(t, "ocean", fromYAML.Name)
	assert.Equal(t, "dark", fromYAML.BaseTheme)
	assert.Equal(t, fromYAML.Overrides[0].Fragment(), fromTOML.Overrides[0].Fragment())
	assert.Equal(t, style.Fragment{"padding_x": 2, "border": "double", "border_foreground": "info"}, fromTOML.Overrides[0].Fragment())
	assert.Equal(t, 50, *fromTOML.Contributions[0].Priority)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		content   string
		wantLine  int
		wantParse bool
		field     string
	}{
		{name: "yaml syntax", path: "bad.yaml", content: "name: ocean\nversion: [1.0.0\n", wantParse: true},
		{name: "toml syntax", path: "bad.toml", content: "name = \"ocean\"\nversion = \n", wantParse: true, wantLine: 2},
		{name: "unknown format", path: "bad.json", content: "{}", wantParse: true},
		{name: "missing version", path: "p.yaml", content: "name: ocean\n", field: "themepack.version"},
		{name: "bad component", path: "p.yaml", content: "name: ocean\nversion: 1.0.0\noverrides:\n  - component: Post Card\n    slot: container\n    style: {padding: 1}\n", field: "themepack.overrides[0].component"},
		{name: "bad base theme", path: "p.yaml", content: "name: ocean\nversion: 1.0.0\nbase_theme: neon\n", field: "themepack.basetheme"},
		{name: "bad requires", path: "p.yaml", content: "name: ocean\nversion: 1.0.0\nrequires: ['core@one']\n", field: "themepack.requires"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.path, []byte(tt.content))
			require.Error(t, err)

			if tt.wantParse {
				var parseErr *feederrors.ParseError
				require.True(t, stderrors.As(err, &parseErr), "got %v", err)
				assert.Equal(t, tt.path, parseErr.Path)
				if tt.wantLine > 0 {
					assert.Equal(t, tt.wantLine, parseErr.Line)
				}
				return
			}

			var validationErr *feederrors.ValidationError
			require.True(t, stderrors.As(err, &validationErr), "got %v", err)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestLoadPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.toml", oceanTOML)
	writeFile(t, dir, "a.yaml", "name: alpha\nversion: 1.0.0\n")
	writeFile(t, dir, "README.md", "not a pack")
	single := writeFile(t, t.TempDir(), "solo.yml", "name: solo\nversion: 2.0.0\n")

	packs, err := LoadPaths([]string{dir, single, filepath.Join(dir, "missing")})
	require.NoError(t, err)
	require.Len(t, packs, 3)
	assert.Equal(t, "alpha", packs[0].Name)
	assert.Equal(t, "ocean", packs[1].Name)
	assert.Equal(t, "solo", packs[2].Name)
	assert.Equal(t, single, packs[2].Path)
}

func TestDescriptorLoadsThroughPluginLoader(t *testing.T) {
	pack, err := Parse("ocean.yaml", []byte(oceanYAML))
	require.NoError(t, err)

	ext := extension.NewRegistry()
	overrides := style.NewRegistry()
	loader := plugin.NewLoader(ext, overrides)

	d := pack.Descriptor()
	assert.Equal(t, "ocean.yaml", d.Source)
	require.NoError(t, loader.Load(d))

	fragment, ok := overrides.Override("PostCard", "container")
	require.True(t, ok)
	assert.Equal(t, "double", fragment["border"])

	contributions := ext.Contributions("home.header")
	require.Len(t, contributions, 1)
	assert.Equal(t, 50, contributions[0].Priority)
	assert.Equal(t, "ocean", contributions[0].Plugin)
	assert.Equal(t, "~ ocean ~", contributions[0].Render(extension.RenderContext{}))
}
