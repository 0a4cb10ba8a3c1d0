package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedkit/feedkit/internal/components"
	"github.com/feedkit/feedkit/internal/config"
	"github.com/feedkit/feedkit/internal/feed"
	"github.com/feedkit/feedkit/internal/metrics"
	"github.com/feedkit/feedkit/internal/plugin"
	"github.com/feedkit/feedkit/internal/plugins/builtin"
	"github.com/feedkit/feedkit/internal/style"
	"github.com/feedkit/feedkit/internal/theme"
)

const midnightPack = `name: midnight
version: 1.0.0
base_theme: dark
overrides:
  - component: PostCard
    slot: container
    style:
      padding_x: 3
contributions:
  - point: home.content
    text: "midnight mode"
`

const clockScript = `
NAME = "clock"
VERSION = "1.0.0"
REQUIRES = ["core.header"]

register_extension("home.header", "12:00", priority = 50)
`

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.PackDir = filepath.Join(t.TempDir(), "packs")
	return cfg
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newRuntime(t *testing.T, cfg *config.Config, m *metrics.Metrics) *Runtime {
	t.Helper()
	rt, err := New(Options{Config: cfg, Metrics: m, Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt
}

func TestNewBindsComponents(t *testing.T) {
	rt := newRuntime(t, testConfig(t), nil)

	for _, c := range []style.ComponentName{components.PostCard, components.FeedHeader, components.Banner} {
		assert.True(t, rt.Factories.Bound(c), c)
	}
	assert.Equal(t, theme.NameLight, rt.Themes.Current().Name)
	assert.Zero(t, rt.Extensions.Len())
}

func TestNewRejectsUnknownTheme(t *testing.T) {
	cfg := testConfig(t)
	cfg.Theme = "neon"

	_, err := New(Options{Config: cfg})
	require.Error(t, err)
}

func TestBootstrapLoadsEnabledBuiltins(t *testing.T) {
	rt := newRuntime(t, testConfig(t), nil)
	require.NoError(t, rt.Bootstrap())

	assert.Equal(t, []string{builtin.CoreHeader, builtin.ComposeHint, builtin.Trending}, rt.Loader.Loaded())
	assert.Equal(t, plugin.StateUnloaded, rt.Loader.State(builtin.Compact))
	assert.Zero(t, rt.Overrides.Len())
	assert.NotEmpty(t, rt.Extensions.Contributions(components.PointHomeHeader))
}

func TestBootstrapWithCompactEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Plugins.Disabled = nil
	rt := newRuntime(t, cfg, nil)
	require.NoError(t, rt.Bootstrap())

	assert.Equal(t, plugin.StateLoaded, rt.Loader.State(builtin.Compact))
	slots, err := rt.Styles.Resolve(components.PostCard, nil, rt.Themes.Current())
	require.NoError(t, err)
	assert.Equal(t, 0, slots[components.SlotContainer][style.PropPaddingX])
}

func TestBootstrapLoadsThemePacksAndScripts(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.ThemePacks = []string{writeFile(t, dir, "midnight.yaml", midnightPack)}
	cfg.Scripts = []string{writeFile(t, dir, "clock.star", clockScript)}
	rt := newRuntime(t, cfg, nil)

	require.NoError(t, rt.Bootstrap())

	assert.Equal(t, plugin.StateLoaded, rt.Loader.State("midnight"))
	assert.Equal(t, plugin.StateLoaded, rt.Loader.State("clock"))
	assert.Equal(t, theme.NameDark, rt.Themes.Current().Name)
	require.Len(t, rt.Packs(), 1)

	override, ok := rt.Overrides.Override(components.PostCard, components.SlotContainer)
	require.True(t, ok)
	assert.Equal(t, 3, override[style.PropPaddingX])

	out, err := feed.RenderOnce(context.Background(), rt.Renderer(), rt.Source(), 80)
	require.NoError(t, err)
	assert.Contains(t, out, "midnight mode")
	assert.Contains(t, out, "12:00")
}

func TestConfiguredThemeWinsOverPackBaseTheme(t *testing.T) {
	cfg := testConfig(t)
	cfg.Theme = theme.NameLight
	cfg.ThemePacks = []string{writeFile(t, t.TempDir(), "midnight.yaml", midnightPack)}
	rt := newRuntime(t, cfg, nil)

	require.NoError(t, rt.Bootstrap())
	assert.Equal(t, theme.NameLight, rt.Themes.Current().Name)
}

func TestBootstrapReportsBrokenScriptButLoadsTheRest(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scripts = []string{writeFile(t, t.TempDir(), "broken.star", "NAME = \n")}
	rt := newRuntime(t, cfg, nil)

	err := rt.Bootstrap()
	require.Error(t, err)
	assert.Equal(t, plugin.StateLoaded, rt.Loader.State(builtin.CoreHeader))
}

func TestReloadReappliesAndClearsOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	path := writeFile(t, dir, "midnight.yaml", midnightPack)
	cfg.ThemePacks = []string{path}
	rt := newRuntime(t, cfg, nil)
	require.NoError(t, rt.Bootstrap())

	writeFile(t, dir, "midnight.yaml", "name: midnight\nversion: 1.0.1\n")
	require.NoError(t, rt.Reload())

	_, ok := rt.Overrides.Override(components.PostCard, components.SlotContainer)
	assert.False(t, ok)
	assert.Equal(t, "1.0.1", rt.Packs()[0].Version)
}

const paddingPack = `name: ocean
version: 1.0.0
overrides:
  - component: PostCard
    slot: container
    style:
      padding_x: 4
`

const paddingScript = `
NAME = "roomy"
VERSION = "1.0.0"

set_override("PostCard", "container", {"padding_x": 12})
`

func containerPadding(t *testing.T, rt *Runtime) any {
	t.Helper()
	override, ok := rt.Overrides.Override(components.PostCard, components.SlotContainer)
	require.True(t, ok)
	return override[style.PropPaddingX]
}

func TestReloadKeepsLaterPluginOverride(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.ThemePacks = []string{writeFile(t, dir, "ocean.yaml", paddingPack)}
	cfg.Scripts = []string{writeFile(t, dir, "roomy.star", paddingScript)}
	rt := newRuntime(t, cfg, nil)
	require.NoError(t, rt.Bootstrap())
	require.Equal(t, 12, containerPadding(t, rt))

	require.NoError(t, rt.Reload())
	assert.Equal(t, 12, containerPadding(t, rt))
}

func TestReloadRestoresBuiltinOverrideDroppedByPack(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.ThemePacks = []string{writeFile(t, dir, "ocean.yaml", paddingPack)}
	base := plugin.Descriptor{
		Name:    "base",
		Version: "1.0.0",
		Overrides: []plugin.OverrideIntent{{
			Component: components.PostCard,
			Slot:      components.SlotContainer,
			Style:     style.Fragment{style.PropPaddingX: 2},
		}},
	}
	rt, err := New(Options{Config: cfg, Builtins: []plugin.Descriptor{base}, Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	require.NoError(t, rt.Bootstrap())
	require.Equal(t, 4, containerPadding(t, rt))

	writeFile(t, dir, "ocean.yaml", "name: ocean\nversion: 1.0.1\n")
	require.NoError(t, rt.Reload())

	assert.Equal(t, plugin.StateLoaded, rt.Loader.State("base"))
	assert.Equal(t, 2, containerPadding(t, rt))
}

func TestReloadSkipsPacksTheLoaderDoesNotHold(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.ThemePacks = []string{dir}
	writeFile(t, dir, "needy.yaml", `name: needy
version: 1.0.0
requires: ["missing.dep"]
overrides:
  - component: PostCard
    slot: header
    style:
      bold: true
`)
	rt := newRuntime(t, cfg, nil)
	require.Error(t, rt.Bootstrap())
	require.Zero(t, rt.Overrides.Len())
	assert.Empty(t, rt.Packs())

	writeFile(t, dir, "late.yaml", paddingPack)
	require.NoError(t, rt.Reload())

	assert.Equal(t, plugin.StateUnloaded, rt.Loader.State("needy"))
	assert.Equal(t, plugin.StateUnloaded, rt.Loader.State("ocean"))
	assert.Zero(t, rt.Overrides.Len())
	assert.Empty(t, rt.Packs())
}

func TestReloadKeepsOverridesOnParseError(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t)
	cfg.ThemePacks = []string{writeFile(t, dir, "midnight.yaml", midnightPack)}
	rt := newRuntime(t, cfg, nil)
	require.NoError(t, rt.Bootstrap())

	writeFile(t, dir, "midnight.yaml", "name: [broken\n")
	require.Error(t, rt.Reload())

	_, ok := rt.Overrides.Override(components.PostCard, components.SlotContainer)
	assert.True(t, ok)
}

func TestMetricsObserveLoadsAndRegistryVersions(t *testing.T) {
	m := metrics.New("")
	rt := newRuntime(t, testConfig(t), m)
	require.NoError(t, rt.Bootstrap())

	_, err := rt.Styles.Resolve(components.PostCard, nil, rt.Themes.Current())
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "feedkit_plugin_loads_total", "feedkit_registry_version", "feedkit_style_resolutions_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 5)
}

func TestSourceFollowsConfig(t *testing.T) {
	cfg := testConfig(t)
	rt := newRuntime(t, cfg, nil)
	assert.IsType(t, feed.SampleSource{}, rt.Source())

	cfg.Posts = "/tmp/posts.yaml"
	assert.Equal(t, feed.FileSource{Path: "/tmp/posts.yaml"}, rt.Source())
}
