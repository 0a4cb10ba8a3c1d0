package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	feederrors "github.com/feedkit/feedkit/pkg/errors"
)

func TestLoad(t *testing.T) {
	validYAML := `version: "1.0.0"
theme: dark
locale: de-DE
log_level: debug
plugins:
  disabled: [trending]
theme_packs: [packs, /abs/ocean.yaml]
scripts: [~/scripts/weather.star]
watch: true
variant:
  density: compact
metrics:
  addr: "127.0.0.1:9464"
`

	cases := []struct {
		name     string
		contents string
		assert   func(t *testing.T, dir string, cfg *Config, err error)
	}{
		{
			name:     "valid configuration is parsed",
			contents: validYAML,
			assert: func(t *testing.T, dir string, cfg *Config, err error) {
				require.NoError(t, err)
				require.Equal(t, "dark", cfg.Theme)
				require.Equal(t, "de-DE", cfg.Locale)
				require.True(t, cfg.Watch)
				require.False(t, cfg.PluginEnabled("trending"))
				require.True(t, cfg.PluginEnabled("compact"))
				require.Equal(t, filepath.Join(dir, "packs"), cfg.ThemePacks[0])
				require.Equal(t, "/abs/ocean.yaml", cfg.ThemePacks[1])
				require.True(t, filepath.IsAbs(cfg.Scripts[0]))
				require.Equal(t, "compact", cfg.Variant["density"])
				require.Equal(t, "127.0.0.1:9464", cfg.Metrics.Addr)
			},
		},
		{
			name:     "partial file keeps defaults",
			contents: "theme: dark\n",
			assert: func(t *testing.T, _ string, cfg *Config, err error) {
				require.NoError(t, err)
				require.Equal(t, "info", cfg.LogLevel)
				require.False(t, cfg.PluginEnabled("compact"))
			},
		},
		{
			name:     "invalid yaml returns parse error",
			contents: "theme: [dark\n",
			assert: func(t *testing.T, _ string, _ *Config, err error) {
				var parseErr *feederrors.ParseError
				require.ErrorAs(t, err, &parseErr)
			},
		},
		{
			name:     "unknown theme returns validation error",
			contents: "theme: neon\n",
			assert: func(t *testing.T, _ string, _ *Config, err error) {
				var validationErr *feederrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "config.theme", validationErr.Field)
			},
		},
		{
			name:     "bad log level returns validation error",
			contents: "log_level: loud\n",
			assert: func(t *testing.T, _ string, _ *Config, err error) {
				var validationErr *feederrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "config.loglevel", validationErr.Field)
			},
		},
		{
			name:     "bad disabled plugin name returns validation error",
			contents: "plugins:\n  disabled: [\"Not A Plugin\"]\n",
			assert: func(t *testing.T, _ string, _ *Config, err error) {
				var validationErr *feederrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "config.plugins.disabled[0]", validationErr.Field)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.contents), 0o644))

			cfg, err := Load(path)
			tc.assert(t, dir, cfg, err)
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default().Theme, cfg.Theme)
	require.Equal(t, filepath.Join(cfg.PackDir, "index.json"), cfg.PackIndexPath())
}

func TestDefaultPathHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	require.Equal(t, "/tmp/xdg/feedkit/config.yaml", DefaultPath())
}

func TestDefaultLogPathHonoursXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	require.Equal(t, "/tmp/state/feedkit/feedkit.log", DefaultLogPath())

	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "/tmp/home")
	require.Equal(t, "/tmp/home/.local/state/feedkit/feedkit.log", DefaultLogPath())
}

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Validate(Default()))
	require.Error(t, Validate(nil))
}
