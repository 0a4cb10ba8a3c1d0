package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/feedkit/feedkit/internal/validation"
	feederrors "github.com/feedkit/feedkit/pkg/errors"
)

const appName = "feedkit"

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:  "1.0.0",
		LogLevel: "info",
		Plugins:  PluginsConfig{Disabled: []string{"compact"}},
		PackDir:  filepath.Join(dataHome(), appName, "packs"),
	}
}

// DefaultPath is $XDG_CONFIG_HOME/feedkit/config.yaml.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(homeDir(), ".config")
	}
	return filepath.Join(base, appName, "config.yaml")
}

// DefaultLogPath is $XDG_STATE_HOME/feedkit/feedkit.log. The interactive
// feed logs there while it owns the terminal.
func DefaultLogPath() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		base = filepath.Join(homeDir(), ".local", "state")
	}
	return filepath.Join(base, appName, appName+".log")
}

// Load reads the configuration at path over the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, feederrors.NewParseError(path, 0, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, feederrors.NewParseError(path, extractLine(err), err)
	}

	cfg.expandPaths(filepath.Dir(path))

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate performs schema validation on cfg.
func Validate(cfg *Config) error {
	if cfg == nil {
		return feederrors.NewValidationError("config", "configuration is nil", nil)
	}
	return validation.Struct("config", cfg)
}

// PackIndexPath is the location of the installed theme pack index.
func (c *Config) PackIndexPath() string {
	return filepath.Join(c.PackDir, "index.json")
}

// expandPaths resolves "~" and paths relative to the config file directory.
func (c *Config) expandPaths(base string) {
	resolve := func(p string) string {
		if p == "" {
			return p
		}
		if p == "~" || strings.HasPrefix(p, "~/") {
			p = filepath.Join(homeDir(), strings.TrimPrefix(p, "~"))
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		return filepath.Clean(p)
	}

	for i, p := range c.ThemePacks {
		c.ThemePacks[i] = resolve(p)
	}
	for i, p := range c.Scripts {
		c.Scripts[i] = resolve(p)
	}
	c.PackDir = resolve(c.PackDir)
	c.Posts = resolve(c.Posts)
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

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func dataHome() string {
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return base
	}
	return filepath.Join(homeDir(), ".local", "share")
}
