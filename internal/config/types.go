package config

// Config is the feedkit application configuration.
type Config struct {
	Version    string            `yaml:"version" validate:"omitempty,semver"`
	// Theme names a builtin theme. Empty defers to a theme pack's base_theme.
	Theme      string            `yaml:"theme" validate:"omitempty,theme_name"`
	Locale     string            `yaml:"locale" validate:"omitempty,bcp47_language_tag"`
	LogLevel   string            `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Plugins    PluginsConfig     `yaml:"plugins"`
	ThemePacks []string          `yaml:"theme_packs" validate:"dive,required"`
	Scripts    []string          `yaml:"scripts" validate:"dive,required"`
	PackDir    string            `yaml:"pack_dir"`
	Watch      bool              `yaml:"watch"`
	Posts      string            `yaml:"posts"`
	Variant    map[string]string `yaml:"variant"`
	Metrics    MetricsConfig     `yaml:"metrics"`
}

// PluginsConfig selects which plugins load.
type PluginsConfig struct {
	Disabled []string `yaml:"disabled" validate:"dive,plugin_name"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// PluginEnabled reports whether name is not disabled.
func (c *Config) PluginEnabled(name string) bool {
	for _, disabled := range c.Plugins.Disabled {
		if disabled == name {
			return false
		}
	}
	return true
}
