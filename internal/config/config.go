package config

import (
	"time"

	"github.com/dshills/findreplace/internal/find/matcher"
	"github.com/dshills/findreplace/internal/input/key"
)

// Config is the complete findreplace configuration.
type Config struct {
	Find    FindConfig        `toml:"find" yaml:"find"`
	Keys    map[string]string `toml:"keys" yaml:"keys"`
	Logging LoggingConfig     `toml:"logging" yaml:"logging"`
	Metrics MetricsConfig     `toml:"metrics" yaml:"metrics"`
	Plugins PluginsConfig     `toml:"plugins" yaml:"plugins"`
}

// FindConfig configures searching.
type FindConfig struct {
	// Keystroke opens the find bar. It overrides keys.open.
	Keystroke string `toml:"keystroke" yaml:"keystroke"`

	MatchCase  bool `toml:"match_case" yaml:"match_case"`
	WholeWords bool `toml:"whole_words" yaml:"whole_words"`
	Regex      bool `toml:"regex" yaml:"regex"`

	// MaxResults caps the results of one search. 0 means no cap.
	MaxResults int `toml:"max_results" yaml:"max_results"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
	// Env is development (console output) or production (JSON).
	Env string `toml:"env" yaml:"env"`
	// File receives log output. Empty means stderr.
	File string `toml:"file" yaml:"file"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `toml:"enabled" yaml:"enabled"`
	Addr      string `toml:"addr" yaml:"addr"`
	Namespace string `toml:"namespace" yaml:"namespace"`
}

// PluginsConfig configures Lua scripts.
type PluginsConfig struct {
	Scripts   []string `toml:"scripts" yaml:"scripts"`
	TimeoutMS int      `toml:"timeout_ms" yaml:"timeout_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Find: FindConfig{
			Keystroke:  "Ctrl+F",
			MaxResults: 10000,
		},
		Logging: LoggingConfig{
			Level: "info",
			Env:   "production",
		},
		Metrics: MetricsConfig{
			Addr:      "127.0.0.1:9464",
			Namespace: "findreplace",
		},
		Plugins: PluginsConfig{
			TimeoutMS: 1000,
		},
	}
}

// MatchOptions returns the default match options for new sessions.
func (c *Config) MatchOptions() matcher.Options {
	return matcher.Options{
		MatchCase:  c.Find.MatchCase,
		WholeWords: c.Find.WholeWords,
		Regex:      c.Find.Regex,
	}
}

// Bindings returns the find bar key bindings: the defaults, overridden by
// the keys table, with find.keystroke as the open binding.
func (c *Config) Bindings() map[string]string {
	b := key.DefaultBindings()
	for action, spec := range c.Keys {
		b[action] = spec
	}
	if c.Find.Keystroke != "" {
		b[key.ActionOpen] = c.Find.Keystroke
	}
	return b
}

// Keymap builds the find bar keymap from Bindings.
func (c *Config) Keymap() (*key.Keymap, error) {
	return key.NewKeymap(c.Bindings())
}

// PluginTimeout returns the per-call script timeout. 0 means none.
func (c *Config) PluginTimeout() time.Duration {
	return time.Duration(c.Plugins.TimeoutMS) * time.Millisecond
}
