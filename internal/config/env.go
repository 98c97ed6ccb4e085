package config

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// envBinding maps one environment variable (without prefix) to a field.
type envBinding struct {
	name string
	set  func(*Config, string) error
}

var envBindings = []envBinding{
	{"FIND_KEYSTROKE", stringField(func(c *Config) *string { return &c.Find.Keystroke })},
	{"FIND_MATCH_CASE", boolField(func(c *Config) *bool { return &c.Find.MatchCase })},
	{"FIND_WHOLE_WORDS", boolField(func(c *Config) *bool { return &c.Find.WholeWords })},
	{"FIND_REGEX", boolField(func(c *Config) *bool { return &c.Find.Regex })},
	{"FIND_MAX_RESULTS", intField(func(c *Config) *int { return &c.Find.MaxResults })},
	{"LOG_LEVEL", stringField(func(c *Config) *string { return &c.Logging.Level })},
	{"LOG_ENV", stringField(func(c *Config) *string { return &c.Logging.Env })},
	{"LOG_FILE", stringField(func(c *Config) *string { return &c.Logging.File })},
	{"METRICS_ENABLED", boolField(func(c *Config) *bool { return &c.Metrics.Enabled })},
	{"METRICS_ADDR", stringField(func(c *Config) *string { return &c.Metrics.Addr })},
	{"PLUGINS_SCRIPTS", listField(func(c *Config) *[]string { return &c.Plugins.Scripts })},
	{"PLUGINS_TIMEOUT_MS", intField(func(c *Config) *int { return &c.Plugins.TimeoutMS })},
}

// EnvVars returns the names of all recognized environment variables.
func (l *Loader) EnvVars() []string {
	names := make([]string, len(envBindings))
	for i, b := range envBindings {
		names[i] = l.prefix + b.name
	}
	return names
}

// applyEnv overrides cfg with environment variables. Malformed values are
// collected and reported together.
func (l *Loader) applyEnv(cfg *Config) error {
	var result *multierror.Error
	for _, b := range envBindings {
		name := l.prefix + b.name
		v, ok := l.lookupEnv(name)
		if !ok {
			continue
		}
		if err := b.set(cfg, v); err != nil {
			result = multierror.Append(result, &ValidationError{
				Path:    name,
				Message: err.Error(),
				Value:   v,
			})
		}
	}
	return result.ErrorOrNil()
}

func stringField(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func boolField(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func intField(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

// listField parses a comma-separated list, dropping empty items.
func listField(field func(*Config) *[]string) func(*Config, string) error {
	return func(c *Config, v string) error {
		var items []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*field(c) = items
		return nil
	}
}
