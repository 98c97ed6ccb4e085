package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/dshills/findreplace/internal/input/key"
)

var (
	validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validEnvs   = map[string]bool{"development": true, "production": true}
	validAction = func() map[string]bool {
		m := make(map[string]bool)
		for action := range key.DefaultBindings() {
			m[action] = true
		}
		return m
	}()
)

// Validate checks every field and returns all problems found. Each problem
// is a *ValidationError matching ErrValidationFailed.
func (c *Config) Validate() error {
	var result *multierror.Error
	fail := func(path, msg string, value any) {
		result = multierror.Append(result, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if c.Find.Keystroke != "" {
		if _, err := key.Parse(c.Find.Keystroke); err != nil {
			fail("find.keystroke", err.Error(), c.Find.Keystroke)
		}
	}
	if c.Find.MaxResults < 0 {
		fail("find.max_results", "must not be negative", c.Find.MaxResults)
	}

	for action, spec := range c.Keys {
		path := fmt.Sprintf("keys.%s", action)
		if !validAction[action] {
			fail(path, "unknown action", action)
			continue
		}
		if _, err := key.Parse(spec); err != nil {
			fail(path, err.Error(), spec)
		}
	}

	if !validLevels[c.Logging.Level] {
		fail("logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}
	if !validEnvs[c.Logging.Env] {
		fail("logging.env", "must be development or production", c.Logging.Env)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		fail("metrics.addr", "required when metrics are enabled", c.Metrics.Addr)
	}

	if c.Plugins.TimeoutMS < 0 {
		fail("plugins.timeout_ms", "must not be negative", c.Plugins.TimeoutMS)
	}
	for i, s := range c.Plugins.Scripts {
		if s == "" {
			fail(fmt.Sprintf("plugins.scripts[%d]", i), "must not be empty", s)
		}
	}

	if result != nil {
		result.ErrorFormat = formatErrors
	}
	return result.ErrorOrNil()
}

func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return "invalid config: " + errs[0].Error()
	}
	s := fmt.Sprintf("invalid config: %d problems:", len(errs))
	for _, err := range errs {
		s += "\n  " + err.Error()
	}
	return s
}
