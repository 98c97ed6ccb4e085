package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/findreplace/internal/find/matcher"
	"github.com/dshills/findreplace/internal/input/key"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return data, nil
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func newTestLoader(memfs *MemFS, vars map[string]string) *Loader {
	return NewLoader(WithFS(memfs), WithLookupEnv(env(vars)))
}

func TestDefaults(t *testing.T) {
	cfg, err := newTestLoader(NewMemFS(), nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, matcher.Options{}, cfg.MatchOptions())
	assert.Equal(t, time.Second, cfg.PluginTimeout())
	require.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/findreplace.toml", `
[find]
keystroke = "<C-s>"
match_case = true
max_results = 50

[keys]
findPrevious = "Alt+P"

[logging]
level = "debug"

[plugins]
scripts = ["a.lua", "b.lua"]
`)
	cfg, err := newTestLoader(memfs, nil).Load("/cfg/findreplace.toml")
	require.NoError(t, err)

	assert.Equal(t, "<C-s>", cfg.Find.Keystroke)
	assert.True(t, cfg.Find.MatchCase)
	assert.Equal(t, 50, cfg.Find.MaxResults)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "production", cfg.Logging.Env, "unset keys keep defaults")
	assert.Equal(t, []string{"a.lua", "b.lua"}, cfg.Plugins.Scripts)

	km, err := cfg.Keymap()
	require.NoError(t, err)
	action, ok := km.Lookup(key.MustParse("Ctrl+S"))
	require.True(t, ok)
	assert.Equal(t, key.ActionOpen, action)
	action, ok = km.Lookup(key.MustParse("Alt+P"))
	require.True(t, ok)
	assert.Equal(t, key.ActionFindPrevious, action)
}

func TestLoadYAML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/findreplace.yml", `
find:
  whole_words: true
  regex: true
metrics:
  enabled: true
  addr: ":9000"
`)
	cfg, err := newTestLoader(memfs, nil).Load("/cfg/findreplace.yml")
	require.NoError(t, err)
	assert.Equal(t, matcher.Options{WholeWords: true, Regex: true}, cfg.MatchOptions())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9000", cfg.Metrics.Addr)
	assert.Equal(t, "findreplace", cfg.Metrics.Namespace)
}

func TestLoadEmptyYAML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/empty.yaml", "")
	cfg, err := newTestLoader(memfs, nil).Load("/empty.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[find\nkeystroke = 1")
	memfs.AddFile("/unknown.toml", "[find]\ncolour = \"red\"\n")
	memfs.AddFile("/unknown.yaml", "find:\n  colour: red\n")
	memfs.AddFile("/cfg.json", "{}")
	l := newTestLoader(memfs, nil)

	_, err := l.Load("/missing.toml")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = l.Load("/cfg.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	var perr *ParseError
	_, err = l.Load("/bad.toml")
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/bad.toml", perr.Path)
	assert.Positive(t, perr.Line)

	_, err = l.Load("/unknown.toml")
	assert.ErrorAs(t, err, &perr)

	_, err = l.Load("/unknown.yaml")
	assert.ErrorAs(t, err, &perr)
}

func TestEnvOverrides(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/c.toml", "[logging]\nlevel = \"debug\"\n")
	l := newTestLoader(memfs, map[string]string{
		"FINDREPLACE_LOG_LEVEL":        "warn",
		"FINDREPLACE_FIND_KEYSTROKE":   "Ctrl+G",
		"FINDREPLACE_FIND_REGEX":       "true",
		"FINDREPLACE_FIND_MAX_RESULTS": " 7 ",
		"FINDREPLACE_PLUGINS_SCRIPTS":  "x.lua, ,y.lua",
	})

	cfg, err := l.Load("/c.toml")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "Ctrl+G", cfg.Find.Keystroke)
	assert.True(t, cfg.Find.Regex)
	assert.Equal(t, 7, cfg.Find.MaxResults)
	assert.Equal(t, []string{"x.lua", "y.lua"}, cfg.Plugins.Scripts)

	assert.Contains(t, l.EnvVars(), "FINDREPLACE_LOG_LEVEL")
}

func TestEnvOverrideErrorsAreCollected(t *testing.T) {
	l := newTestLoader(NewMemFS(), map[string]string{
		"FINDREPLACE_FIND_REGEX":       "maybe",
		"FINDREPLACE_FIND_MAX_RESULTS": "lots",
	})
	_, err := l.Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, err.Error(), "FINDREPLACE_FIND_REGEX")
	assert.Contains(t, err.Error(), "FINDREPLACE_FIND_MAX_RESULTS")
}

func TestEnvPrefix(t *testing.T) {
	l := NewLoader(WithFS(NewMemFS()), WithEnvPrefix("FR_"), WithLookupEnv(env(map[string]string{
		"FR_LOG_ENV": "development",
	})))
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Logging.Env)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Find.Keystroke = "Hyper+F"
	cfg.Find.MaxResults = -1
	cfg.Keys = map[string]string{"launch": "Ctrl+L", key.ActionClose: "Nope+Q"}
	cfg.Logging.Level = "loud"
	cfg.Logging.Env = "staging"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Addr = ""
	cfg.Plugins.TimeoutMS = -5
	cfg.Plugins.Scripts = []string{""}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))
	for _, path := range []string{
		"find.keystroke", "find.max_results", "keys.launch", "keys.close",
		"logging.level", "logging.env", "metrics.addr", "plugins.timeout_ms",
		"plugins.scripts[0]",
	} {
		assert.Contains(t, err.Error(), path)
	}
	assert.Contains(t, err.Error(), "9 problems")
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "findreplace.toml")
	require.NoError(t, os.WriteFile(path, []byte("[find]\nmax_results = 1\n"), 0o644))

	w, err := NewWatcher(NewLoader(WithLookupEnv(env(nil))), path, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	reloaded := make(chan *Config, 4)
	w.OnReload(func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("[find]\nmax_results = 2\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 2, cfg.Find.MaxResults)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestWatcherCloseWaitsForRunningReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "findreplace.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	w, err := NewWatcher(NewLoader(WithLookupEnv(env(nil))), path, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	w.OnReload(func(*Config, error) {
		once.Do(func() {
			close(entered)
			<-release
		})
	})

	require.NoError(t, os.WriteFile(path, []byte("[find]\nmax_results = 3\n"), 0o644))
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	closed := make(chan struct{})
	go func() {
		_ = w.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a reload handler was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
}

func TestWatcherReportsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "findreplace.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	w, err := NewWatcher(NewLoader(WithLookupEnv(env(nil))), path, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	failed := make(chan error, 4)
	w.OnReload(func(cfg *Config, err error) {
		if err != nil {
			assert.Nil(t, cfg)
			failed <- err
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"loud\"\n"), 0o644))

	select {
	case err := <-failed:
		assert.ErrorIs(t, err, ErrValidationFailed)
	case <-time.After(5 * time.Second):
		t.Fatal("reload error not reported")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
