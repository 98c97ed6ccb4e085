// Package main is the entry point for findreplace.
//
// Without -find or -script it opens the file in an interactive terminal
// view with a find bar. With -find it prints every match, or replaces them
// all when -replace is given. With -script it runs Lua scripts against the
// file's find session.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/findreplace/internal/config"
	"github.com/dshills/findreplace/internal/engine/buffer"
	"github.com/dshills/findreplace/internal/find/matcher"
	"github.com/dshills/findreplace/internal/find/session"
	"github.com/dshills/findreplace/internal/logger"
	"github.com/dshills/findreplace/internal/metrics"
	luaplugin "github.com/dshills/findreplace/internal/plugin/lua"
	"github.com/dshills/findreplace/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes. exitNoMatch follows grep.
const (
	exitOK      = 0
	exitNoMatch = 1
	exitError   = 2
)

type options struct {
	configPath  string
	find        string
	replace     string
	replaceSet  bool
	matchCase   bool
	wholeWords  bool
	regex       bool
	scripts     []string
	metricsAddr string
	logLevel    string
	showVersion bool
	file        string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "findreplace %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return exitOK
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = opts.metricsAddr
	}

	interactive := opts.find == "" && len(opts.scripts) == 0
	log, err := newLogger(cfg, interactive)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer func() { _ = log.Sync() }()

	data, err := os.ReadFile(opts.file)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	buf := buffer.NewBufferFromString(string(data), buffer.WithName(opts.file))

	km, err := cfg.Keymap()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	sessOpts := []session.Option{
		session.WithLogger(log.Named("session")),
		session.WithDefaults(matchOptions(cfg, opts)),
		session.WithMaxResults(cfg.Find.MaxResults),
		session.WithKeymap(km),
	}
	if cfg.Metrics.Enabled {
		m := metrics.New(cfg.Metrics.Namespace)
		sessOpts = append(sessOpts, session.WithCommandRecorder(m), session.WithIndexRecorder(m))
		srv := serveMetrics(cfg.Metrics.Addr, m, log)
		defer func() { _ = srv.Close() }()
	}

	switch {
	case len(opts.scripts) > 0:
		return runScripts(opts, cfg, buf, sessOpts, log, stdout, stderr)
	case opts.find != "":
		return runOneShot(opts, buf, sessOpts, stdout, stderr)
	default:
		return runInteractive(opts, cfg, buf, sessOpts, log, stderr)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("findreplace", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.find, "find", "", "Search text; prints matches without opening the UI")
	fs.StringVar(&opts.replace, "replace", "", "Replacement text; with -find, replaces every match and writes the file")
	fs.BoolVar(&opts.matchCase, "match-case", false, "Match case")
	fs.BoolVar(&opts.wholeWords, "whole-words", false, "Match whole words only")
	fs.BoolVar(&opts.regex, "regex", false, "Treat the search text as a regular expression")
	fs.Func("script", "Lua script to run against the file (repeatable)", func(s string) error {
		opts.scripts = append(opts.scripts, s)
		return nil
	})
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "findreplace - find and replace in a file\n\n")
		fmt.Fprintf(stderr, "Usage: findreplace [options] file\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  findreplace notes.txt                      Open the interactive view\n")
		fmt.Fprintf(stderr, "  findreplace -find TODO main.go             List matches\n")
		fmt.Fprintf(stderr, "  findreplace -find foo -replace bar a.txt   Replace every match\n")
		fmt.Fprintf(stderr, "  findreplace -script fix.lua a.txt          Run a script\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "replace" {
			opts.replaceSet = true
		}
	})
	if opts.showVersion {
		return opts, nil
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
	}
	if opts.replaceSet && opts.find == "" {
		return opts, errors.New("-replace requires -find")
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errors.New("expected exactly one file")
	}
	opts.file = fs.Arg(0)
	return opts, nil
}

// newLogger logs to stderr in batch modes. The terminal UI owns the screen,
// so it only logs when a log file is configured.
func newLogger(cfg *config.Config, interactive bool) (*zap.Logger, error) {
	if !interactive {
		return logger.New(cfg.Logging.Env, cfg.Logging.Level)
	}
	if cfg.Logging.File == "" {
		return logger.NewNop(), nil
	}
	return logger.New(cfg.Logging.Env, cfg.Logging.Level, cfg.Logging.File)
}

// matchOptions starts from the configured defaults; flags can only turn
// options on.
func matchOptions(cfg *config.Config, opts options) matcher.Options {
	m := cfg.MatchOptions()
	m.MatchCase = m.MatchCase || opts.matchCase
	m.WholeWords = m.WholeWords || opts.wholeWords
	m.Regex = m.Regex || opts.regex
	return m
}

func serveMetrics(addr string, m *metrics.Metrics, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", addr))
	return srv
}

func runOneShot(opts options, buf *buffer.Buffer, sessOpts []session.Option, stdout, stderr io.Writer) int {
	sess := session.New(buf, sessOpts...)
	defer sess.Detach()

	out, err := sess.Search(opts.find, sess.Form().Options())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if out.Results == 0 {
		fmt.Fprintf(stderr, "%s: no matches for %q\n", opts.file, opts.find)
		return exitNoMatch
	}

	if !opts.replaceSet {
		report(stdout, sess, opts.file)
		return exitOK
	}

	replaced, err := sess.ReplaceAllWith(opts.replace)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if err := writeBuffer(opts.file, buf); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stdout, "%s: replaced %s\n", opts.file, color.GreenString(plural(replaced, "match", "matches")))
	return exitOK
}

// report prints one line per match in document order:
//
//	file:line:col: match i of N: text with the match highlighted
func report(w io.Writer, sess *session.Session, name string) {
	buf := sess.Buffer()
	pos := color.New(color.FgCyan)
	hit := color.New(color.FgRed, color.Bold)

	ordered := sess.Ordered()
	for i, r := range ordered {
		rng := r.Range()
		p := buf.OffsetToPoint(rng.Start)
		line := buf.LineText(p.Line)
		start := int(rng.Start - buf.LineStartOffset(p.Line))
		end := start + int(rng.Len())
		if end > len(line) {
			end = len(line)
		}
		fmt.Fprintf(w, "%s:%s: match %d of %d: %s%s%s\n",
			name, pos.Sprint(p.Human()), i+1, len(ordered),
			line[:start], hit.Sprint(line[start:end]), line[end:])
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

func runScripts(opts options, cfg *config.Config, buf *buffer.Buffer, sessOpts []session.Option, log *zap.Logger, stdout, stderr io.Writer) int {
	sess := session.New(buf, sessOpts...)
	defer sess.Detach()

	state := luaplugin.NewState(
		luaplugin.WithExecutionTimeout(cfg.PluginTimeout()),
		luaplugin.WithLogger(log.Named("lua")),
		luaplugin.WithOutput(stdout),
	)
	defer func() { _ = state.Close() }()
	luaplugin.InstallFind(state, sess)

	rev := buf.Revision()
	for _, path := range opts.scripts {
		if err := state.DoFile(path); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
	}
	if buf.Revision() == rev {
		return exitOK
	}
	if err := writeBuffer(opts.file, buf); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

func runInteractive(opts options, cfg *config.Config, buf *buffer.Buffer, sessOpts []session.Option, log *zap.Logger, stderr io.Writer) int {
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return exitError
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize terminal: %v\n", err)
		return exitError
	}
	defer screen.Fini()

	var app *tui.App
	sessOpts = append(sessOpts, session.WithCursor(func() buffer.ByteOffset { return app.Cursor() }))
	sess := session.New(buf, sessOpts...)
	defer sess.Detach()
	app = tui.New(screen, sess, tui.WithLogger(log.Named("tui")), tui.WithTitle(opts.file))

	// Startup scripts can preset searches or options.
	if len(cfg.Plugins.Scripts) > 0 {
		state := luaplugin.NewState(
			luaplugin.WithExecutionTimeout(cfg.PluginTimeout()),
			luaplugin.WithLogger(log.Named("lua")),
			luaplugin.WithOutput(io.Discard),
		)
		defer func() { _ = state.Close() }()
		luaplugin.InstallFind(state, sess)
		for _, path := range cfg.Plugins.Scripts {
			if err := state.DoFile(path); err != nil {
				log.Warn("startup script failed", zap.String("path", path), zap.Error(err))
			}
		}
	}

	if opts.configPath != "" {
		w, err := config.NewWatcher(config.NewLoader(), opts.configPath, config.WithWatcherLogger(log.Named("config")))
		if err != nil {
			log.Warn("config watching disabled", zap.Error(err))
		} else {
			defer func() { _ = w.Close() }()
			w.OnReload(func(c *config.Config, err error) {
				if err != nil {
					return
				}
				km, err := c.Keymap()
				if err != nil {
					log.Warn("reloaded key bindings rejected", zap.Error(err))
					return
				}
				_ = app.Post(func() { sess.SetKeymap(km) })
			})
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		<-signals
		_ = app.Post(app.Quit)
	}()

	rev := buf.Revision()
	if err := app.Run(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if buf.Revision() != rev {
		if err := writeBuffer(opts.file, buf); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
	}
	return exitOK
}

// writeBuffer saves buf to path, keeping the file's permissions.
func writeBuffer(path string, buf *buffer.Buffer) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(buf.Text()), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
