// Package config loads findreplace configuration.
//
// Configuration is resolved in layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A configuration file, TOML or YAML chosen by extension
//  3. Environment variables prefixed with FINDREPLACE_
//
// The merged result is validated before it is returned; every invalid field
// is reported, not just the first.
//
// # File format
//
//	[find]
//	keystroke = "Ctrl+F"
//	match_case = false
//	whole_words = false
//	regex = false
//	max_results = 10000
//
//	[keys]
//	findPrevious = "Shift+Enter"
//
//	[logging]
//	level = "info"
//	env = "production"
//
//	[metrics]
//	enabled = true
//	addr = "127.0.0.1:9464"
//
//	[plugins]
//	scripts = ["~/.config/findreplace/init.lua"]
//	timeout_ms = 1000
//
// # Live reload
//
// Watcher reloads the file when it changes on disk and passes the new
// Config to its handlers.
package config
