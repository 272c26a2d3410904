// Package config loads editor settings.
//
// Settings are resolved in order of increasing precedence:
//
//  1. Built-in defaults (Default)
//  2. The config file, TOML or YAML by extension
//  3. XITERM_* environment variables
//  4. Command line flags (Overrides)
//
// A Watcher reloads the file when it changes and delivers the re-resolved
// settings on a channel.
package config
