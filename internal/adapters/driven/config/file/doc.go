// Package file provides file-backed implementations of the settings
// and prompt driven ports.
//
// Settings live in a single TOML document, by default at
// ~/.config/grimoire/config.toml (the GRIMOIRE_CONFIG environment
// variable overrides the location). The file can hold API keys, so it
// is written atomically with 0600 permissions inside a 0700 directory.
//
// Prompts ship as embedded defaults and can be overridden per user by
// editing the files the store materialises under the prompt directory
// on first use.
package file
