// Package config loads and validates the TOML configuration file.
//
// Load resolves the config path (explicit flag, then the default under
// ~/.config/retrack), merges the file over built-in defaults, and applies
// environment overrides. A missing file is not an error; the defaults
// stand alone.
package config
