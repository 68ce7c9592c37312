// Package config loads and merges unprompted configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (UNPROMPTED_PROVIDER, UNPROMPTED_MODEL, UNPROMPTED_TRUST, etc.)
//  3. Config file ($XDG_CONFIG_HOME/unprompted/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write the config file,
// and [SetField] to update a single key.
package config
