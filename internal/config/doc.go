// Package config loads, normalizes, and validates winnow configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from ~/.config/winnow/config.toml with a
// project-local winnow.toml fallback. The Config type centralizes every knob
// the CLI needs: selection floors, probe tuning, scan gates, and split
// thresholds.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical selection values, and clear validation errors.
package config
