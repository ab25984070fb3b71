// Package config loads, normalizes, and validates hashhound configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and validates custom registry definitions
// before any classifier sees them. The Config type centralizes every knob the
// daemon and CLI need, from data directories and the API bind address to
// catalog extensions.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
