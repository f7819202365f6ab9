// Package config loads, normalizes, and validates mediasort configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from the standard config location or a
// project-local mediasort.toml. Always obtain settings through this package so
// downstream code receives sanitized paths and canonical log formats.
package config
