// Package config loads, normalizes, and validates listenrate configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LISTENRATE_STIMULI_DIR. The Config type centralizes every knob the session
// runner and CLI need: where stimuli live, where results land, the eight
// rating scales, and how audio is played.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
