// Package config loads, normalizes, and validates reframe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and pipeline need: detection model and device, extraction method and
// smoothing, stabilization transform parameters, audio remux settings, and
// external tool overrides.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
