// Package config loads, normalizes, and validates quill configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the QUILL_STATE_DIR and
// QUILL_LOG_LEVEL environment overrides. The socket path defaults to a file
// inside the state directory.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
