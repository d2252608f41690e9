// Package config loads, normalizes, and validates pipely configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the PIPELY_ROOT and PIPELY_DB environment
// fallbacks. Commands obtain every setting through this package so project
// roots, state paths, and DCC overrides are resolved in one place.
package config
