// Package config loads, normalizes, and validates Satchel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and rejects malformed values — notably daily
// note date formats — before any other subsystem can observe them. The Config
// type centralizes every knob the daemon and CLI need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a validated date format, and a closed handling mode.
package config
