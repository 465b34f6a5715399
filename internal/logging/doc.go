// Package logging constructs the process-wide slog logger.
//
// Two output formats are supported: a human-oriented console format that
// prefixes each line with the emitting component, and machine-readable JSON.
// The "auto" format picks console when stdout is a terminal and JSON
// otherwise, so piping daemon output into a collector needs no flag.
package logging
