// Package services defines shared utilities consumed by the ingest pipeline
// and its integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent ingest outcomes (failed vs rejected).
//   - A thin command-runner abstraction that keeps external tool execution
//     testable.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services
