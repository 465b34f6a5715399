// Package main hosts the Satchel CLI entrypoint and command graph.
//
// The Cobra-based command tree covers daily note resolution and creation,
// one-shot attachment ingestion, ingest history reporting, and configuration
// scaffolding. It centralizes configuration resolution and pipeline wiring so
// subcommands can focus on user experience.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
