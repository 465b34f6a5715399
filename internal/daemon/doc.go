// Package daemon runs the background ingestion service: it watches the
// vault for file creations and note edits, routes them into the ingest
// pipeline, and enforces single-instance execution through a lock file.
package daemon
