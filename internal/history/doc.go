// Package history persists an audit trail of ingest outcomes in SQLite.
//
// The Store manages the database connection and schema initialization.
// Schema changes bump the version in schema.go; users delete the database
// to adopt the new schema.
package history
