// Package vault wraps filesystem access to the note store. All paths in the
// API are slash-separated and relative to the vault root; conversion to OS
// paths happens at the boundary and escaping the root is rejected.
package vault
