// Package pending tracks attachments that have landed at a provisional path
// and are waiting for the owning note to reference them.
//
// The queue serializes every operation behind one mutex: records are matched
// at most once, sweeps never race a match, and the per-note image counters
// observe every increment made by earlier matches. Callers perform renames
// and other I/O outside the lock.
package pending
