// Package dailynote maps calendar dates to canonical note paths and back.
//
// Resolution is deterministic: the same Config and date always produce the
// same path, and ParseNotePath accepts exactly the paths NotePath produces
// (a strict round trip). The only time-dependent entry points are the *At
// variants, which apply the day-boundary rule to a wall-clock instant before
// resolving.
package dailynote
