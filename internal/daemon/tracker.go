package daemon

import "sync"

// activeTracker remembers the note most recently edited, which stands in
// for the editor's "active note" when a new attachment appears.
type activeTracker struct {
	mu       sync.Mutex
	notePath string
}

func (t *activeTracker) Set(rel string) {
	t.mu.Lock()
	t.notePath = rel
	t.mu.Unlock()
}

// Active returns the tracked note, or fallback when no note has been edited
// since the daemon started.
func (t *activeTracker) Active(fallback string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.notePath != "" {
		return t.notePath
	}
	return fallback
}
