package pending

import (
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"satchel/internal/classify"
)

// StalenessWindow bounds how long a record may wait for its note to pick it
// up before a sweep discards it.
const StalenessWindow = 5 * time.Minute

// Record is one provisional attachment awaiting correlation.
type Record struct {
	ID          uuid.UUID
	NotePath    string
	CreatedPath string
	Category    classify.Category
	CreatedAt   time.Time
}

type imageCounter struct {
	used    int
	checked bool
}

// Queue holds pending records and the per-note image counters. The zero
// value is not usable; construct with NewQueue.
type Queue struct {
	mu       sync.Mutex
	records  []Record
	counters map[string]*imageCounter
}

func NewQueue() *Queue {
	return &Queue{counters: make(map[string]*imageCounter)}
}

// Enqueue appends a new record and returns it with its assigned ID.
func (q *Queue) Enqueue(notePath, createdPath string, category classify.Category, now time.Time) Record {
	rec := Record{
		ID:          uuid.New(),
		NotePath:    notePath,
		CreatedPath: createdPath,
		Category:    category,
		CreatedAt:   now,
	}
	q.mu.Lock()
	q.records = append(q.records, rec)
	q.mu.Unlock()
	return rec
}

// TryMatch finds the record owned by notePath whose provisional basename
// equals linkText. The oldest record wins a tie. A matched record is removed
// and never matched again.
func (q *Queue) TryMatch(notePath, linkText string) (Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Compare in NFC so names written by macOS (NFD) match note text.
	want := norm.NFC.String(linkText)
	best := -1
	for i, rec := range q.records {
		if rec.NotePath != notePath {
			continue
		}
		if norm.NFC.String(path.Base(rec.CreatedPath)) != want {
			continue
		}
		if best == -1 || rec.CreatedAt.Before(q.records[best].CreatedAt) {
			best = i
		}
	}
	if best == -1 {
		return Record{}, false
	}
	rec := q.records[best]
	q.records = append(q.records[:best], q.records[best+1:]...)
	return rec, true
}

// SweepExpired removes every record older than the staleness window and
// returns the removed records so callers can log or audit them.
func (q *Queue) SweepExpired(now time.Time) []Record {
	q.mu.Lock()
	defer q.mu.Unlock()

	var swept []Record
	kept := q.records[:0]
	for _, rec := range q.records {
		if now.Sub(rec.CreatedAt) > StalenessWindow {
			swept = append(swept, rec)
			continue
		}
		kept = append(kept, rec)
	}
	q.records = kept
	return swept
}

// NextImageNumber reserves the next 1-based attachment number for notePath.
// The first call per note invokes countExisting (under the queue mutex, so
// concurrent reservations for the same note cannot observe a stale count);
// later calls increment in memory.
func (q *Queue) NextImageNumber(notePath string, countExisting func() (int, error)) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	counter := q.counters[notePath]
	if counter == nil {
		counter = &imageCounter{}
		q.counters[notePath] = counter
	}
	if !counter.checked {
		used, err := countExisting()
		if err != nil {
			return 0, err
		}
		counter.used = used
		counter.checked = true
	}
	counter.used++
	return counter.used, nil
}

// Pending returns a copy of the outstanding records in insertion order.
func (q *Queue) Pending() []Record {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Record, len(q.records))
	copy(out, q.records)
	return out
}

// Len reports the number of outstanding records.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.records)
}
