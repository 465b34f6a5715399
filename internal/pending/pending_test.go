package pending_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"satchel/internal/classify"
	"satchel/internal/pending"
)

func TestTryMatchRemovesRecord(t *testing.T) {
	q := pending.NewQueue()
	now := time.Now()
	q.Enqueue("notes/today.md", "inbox/Pasted image.png", classify.CategoryImage, now)

	rec, ok := q.TryMatch("notes/today.md", "Pasted image.png")
	if !ok {
		t.Fatal("expected match")
	}
	if rec.CreatedPath != "inbox/Pasted image.png" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if _, ok := q.TryMatch("notes/today.md", "Pasted image.png"); ok {
		t.Fatal("record must not match twice")
	}
	if q.Len() != 0 {
		t.Fatalf("queue should be empty, has %d", q.Len())
	}
}

func TestTryMatchScopedToNote(t *testing.T) {
	q := pending.NewQueue()
	now := time.Now()
	q.Enqueue("a.md", "inbox/file.png", classify.CategoryImage, now)

	if _, ok := q.TryMatch("b.md", "file.png"); ok {
		t.Fatal("match must be scoped to the owning note")
	}
	if _, ok := q.TryMatch("a.md", "other.png"); ok {
		t.Fatal("match must compare the provisional basename")
	}
	if q.Len() != 1 {
		t.Fatalf("record should remain pending, queue has %d", q.Len())
	}
}

func TestTryMatchOldestWinsTie(t *testing.T) {
	q := pending.NewQueue()
	base := time.Now()
	q.Enqueue("a.md", "inbox/file.png", classify.CategoryImage, base.Add(time.Second))
	q.Enqueue("a.md", "inbox/file.png", classify.CategoryImage, base)

	rec, ok := q.TryMatch("a.md", "file.png")
	if !ok {
		t.Fatal("expected match")
	}
	if !rec.CreatedAt.Equal(base) {
		t.Fatalf("expected oldest record to win, got CreatedAt=%v", rec.CreatedAt)
	}
}

func TestSweepExpired(t *testing.T) {
	q := pending.NewQueue()
	now := time.Now()
	q.Enqueue("a.md", "inbox/old.png", classify.CategoryImage, now.Add(-6*time.Minute))
	q.Enqueue("a.md", "inbox/fresh.png", classify.CategoryImage, now.Add(-time.Minute))

	swept := q.SweepExpired(now)
	if len(swept) != 1 || swept[0].CreatedPath != "inbox/old.png" {
		t.Fatalf("unexpected sweep result: %+v", swept)
	}
	if _, ok := q.TryMatch("a.md", "old.png"); ok {
		t.Fatal("swept record must never match")
	}
	if _, ok := q.TryMatch("a.md", "fresh.png"); !ok {
		t.Fatal("fresh record should still match")
	}
}

func TestNextImageNumberLazyScanThenIncrement(t *testing.T) {
	q := pending.NewQueue()
	scans := 0
	count := func() (int, error) { scans++; return 4, nil }

	for want := 5; want <= 7; want++ {
		got, err := q.NextImageNumber("a.md", count)
		if err != nil {
			t.Fatalf("NextImageNumber: %v", err)
		}
		if got != want {
			t.Fatalf("NextImageNumber = %d, want %d", got, want)
		}
	}
	if scans != 1 {
		t.Fatalf("directory should be scanned exactly once, got %d", scans)
	}
}

func TestNextImageNumberScanFailureLeavesCounterUnchecked(t *testing.T) {
	q := pending.NewQueue()
	boom := fmt.Errorf("scan failed")
	if _, err := q.NextImageNumber("a.md", func() (int, error) { return 0, boom }); err == nil {
		t.Fatal("expected scan error to propagate")
	}
	got, err := q.NextImageNumber("a.md", func() (int, error) { return 2, nil })
	if err != nil || got != 3 {
		t.Fatalf("expected retry to rescan: got=%d err=%v", got, err)
	}
}

func TestConcurrentMatchesAreExclusive(t *testing.T) {
	q := pending.NewQueue()
	now := time.Now()
	const files = 20
	for i := 0; i < files; i++ {
		q.Enqueue("a.md", fmt.Sprintf("inbox/file-%02d.png", i), classify.CategoryImage, now)
	}

	var wg sync.WaitGroup
	matches := make(chan pending.Record, files*3)
	for worker := 0; worker < 3; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < files; i++ {
				if rec, ok := q.TryMatch("a.md", fmt.Sprintf("file-%02d.png", i)); ok {
					matches <- rec
				}
			}
		}()
	}
	wg.Wait()
	close(matches)

	seen := make(map[string]int)
	for rec := range matches {
		seen[rec.CreatedPath]++
	}
	if len(seen) != files {
		t.Fatalf("expected %d distinct matches, got %d", files, len(seen))
	}
	for path, n := range seen {
		if n != 1 {
			t.Fatalf("record %s matched %d times", path, n)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("queue should drain, has %d", q.Len())
	}
}

func TestConcurrentNumberingIsGapless(t *testing.T) {
	q := pending.NewQueue()
	const batch = 10

	var wg sync.WaitGroup
	numbers := make(chan int, batch)
	for i := 0; i < batch; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := q.NextImageNumber("a.md", func() (int, error) { return 0, nil })
			if err != nil {
				t.Errorf("NextImageNumber: %v", err)
				return
			}
			numbers <- n
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int]bool)
	for n := range numbers {
		if seen[n] {
			t.Fatalf("number %d assigned twice", n)
		}
		seen[n] = true
	}
	for want := 1; want <= batch; want++ {
		if !seen[want] {
			t.Fatalf("numbering has a gap at %d", want)
		}
	}
}
