package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports reembedding progress to a writer, typically
// os.Stderr. Reports are throttled to every reportEvery records so a large
// corpus does not flood the terminal.
type ProgressTracker struct {
	mu          sync.Mutex
	w           io.Writer
	total       int
	done        int
	reportEvery int
	lastReport  int
	begun       time.Time
}

// NewProgressTracker creates a tracker for total records that reports every
// reportEvery records processed.
func NewProgressTracker(w io.Writer, total, reportEvery int) *ProgressTracker {
	return &ProgressTracker{
		w:           w,
		total:       total,
		reportEvery: reportEvery,
	}
}

// Start records the start time. Advance and Finish are no-ops until Start
// is called.
func (t *ProgressTracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.begun = time.Now()
	t.done = 0
	t.lastReport = 0
}

// Advance adds n processed records, clamped to the total, and reports when
// the report interval has been crossed.
func (t *ProgressTracker) Advance(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.begun.IsZero() {
		return
	}

	t.done += n
	if t.done > t.total {
		t.done = t.total
	}
	if t.done-t.lastReport >= t.reportEvery {
		t.report()
		t.lastReport = t.done
	}
}

// Finish forces a final report at the total and terminates the progress line.
func (t *ProgressTracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.begun.IsZero() {
		return
	}

	t.done = t.total
	t.report()
	fmt.Fprintln(t.w)
}

// Elapsed returns the time since Start.
func (t *ProgressTracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.begun.IsZero() {
		return 0
	}
	return time.Since(t.begun)
}

// report writes the progress line. Callers hold the lock.
func (t *ProgressTracker) report() {
	elapsed := time.Since(t.begun)
	rate := float64(t.done) / elapsed.Seconds()

	percent := 0.0
	if t.total > 0 {
		percent = float64(t.done) / float64(t.total) * 100.0
	}

	fmt.Fprintf(t.w, "\rReembedded %d/%d transcripts (%.1f%%) at %.1f/s",
		t.done, t.total, percent, rate)
}
