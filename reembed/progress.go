package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker reports re-embedding progress to a writer at a fixed
// entry interval. It is safe for concurrent use.
type ProgressTracker struct {
	mu             sync.Mutex
	out            io.Writer
	total          int
	processed      int
	reportInterval int
	start          time.Time
}

// NewProgressTracker creates a tracker that writes a progress line to out
// every reportInterval entries. A nil out discards all output.
func NewProgressTracker(out io.Writer, total, reportInterval int) *ProgressTracker {
	if out == nil {
		out = io.Discard
	}
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressTracker{
		out:            out,
		total:          total,
		reportInterval: reportInterval,
		start:          time.Now(),
	}
}

// Increment adds n processed entries and reports if a report boundary
// was crossed.
func (pt *ProgressTracker) Increment(n int) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	before := pt.processed
	pt.processed += n

	if pt.processed/pt.reportInterval > before/pt.reportInterval {
		pt.report()
	}
}

// Processed returns the number of entries counted so far.
func (pt *ProgressTracker) Processed() int {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.processed
}

// Finish writes a final summary line with the overall rate.
func (pt *ProgressTracker) Finish() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	elapsed := time.Since(pt.start)
	rate := float64(pt.processed)
	if elapsed.Seconds() > 0 {
		rate = float64(pt.processed) / elapsed.Seconds()
	}
	fmt.Fprintf(pt.out, "\rre-embedded %d/%d entries in %s (%.1f entries/s)\n",
		pt.processed, pt.total, elapsed.Round(time.Millisecond), rate)
}

func (pt *ProgressTracker) report() {
	fmt.Fprintf(pt.out, "\rre-embedding %d/%d entries", pt.processed, pt.total)
}
