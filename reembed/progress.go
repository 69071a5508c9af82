package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker prints a single self-overwriting progress line while a
// migration runs. It is safe for concurrent use.
type ProgressTracker struct {
	mu sync.Mutex
	w  io.Writer

	total    int
	every    int
	done     int
	failed   int
	reported int
	began    time.Time
}

// NewProgressTracker creates a tracker for total records that prints after
// every `every` records. Values below one print on every update.
func NewProgressTracker(w io.Writer, total, every int) *ProgressTracker {
	return &ProgressTracker{w: w, total: total, every: max(every, 1)}
}

// Start resets the counters and the clock. Updates before Start are ignored.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.began = time.Now()
	p.done, p.failed, p.reported = 0, 0, 0
}

// Update records how many records have been handled and how many of those failed.
func (p *ProgressTracker) Update(done, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.began.IsZero() {
		return
	}
	p.done = min(done, p.total)
	p.failed = failed
	if p.done-p.reported >= p.every {
		p.print()
		p.reported = p.done
	}
}

// Finish prints the completed line and ends it with a newline.
func (p *ProgressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.began.IsZero() {
		return
	}
	p.done = p.total
	p.print()
	fmt.Fprintln(p.w)
}

// Elapsed is the time since Start, or zero if the tracker never started.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.began.IsZero() {
		return 0
	}
	return time.Since(p.began)
}

func (p *ProgressTracker) print() {
	pct := 0.0
	if p.total > 0 {
		pct = 100 * float64(p.done) / float64(p.total)
	}
	rate := float64(p.done) / time.Since(p.began).Seconds()
	fmt.Fprintf(p.w, "\rProgress: %d/%d (%.1f%%) - %.1f records/s - %d failed",
		p.done, p.total, pct, rate, p.failed)
}
