package library

import "sync"

// ProgressFunc receives coarse scan milestones. It is called from the scan
// goroutine; implementations must hand the values to their UI thread.
type ProgressFunc func(fraction float64, status string)

// Reporter stores the latest scan milestone so a UI loop can poll it. A nil
// *Reporter is valid and reports a finished scan.
type Reporter struct {
	mu       sync.Mutex
	fraction float64
	status   string
	done     bool
}

func (r *Reporter) Reset() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.fraction = 0
	r.status = ""
	r.done = false
	r.mu.Unlock()
}

// Update records a milestone. It satisfies ProgressFunc.
func (r *Reporter) Update(fraction float64, status string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.fraction = ClampFraction(fraction)
	r.status = status
	r.mu.Unlock()
}

func (r *Reporter) MarkDone() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.done = true
	r.mu.Unlock()
}

func (r *Reporter) Snapshot() (fraction float64, status string, done bool) {
	if r == nil {
		return 1, "", true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fraction, r.status, r.done
}
