package library

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"codeberg.org/snonux/localdemy/internal/logging"
)

// ErrScanBusy is returned by Start while a scan is running.
var ErrScanBusy = errors.New("scan already in progress")

const (
	StatusCounting  = "Counting files..."
	StatusScanning  = "Scanning folder..."
	StatusBuilding  = "Building library view..."
	StatusReady     = "Ready"
	StatusCancelled = "Cancelled"
	StatusFailed    = "Scan failed"
)

// State is the lifecycle of a Scanner.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateBuilding
	StateReady
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Busy reports whether a scan in this state blocks a new one.
func (s State) Busy() bool {
	return s == StateScanning || s == StateBuilding
}

// Result is the outcome of one scan.
type Result struct {
	ID        string
	Root      string
	Rows      []Row
	Videos    int
	Skipped   []string
	Cancelled bool
	Err       error
}

// ScanFolder walks root and derives its rows on the calling goroutine.
func ScanFolder(ctx context.Context, fsys afero.Fs, root string, progress map[string]float64, onProgress ProgressFunc, log logrus.FieldLogger) Result {
	return scan(ctx, fsys, root, progress, onProgress, logging.OrDiscard(log), nil)
}

func scan(ctx context.Context, fsys afero.Fs, root string, progress map[string]float64, onProgress ProgressFunc, log logrus.FieldLogger, building func()) Result {
	report := func(fraction float64, status string) {
		if onProgress != nil {
			onProgress(fraction, status)
		}
	}
	res := Result{Root: root}

	report(0, StatusCounting)
	report(0.1, StatusScanning)
	walker := &Walker{FS: fsys, Log: log}
	structure, err := walker.Walk(ctx, root)
	res.Skipped = walker.Skipped
	switch {
	case errors.Is(err, ErrScanCancelled):
		log.WithField("root", root).Info("scan cancelled")
		res.Cancelled = true
		report(1, StatusCancelled)
		return res
	case err != nil:
		log.WithError(err).WithField("root", root).Error("scan failed")
		res.Err = err
		report(1, StatusFailed)
		return res
	}

	res.Videos = walker.Videos()
	report(0.2, fmt.Sprintf("Found %d videos", res.Videos))
	if building != nil {
		building()
	}
	report(0.5, StatusBuilding)
	res.Rows = BuildRows(structure, progress)
	report(1, StatusReady)

	log.WithFields(logrus.Fields{
		"root":    root,
		"videos":  res.Videos,
		"rows":    len(res.Rows),
		"skipped": len(res.Skipped),
	}).Info("scan finished")
	return res
}

// Scanner runs at most one background scan at a time and hands results to
// the UI through a single-slot channel.
type Scanner struct {
	fs  afero.Fs
	log logrus.FieldLogger

	mu      sync.Mutex
	state   State
	id      string
	cancel  context.CancelFunc
	results chan Result
}

func NewScanner(fsys afero.Fs, log logrus.FieldLogger) *Scanner {
	return &Scanner{
		fs:      fsys,
		log:     logging.OrDiscard(log),
		results: make(chan Result, 1),
	}
}

// Start launches a scan of root and returns its operation id. The progress
// map is read concurrently and must not be mutated by the caller afterwards.
func (s *Scanner) Start(ctx context.Context, root string, progress map[string]float64, onProgress ProgressFunc) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Busy() {
		return "", ErrScanBusy
	}
	scanCtx, cancel := context.WithCancel(ctx)
	id := uuid.NewString()
	s.id = id
	s.cancel = cancel
	s.state = StateScanning

	log := s.log.WithFields(logrus.Fields{"scan": id, "root": root})
	log.Debug("scan started")
	go func() {
		defer cancel()
		res := scan(scanCtx, s.fs, root, progress, onProgress, log, func() {
			s.setState(id, StateBuilding)
		})
		res.ID = id
		s.finish(res)
	}()
	return id, nil
}

// Cancel asks the running scan to stop. It only has an effect while the
// folder is still being walked.
func (s *Scanner) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateScanning || s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ID returns the operation id of the most recent scan.
func (s *Scanner) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Results delivers finished scans. Only the latest undelivered result is
// kept.
func (s *Scanner) Results() <-chan Result {
	return s.results
}

func (s *Scanner) setState(id string, state State) {
	s.mu.Lock()
	if s.id == id {
		s.state = state
	}
	s.mu.Unlock()
}

func (s *Scanner) finish(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case res.Cancelled:
		s.state = StateCancelled
	case res.Err != nil:
		s.state = StateIdle
	default:
		s.state = StateReady
	}
	s.cancel = nil

	select {
	case <-s.results:
	default:
	}
	s.results <- res
}
