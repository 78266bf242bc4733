package progress

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/localdemy/internal/logging"
)

// Saver batches store writes: the first change after a save schedules one
// write after the interval and later changes ride along with it.
type Saver struct {
	store    *Store
	interval time.Duration
	log      logrus.FieldLogger

	mu      sync.Mutex
	timer   *time.Timer
	saving  sync.Mutex
	stopped bool
}

func NewSaver(store *Store, interval time.Duration, log logrus.FieldLogger) *Saver {
	return &Saver{store: store, interval: interval, log: logging.OrDiscard(log)}
}

// Touch schedules a save unless one is already pending.
func (s *Saver) Touch() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.timer != nil {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(s.interval, func() {
		// Cleared before saving so changes made during the write schedule
		// their own save.
		s.mu.Lock()
		if s.timer == t {
			s.timer = nil
		}
		s.mu.Unlock()
		_ = s.save()
	})
	s.timer = t
}

// Pending reports whether a save is scheduled.
func (s *Saver) Pending() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Flush cancels any pending timer and saves immediately.
func (s *Saver) Flush() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.save()
}

// Close flushes and refuses further scheduling.
func (s *Saver) Close() error {
	if s == nil {
		return nil
	}
	err := s.Flush()
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	return err
}

func (s *Saver) save() error {
	s.saving.Lock()
	defer s.saving.Unlock()
	if err := s.store.Save(); err != nil {
		s.log.WithError(err).WithField("path", s.store.Path()).Error("saving progress failed")
		return err
	}
	s.log.WithField("videos", s.store.Len()).Debug("progress saved")
	return nil
}
