package player

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"codeberg.org/snonux/localdemy/internal/logging"
	"codeberg.org/snonux/localdemy/internal/subtitle"
)

// ErrNoVideo is returned by controls used before Open.
var ErrNoVideo = errors.New("no video loaded")

// Snapshot is one poll of the playing video.
type Snapshot struct {
	Video       string
	Position    time.Duration
	Duration    time.Duration
	HasDuration bool
	// Cue is the raw text of the active cue and Markup its display form.
	// Both stay empty when the backend renders subtitles itself.
	Cue    string
	Markup string
}

// Fraction returns how much of the video has been played.
func (s Snapshot) Fraction() float64 {
	if !s.HasDuration || s.Duration <= 0 {
		return 0
	}
	f := float64(s.Position) / float64(s.Duration)
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

// Session is the playback state of one video and its subtitle track.
type Session struct {
	backend  Backend
	resolver *subtitle.Resolver
	loader   *subtitle.Loader
	log      logrus.FieldLogger

	mu           sync.Mutex
	video        string
	subtitlePath string
	track        subtitle.Track
	hasTrack     bool
	pendingSeek  time.Duration
	paused       bool
}

func NewSession(backend Backend, fsys afero.Fs, log logrus.FieldLogger) *Session {
	log = logging.OrDiscard(log)
	return &Session{
		backend:  backend,
		resolver: subtitle.NewResolver(fsys, log),
		loader:   subtitle.NewLoader(fsys, log),
		log:      log,
	}
}

// Open loads video into the backend, attaches the subtitle file found next to
// it and remembers resume so playback continues where it stopped once the
// backend knows the duration.
func (s *Session) Open(video string, resume time.Duration) error {
	if err := s.backend.LoadURI(video); err != nil {
		return fmt.Errorf("open %s: %w", video, err)
	}

	s.mu.Lock()
	s.video = video
	s.pendingSeek = resume
	s.paused = false
	s.clearTrackLocked()
	s.mu.Unlock()

	s.resolver.Reset()
	path, found := s.resolver.Resolve(video)
	if !found {
		return nil
	}
	if err := s.attach(path); err != nil {
		s.log.WithError(err).WithField("subtitle", path).Warn("ignoring subtitle file")
	}
	return nil
}

// LoadSubtitle replaces the current track with the file at path. On failure
// the previous track stays active.
func (s *Session) LoadSubtitle(path string) error {
	if s.Video() == "" {
		return ErrNoVideo
	}
	if err := s.attach(path); err != nil {
		return err
	}
	s.resolver.Reset()
	return nil
}

// ClearSubtitle drops the active track.
func (s *Session) ClearSubtitle() {
	s.mu.Lock()
	s.clearTrackLocked()
	s.mu.Unlock()
	s.resolver.Reset()
	if s.backend.SupportsNativeSubtitles() {
		if err := s.backend.SetSubtitleFile(""); err != nil {
			s.log.WithError(err).Debug("removing native subtitle failed")
		}
	}
}

func (s *Session) attach(path string) error {
	track, err := s.loader.Load(path)
	if err != nil {
		return err
	}
	if s.backend.SupportsNativeSubtitles() {
		if err := s.backend.SetSubtitleFile(path); err != nil {
			return fmt.Errorf("hand subtitle to player: %w", err)
		}
	}
	s.mu.Lock()
	s.track = track
	s.hasTrack = true
	s.subtitlePath = path
	s.mu.Unlock()
	return nil
}

func (s *Session) clearTrackLocked() {
	s.track = subtitle.Track{}
	s.hasTrack = false
	s.subtitlePath = ""
}

// Poll samples the backend, applies a pending resume seek once the duration
// is known and resolves the active cue.
func (s *Session) Poll() (Snapshot, bool) {
	s.mu.Lock()
	video := s.video
	s.mu.Unlock()
	if video == "" {
		return Snapshot{}, false
	}

	snap := Snapshot{Video: video}
	snap.Duration, snap.HasDuration = s.backend.QueryDuration()
	position, ok := s.backend.QueryPosition()
	if !ok {
		return snap, false
	}
	snap.Position = position

	s.mu.Lock()
	seek := time.Duration(0)
	if snap.HasDuration && s.pendingSeek > 0 {
		seek = s.pendingSeek
		s.pendingSeek = 0
	}
	track, hasTrack := s.track, s.hasTrack
	s.mu.Unlock()

	if seek > 0 && seek < snap.Duration {
		if err := s.backend.Seek(seek); err != nil {
			s.log.WithError(err).Debug("resume seek failed")
		} else {
			snap.Position = seek
		}
	}

	if hasTrack && !s.backend.SupportsNativeSubtitles() {
		snap.Cue = track.CueAt(snap.Position)
		if snap.Cue != "" {
			snap.Markup = track.Markup(snap.Cue)
		}
	}
	return snap, true
}

// CurrentCue returns the text active at the backend's current position.
func (s *Session) CurrentCue() string {
	snap, ok := s.Poll()
	if !ok {
		return ""
	}
	return snap.Cue
}

// TogglePause flips between playing and paused.
func (s *Session) TogglePause() (bool, error) {
	s.mu.Lock()
	if s.video == "" {
		s.mu.Unlock()
		return false, ErrNoVideo
	}
	paused := !s.paused
	s.mu.Unlock()

	var err error
	if paused {
		err = s.backend.Pause()
	} else {
		err = s.backend.Play()
	}
	if err != nil {
		return !paused, err
	}
	s.mu.Lock()
	s.paused = paused
	s.mu.Unlock()
	return paused, nil
}

// SeekRelative moves playback by delta, clamped at the start of the video.
func (s *Session) SeekRelative(delta time.Duration) error {
	if s.Video() == "" {
		return ErrNoVideo
	}
	position, ok := s.backend.QueryPosition()
	if !ok {
		return errors.New("position unavailable")
	}
	target := position + delta
	if target < 0 {
		target = 0
	}
	if dur, ok := s.backend.QueryDuration(); ok && target > dur {
		target = dur
	}
	return s.backend.Seek(target)
}

// Stop halts playback and forgets the video.
func (s *Session) Stop() error {
	s.mu.Lock()
	s.video = ""
	s.pendingSeek = 0
	s.clearTrackLocked()
	s.mu.Unlock()
	s.resolver.Reset()
	return s.backend.Stop()
}

// Close shuts the backend down.
func (s *Session) Close() error {
	return s.backend.Close()
}

func (s *Session) Video() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.video
}

func (s *Session) SubtitlePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtitlePath
}

// Track returns the active subtitle track, if any.
func (s *Session) Track() (subtitle.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track, s.hasTrack
}
