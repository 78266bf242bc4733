// Package progress persists per-video playback progress and a little
// application state in a single JSON file.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const appStateKey = "_app_state"

// Entry is the saved progress of one video, keyed by its absolute path.
type Entry struct {
	Position    float64 `json:"position"`
	Percentage  float64 `json:"percentage"`
	LastWatched int64   `json:"last_watched"`
}

// AppState is restored on startup.
type AppState struct {
	LastFolder  string
	LastVideo   string
	ShowFolders bool
}

// Store holds the decoded progress file. Entries it cannot decode and
// unknown app-state keys are kept verbatim and written back on save.
type Store struct {
	fs   afero.Fs
	path string

	mu      sync.RWMutex
	raw     map[string]json.RawMessage
	entries map[string]Entry
	state   map[string]json.RawMessage
	dirty   bool
}

func newStore(fsys afero.Fs, path string) *Store {
	return &Store{
		fs:      fsys,
		path:    path,
		raw:     make(map[string]json.RawMessage),
		entries: make(map[string]Entry),
		state:   make(map[string]json.RawMessage),
	}
}

// Load reads the progress file at path. A missing or empty file yields an
// empty store. A corrupt file also yields an empty store, together with the
// decode error so callers can log it.
func Load(fsys afero.Fs, path string) (*Store, error) {
	s := newStore(fsys, path)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read progress: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return s, fmt.Errorf("decode progress: %w", err)
	}
	for key, value := range raw {
		if key == appStateKey {
			var state map[string]json.RawMessage
			if json.Unmarshal(value, &state) == nil && state != nil {
				s.state = state
				continue
			}
		}
		s.raw[key] = value
		var entry Entry
		if json.Unmarshal(value, &entry) == nil {
			s.entries[key] = entry
		}
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns the saved progress for a video.
func (s *Store) Get(videoPath string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[videoPath]
	return e, ok
}

// Len returns the number of video entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Percentages returns a fresh snapshot of path to completed fraction. The
// map is owned by the caller and safe to hand to a background scan.
func (s *Store) Percentages() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.entries))
	for path, e := range s.entries {
		out[path] = e.Percentage
	}
	return out
}

// Record stores the playback position of a video and returns the completed
// fraction. Samples without a known duration are ignored.
func (s *Store) Record(videoPath string, position, duration time.Duration, now time.Time) (float64, bool) {
	if videoPath == "" || duration <= 0 {
		return 0, false
	}
	if position < 0 {
		position = 0
	}
	fraction := float64(position) / float64(duration)
	if fraction > 1 {
		fraction = 1
	}
	entry := Entry{
		Position:    position.Seconds(),
		Percentage:  fraction,
		LastWatched: now.Unix(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return 0, false
	}

	s.mu.Lock()
	s.entries[videoPath] = entry
	s.raw[videoPath] = data
	s.dirty = true
	s.mu.Unlock()
	return fraction, true
}

// ResumePosition returns where playback of videoPath stopped last time.
func (s *Store) ResumePosition(videoPath string) time.Duration {
	e, ok := s.Get(videoPath)
	if !ok || e.Position <= 0 {
		return 0
	}
	return time.Duration(e.Position * float64(time.Second))
}

// AppState decodes the saved application state. ShowFolders defaults to true.
func (s *Store) AppState() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := AppState{ShowFolders: true}
	decodeInto(s.state["last_folder"], &state.LastFolder)
	decodeInto(s.state["last_video"], &state.LastVideo)
	decodeInto(s.state["show_folders"], &state.ShowFolders)
	return state
}

func decodeInto(raw json.RawMessage, dst any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}

func (s *Store) SetLastFolder(folder string) {
	s.setState("last_folder", folder)
}

func (s *Store) SetLastVideo(video string) {
	s.setState("last_video", video)
}

func (s *Store) SetShowFolders(show bool) {
	s.setState("show_folders", show)
}

func (s *Store) setState(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.state[key] = data
	s.dirty = true
	s.mu.Unlock()
}

// Dirty reports whether there are unsaved changes.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Save writes the store atomically when it has unsaved changes.
func (s *Store) Save() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	data, err := s.encodeLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.dirty = false
	s.mu.Unlock()

	if err := writeAtomic(s.fs, s.path, data); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) encodeLocked() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.raw)+1)
	for k, v := range s.raw {
		out[k] = v
	}
	state, err := json.Marshal(s.state)
	if err != nil {
		return nil, fmt.Errorf("encode app state: %w", err)
	}
	out[appStateKey] = state
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	return data, nil
}

func writeAtomic(fsys afero.Fs, path string, data []byte) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(fsys, tmp, data, 0o600); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
