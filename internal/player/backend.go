// Package player drives an external media player and keeps the subtitle
// track of the playing video in sync with its position.
package player

import "time"

// Backend is the media player the session talks to.
type Backend interface {
	LoadURI(path string) error
	Seek(position time.Duration) error
	QueryPosition() (time.Duration, bool)
	QueryDuration() (time.Duration, bool)
	Play() error
	Pause() error
	Stop() error
	// SupportsNativeSubtitles reports whether the backend renders subtitle
	// files itself. When it does, SetSubtitleFile hands it the file and the
	// session stops resolving cue text on its own.
	SupportsNativeSubtitles() bool
	// SetSubtitleFile loads path as the active subtitle. An empty path
	// removes it.
	SetSubtitleFile(path string) error
	Close() error
}
