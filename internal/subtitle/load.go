package subtitle

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"codeberg.org/snonux/localdemy/internal/logging"
)

const (
	// MaxFileSize is the largest subtitle file accepted.
	MaxFileSize = 10 * 1024 * 1024
	sniffSize   = 1000
	minContent  = 10
)

// Validate checks extension, size and leading content markers of the
// subtitle file at path. Failures are *InvalidSubtitleError values.
func Validate(fsys afero.Fs, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSubtitleExt(ext) {
		return invalid(path, "unsupported extension %q", ext)
	}

	info, err := fsys.Stat(path)
	if err != nil {
		return invalid(path, "cannot stat: %v", err)
	}
	if info.IsDir() {
		return invalid(path, "is a directory")
	}
	if info.Size() == 0 {
		return invalid(path, "file is empty")
	}
	if info.Size() > MaxFileSize {
		return invalid(path, "file too large (%d bytes)", info.Size())
	}

	head, err := readHead(fsys, path, sniffSize)
	if err != nil {
		return invalid(path, "cannot read: %v", err)
	}
	content := strings.ToValidUTF8(string(head), "�")
	trimmed := strings.TrimSpace(content)

	switch ext {
	case ".srt":
		if !strings.Contains(content, "-->") || len(trimmed) <= minContent {
			return invalid(path, "no srt timing lines")
		}
	case ".vtt":
		hasHeader := strings.HasPrefix(trimmed, "WEBVTT")
		hasTiming := strings.Contains(content, "-->") && len(trimmed) > minContent
		if !hasHeader && !hasTiming {
			return invalid(path, "no WEBVTT header or timing lines")
		}
	case ".ass", ".ssa":
		if !strings.Contains(content, "[Script Info]") &&
			!strings.Contains(content, "[V4+ Styles]") &&
			!strings.Contains(content, "[Events]") {
			return invalid(path, "no ass/ssa section headers")
		}
	case ".sub":
		braces := strings.Contains(content, "{") && strings.Contains(content, "}")
		if !strings.Contains(content, "-->") && !braces {
			return invalid(path, "no sub timing markers")
		}
	}
	return nil
}

func readHead(fsys afero.Fs, path string, n int64) ([]byte, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, n))
}

// Loader validates, decodes and parses subtitle files.
type Loader struct {
	fs  afero.Fs
	log logrus.FieldLogger
}

// NewLoader returns a loader reading from fsys.
func NewLoader(fsys afero.Fs, log logrus.FieldLogger) *Loader {
	return &Loader{fs: fsys, log: logging.OrDiscard(log)}
}

// Load returns the parsed track for path. A file that fails validation or
// cannot be read is rejected as a whole.
func (l *Loader) Load(path string) (Track, error) {
	if err := Validate(l.fs, path); err != nil {
		return Track{}, err
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return Track{}, invalid(path, "cannot read: %v", err)
	}
	content, enc := Decode(data)

	track := Detect(filepath.Ext(path), content, l.log).Parse(content)
	l.log.WithFields(logrus.Fields{
		"path":     path,
		"encoding": enc,
		"format":   track.Format.String(),
		"cues":     track.Len(),
	}).Info("loaded subtitle track")
	return track, nil
}

// LoadTrack is a convenience wrapper around Loader.Load.
func LoadTrack(fsys afero.Fs, path string) (Track, error) {
	track, err := NewLoader(fsys, nil).Load(path)
	if err != nil {
		return Track{}, fmt.Errorf("load subtitle: %w", err)
	}
	return track, nil
}
