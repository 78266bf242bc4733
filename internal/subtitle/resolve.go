package subtitle

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"codeberg.org/snonux/localdemy/internal/logging"
)

// Extensions lists the subtitle extensions in search order.
var Extensions = []string{".srt", ".vtt", ".ass", ".ssa", ".sub"}

var (
	languageCodes = []string{
		"en", "eng", "english",
		"es", "spa", "spanish",
		"fr", "fre", "french",
		"de", "ger", "german",
		"it", "ita", "italian",
		"ru", "rus", "russian",
	}
	languageSeparators = []string{".", "_", "-"}
	subtitleDirs       = []string{"subtitles", "subs", "srt", "subtitle", "sub"}
)

// IsSubtitleExt reports whether ext (with leading dot) is a known subtitle
// extension. The comparison ignores case.
func IsSubtitleExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// Find searches for a subtitle file belonging to videoPath. Candidates are
// tried in a fixed order and the first existing one wins. Paths that cannot
// be inspected count as missing.
func Find(fsys afero.Fs, videoPath string) (string, bool) {
	dir := filepath.Dir(videoPath)
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	stem := filepath.Base(base)

	for _, sep := range languageSeparators {
		for _, lang := range languageCodes {
			for _, ext := range Extensions {
				if candidate := base + sep + lang + ext; isFile(fsys, candidate) {
					return candidate, true
				}
			}
		}
	}

	for _, ext := range Extensions {
		if candidate := base + ext; isFile(fsys, candidate) {
			return candidate, true
		}
	}

	lowerStem := strings.ToLower(stem)
	for _, sub := range subtitleDirs {
		found, ok := scanDir(fsys, filepath.Join(dir, sub), func(fileStem string) bool {
			return strings.Contains(lowerStem, fileStem) || strings.Contains(fileStem, lowerStem)
		})
		if ok {
			return found, true
		}
	}

	return scanDir(fsys, filepath.Dir(dir), func(fileStem string) bool {
		return strings.Contains(fileStem, lowerStem)
	})
}

// scanDir returns the first subtitle file in dir, in name order, whose
// lower-cased stem satisfies match.
func scanDir(fsys afero.Fs, dir string, match func(string) bool) (string, bool) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		stem := strings.ToLower(strings.TrimSuffix(name, ext))
		if stem == "" || !IsSubtitleExt(ext) {
			continue
		}
		if match(stem) {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}

func isFile(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}

// Resolver caches the search outcome for the currently loaded video so that
// repeated requests during one load do not hit the file system again.
type Resolver struct {
	fs  afero.Fs
	log logrus.FieldLogger

	mu     sync.Mutex
	cached bool
	video  string
	path   string
	found  bool
}

// NewResolver returns a resolver backed by fsys.
func NewResolver(fsys afero.Fs, log logrus.FieldLogger) *Resolver {
	return &Resolver{fs: fsys, log: logging.OrDiscard(log)}
}

// Resolve returns the subtitle path for videoPath, searching only when the
// video differs from the cached one or the cache was reset.
func (r *Resolver) Resolve(videoPath string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached && r.video == videoPath {
		return r.path, r.found
	}

	path, found := Find(r.fs, videoPath)
	r.cached = true
	r.video = videoPath
	r.path = path
	r.found = found

	entry := r.log.WithField("video", videoPath)
	if found {
		entry.WithField("subtitle", path).Info("found subtitle file")
	} else {
		entry.Debug("no subtitle file found")
	}
	return path, found
}

// Reset drops the cached outcome.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.cached = false
	r.video = ""
	r.path = ""
	r.found = false
	r.mu.Unlock()
}
