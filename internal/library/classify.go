// Package library walks a video folder, groups videos by directory and
// derives the ordered rows shown by the TUI and GUI browsers.
package library

import (
	"io/fs"
	"path/filepath"
	"strings"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".webm": {},
	".m4v":  {},
	".mpg":  {},
	".mpeg": {},
	".3gp":  {},
}

// IsVideo reports whether the file name has a playable video extension.
func IsVideo(name string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Title is the display name of a video: its file name without extension.
func Title(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// EntryKind tells the walker what to do with a directory entry.
type EntryKind int

const (
	KindIgnored EntryKind = iota
	KindDirectory
	KindVideo
)

// Classification is the walker's verdict on a single directory entry.
type Classification struct {
	Kind        EntryKind
	Path        string
	DisplayName string
}

// Classify inspects info, found inside dir. Hidden entries and files
// without a video extension are ignored.
func Classify(dir string, info fs.FileInfo) Classification {
	name := info.Name()
	if strings.HasPrefix(name, ".") {
		return Classification{Kind: KindIgnored}
	}
	path := filepath.Join(dir, name)
	switch {
	case info.IsDir():
		return Classification{Kind: KindDirectory, Path: path, DisplayName: name}
	case info.Mode().IsRegular() && IsVideo(name):
		return Classification{Kind: KindVideo, Path: path, DisplayName: Title(name)}
	default:
		return Classification{Kind: KindIgnored}
	}
}
