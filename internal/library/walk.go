package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"codeberg.org/snonux/localdemy/internal/logging"
)

// ErrScanCancelled is returned when a walk observes cancellation.
var ErrScanCancelled = errors.New("scan cancelled")

// Walker builds a FolderStructure from a directory tree. Subdirectories that
// cannot be read are skipped and recorded in Skipped.
type Walker struct {
	FS      afero.Fs
	Log     logrus.FieldLogger
	Skipped []string

	videos int
}

// Walk is a convenience for walking root on fsys without logging.
func Walk(ctx context.Context, fsys afero.Fs, root string) (*FolderStructure, error) {
	w := &Walker{FS: fsys}
	return w.Walk(ctx, root)
}

// Walk descends root depth-first. Cancellation is checked once per directory
// visit; a cancelled walk returns ErrScanCancelled and no structure.
func (w *Walker) Walk(ctx context.Context, root string) (*FolderStructure, error) {
	w.Log = logging.OrDiscard(w.Log)
	w.Skipped = nil
	w.videos = 0

	info, err := w.FS.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", root)
	}

	structure := NewFolderStructure()
	if err := w.walkDir(ctx, root, structure); err != nil {
		if errors.Is(err, ErrScanCancelled) {
			return nil, err
		}
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return structure, nil
}

// Videos returns the number of videos found by the last walk.
func (w *Walker) Videos() int {
	return w.videos
}

func (w *Walker) walkDir(ctx context.Context, dir string, node *FolderStructure) error {
	if ctx.Err() != nil {
		return ErrScanCancelled
	}
	entries, err := afero.ReadDir(w.FS, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		entry, ok := w.resolve(dir, entry)
		if !ok {
			continue
		}
		c := Classify(dir, entry)
		switch c.Kind {
		case KindDirectory:
			child := NewFolderStructure()
			err := w.walkDir(ctx, c.Path, child)
			if errors.Is(err, ErrScanCancelled) {
				return err
			}
			if err != nil {
				w.Log.WithError(err).WithField("dir", c.Path).Warn("skipping unreadable folder")
				w.Skipped = append(w.Skipped, c.Path)
				continue
			}
			node.Folders[entry.Name()] = child
		case KindVideo:
			node.AddFile(c.Path)
			w.videos++
		}
	}
	return nil
}

// resolve follows symlinks to files. Symlinked directories are not descended
// and broken links are dropped.
func (w *Walker) resolve(dir string, entry fs.FileInfo) (fs.FileInfo, bool) {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry, true
	}
	path := filepath.Join(dir, entry.Name())
	target, err := w.FS.Stat(path)
	if err != nil {
		w.Log.WithError(err).WithField("path", path).Debug("ignoring broken symlink")
		return nil, false
	}
	if target.IsDir() {
		w.Log.WithField("path", path).Debug("not following symlinked folder")
		return nil, false
	}
	return target, true
}
