package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func writeFiles(t *testing.T, fsys afero.Fs, files ...string) {
	t.Helper()
	for _, f := range files {
		if err := afero.WriteFile(fsys, f, []byte("video"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
}

// failingFs refuses to open one directory.
type failingFs struct {
	afero.Fs
	fail string
}

func (f failingFs) Open(name string) (afero.File, error) {
	if filepath.Clean(name) == f.fail {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Open(name)
}

func TestClassify(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/r/Movie.MKV", "/r/notes.txt", "/r/.hidden.mp4", "/r/dir/x.mp4", "/r/.git/config")

	entries, err := afero.ReadDir(fsys, "/r")
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	got := make(map[string]Classification)
	for _, e := range entries {
		got[e.Name()] = Classify("/r", e)
	}

	if c := got["Movie.MKV"]; c.Kind != KindVideo || c.Path != "/r/Movie.MKV" || c.DisplayName != "Movie" {
		t.Fatalf("unexpected video classification %+v", c)
	}
	if c := got["dir"]; c.Kind != KindDirectory || c.Path != "/r/dir" {
		t.Fatalf("unexpected dir classification %+v", c)
	}
	for _, name := range []string{"notes.txt", ".hidden.mp4", ".git"} {
		if got[name].Kind != KindIgnored {
			t.Fatalf("expected %s to be ignored, got %+v", name, got[name])
		}
	}
}

func TestWalkBuildsNestedStructure(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys,
		"/root/a.mp4",
		"/root/readme.md",
		"/root/Lectures/b.mkv",
		"/root/Lectures/Week 1/c.webm",
		"/root/.cache/hidden.mp4",
	)
	if err := fsys.MkdirAll("/root/Empty", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	w := &Walker{FS: fsys}
	s, err := w.Walk(context.Background(), "/root")
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if got := s.FolderNames(); len(got) != 2 || got[0] != "Empty" || got[1] != "Lectures" {
		t.Fatalf("unexpected top-level folders %v", got)
	}
	if len(s.Files) != 1 || s.Files[0].Path != "/root/a.mp4" {
		t.Fatalf("unexpected root files %+v", s.Files)
	}
	week := s.Folders["Lectures"].Folders["Week 1"]
	if week == nil || len(week.Files) != 1 || week.Files[0].Name != "c.webm" {
		t.Fatalf("unexpected nested folder %+v", week)
	}
	if s.TotalFiles() != 3 || w.Videos() != 3 {
		t.Fatalf("expected 3 videos, got total=%d walker=%d", s.TotalFiles(), w.Videos())
	}
}

func TestWalkSkipsUnreadableSubtree(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFiles(t, base, "/root/ok/a.mp4", "/root/locked/b.mp4", "/root/c.mp4")
	fsys := failingFs{Fs: base, fail: "/root/locked"}

	w := &Walker{FS: fsys}
	s, err := w.Walk(context.Background(), "/root")
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if _, ok := s.Folders["locked"]; ok {
		t.Fatal("expected unreadable folder to be skipped")
	}
	if _, ok := s.Folders["ok"]; !ok {
		t.Fatal("expected sibling folder to be walked")
	}
	if len(w.Skipped) != 1 || w.Skipped[0] != "/root/locked" {
		t.Fatalf("unexpected skipped list %v", w.Skipped)
	}
}

func TestWalkUnreadableRootFails(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFiles(t, base, "/root/a.mp4")

	if _, err := Walk(context.Background(), failingFs{Fs: base, fail: "/root"}, "/root"); err == nil {
		t.Fatal("expected error for unreadable root")
	}
	if _, err := Walk(context.Background(), base, "/missing"); err == nil {
		t.Fatal("expected error for missing root")
	}
	if _, err := Walk(context.Background(), base, "/root/a.mp4"); err == nil {
		t.Fatal("expected error for file root")
	}
}

func TestWalkCancelled(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/root/a/b.mp4")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := Walk(ctx, fsys, "/root")
	if !errors.Is(err, ErrScanCancelled) {
		t.Fatalf("expected ErrScanCancelled, got %v", err)
	}
	if s != nil {
		t.Fatalf("expected no structure, got %+v", s)
	}
}

// cancellingFs cancels the walk when dir is opened and records every
// directory opened.
type cancellingFs struct {
	afero.Fs
	dir    string
	cancel context.CancelFunc
	opened *[]string
}

func (c cancellingFs) Open(name string) (afero.File, error) {
	name = filepath.Clean(name)
	*c.opened = append(*c.opened, name)
	if name == c.dir {
		c.cancel()
	}
	return c.Fs.Open(name)
}

func TestScanCancelledAfterFirstSubfolder(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFiles(t, base, "/root/a/1.mp4", "/root/b/2.mp4", "/root/c/3.mp4")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var opened []string
	fsys := cancellingFs{Fs: base, dir: "/root/a", cancel: cancel, opened: &opened}

	res := ScanFolder(ctx, fsys, "/root", nil, nil, nil)
	if !res.Cancelled || res.Err != nil {
		t.Fatalf("expected cancelled result, got %+v", res)
	}
	if res.Rows != nil || res.Videos != 0 {
		t.Fatalf("expected partial work discarded, got %d rows, %d videos", len(res.Rows), res.Videos)
	}
	for _, dir := range opened {
		if dir == "/root/b" || dir == "/root/c" {
			t.Fatalf("walk continued into %s after cancellation (opened %v)", dir, opened)
		}
	}

	if err := base.MkdirAll("/empty", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	empty := ScanFolder(context.Background(), base, "/empty", nil, nil, nil)
	if empty.Cancelled || empty.Err != nil || len(empty.Rows) != 0 {
		t.Fatalf("expected completed empty scan, got %+v", empty)
	}
}

func TestWalkOSFollowsFileSymlinksOnly(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")
	other := filepath.Join(dir, "other")
	for _, d := range []string{lib, other} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	target := filepath.Join(other, "clip.mp4")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(lib, "linked.mp4")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(other, filepath.Join(lib, "loop")); err != nil {
		t.Fatalf("symlink dir: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "missing.mp4"), filepath.Join(lib, "broken.mp4")); err != nil {
		t.Fatalf("symlink broken: %v", err)
	}

	done := make(chan struct{})
	var s *FolderStructure
	var err error
	go func() {
		s, err = Walk(context.Background(), afero.NewOsFs(), lib)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("walk did not finish")
	}
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	var names []string
	for _, f := range s.Files {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	if len(names) != 1 || names[0] != "linked.mp4" {
		t.Fatalf("unexpected files %v", names)
	}
	if len(s.Folders) != 0 {
		t.Fatalf("expected symlinked folder to be ignored, got %v", s.FolderNames())
	}
}
