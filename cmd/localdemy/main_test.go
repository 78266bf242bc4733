package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/localdemy/internal/app"
	"codeberg.org/snonux/localdemy/internal/config"
	"codeberg.org/snonux/localdemy/internal/gui"
	"codeberg.org/snonux/localdemy/internal/player"
)

type nopBackend struct{}

func (nopBackend) LoadURI(string) error                 { return nil }
func (nopBackend) Seek(time.Duration) error             { return nil }
func (nopBackend) QueryPosition() (time.Duration, bool) { return 0, false }
func (nopBackend) QueryDuration() (time.Duration, bool) { return 0, false }
func (nopBackend) Play() error                          { return nil }
func (nopBackend) Pause() error                         { return nil }
func (nopBackend) Stop() error                          { return nil }
func (nopBackend) SupportsNativeSubtitles() bool        { return false }
func (nopBackend) SetSubtitleFile(string) error         { return nil }
func (nopBackend) Close() error                         { return nil }

// isolate points the config directory at a temp dir and stubs the player.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOCALDEMY_CONFIG_DIR", dir)
	orig := newBackend
	newBackend = func(*config.Config, logrus.FieldLogger) player.Backend { return nopBackend{} }
	t.Cleanup(func() { newBackend = orig })
	return dir
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func TestRunPrintsVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--version"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "localdemy version") {
		t.Fatalf("expected version output, got %s", stdout.String())
	}
}

func TestRunTerminalSuccess(t *testing.T) {
	configDir := isolate(t)
	folder := t.TempDir()
	var got app.Options
	orig := runTUI
	runTUI = func(opts app.Options) error {
		got = opts
		return nil
	}
	defer func() { runTUI = orig }()

	var stdout, stderr bytes.Buffer
	if code := run([]string{folder}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d (%s)", code, stderr.String())
	}
	if got.Folder != folder {
		t.Fatalf("expected folder %q, got %q", folder, got.Folder)
	}
	if got.Store == nil || got.Saver == nil || got.Session == nil {
		t.Fatalf("expected store, saver and session wired, got %+v", got)
	}
	if got.PollInterval != 200*time.Millisecond {
		t.Fatalf("unexpected poll interval %v", got.PollInterval)
	}
	if _, err := os.Stat(filepath.Join(configDir, "localdemy.log")); err != nil {
		t.Fatalf("expected log file in config dir: %v", err)
	}
}

func TestRunTerminalError(t *testing.T) {
	isolate(t)
	orig := runTUI
	runTUI = func(app.Options) error { return errors.New("boom") }
	defer func() { runTUI = orig }()

	var stdout, stderr bytes.Buffer
	code := run([]string{t.TempDir()}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "error: boom") {
		t.Fatalf("expected error output, got %s", stderr.String())
	}
}

func TestRunMissingFolder(t *testing.T) {
	isolate(t)
	orig := runTUI
	runTUI = func(app.Options) error {
		t.Fatal("terminal UI must not start")
		return nil
	}
	defer func() { runTUI = orig }()

	var stdout, stderr bytes.Buffer
	if code := run([]string{filepath.Join(t.TempDir(), "missing")}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRunUsageErrors(t *testing.T) {
	isolate(t)
	for _, args := range [][]string{{"a", "b"}, {"--nope"}, {"scan"}} {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != 2 {
			t.Fatalf("run(%v) = %d, want 2 (%s)", args, code, stderr.String())
		}
	}
}

func TestRunDesktop(t *testing.T) {
	configDir := isolate(t)
	folder := t.TempDir()
	var got gui.Options
	orig := runGUI
	runGUI = func(opts gui.Options) error {
		got = opts
		return nil
	}
	defer func() { runGUI = orig }()

	var stdout, stderr bytes.Buffer
	if code := run([]string{"gui", folder}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d (%s)", code, stderr.String())
	}
	if got.Folder != folder {
		t.Fatalf("expected folder %q, got %q", folder, got.Folder)
	}
	if got.WindowStateFile != filepath.Join(configDir, "window.json") {
		t.Fatalf("unexpected window state file %q", got.WindowStateFile)
	}
}

func TestScanCommand(t *testing.T) {
	isolate(t)
	folder := t.TempDir()
	writeTree(t, folder, map[string]string{
		"Week 1/a.mp4": "v",
		"intro.mp4":    "v",
		"notes.txt":    "n",
	})

	var stdout, stderr bytes.Buffer
	if code := run([]string{"scan", folder}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d (%s)", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"📁 Week 1  (1 video)", "└─ a  [  0%]  (Week 1)", "📁 Root Files", "intro  [  0%]  (Root)", "2 videos"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSubsCommand(t *testing.T) {
	isolate(t)
	folder := t.TempDir()
	writeTree(t, folder, map[string]string{
		"lesson.mp4": "v",
		"lesson.srt": "1\n00:00:01,000 --> 00:00:02,000\nHello\nthere\n\n2\n00:00:03,000 --> 00:00:04,000\nWorld\n",
	})
	video := filepath.Join(folder, "lesson.mp4")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"subs", video}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d (%s)", code, stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{"(srt, 2 cues)", "00:00:01.000 --> 00:00:02.000  Hello / there", "00:00:03.000 --> 00:00:04.000  World"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	stdout.Reset()
	if code := run([]string{"subs", video, "--at", "3.5s"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "00:00:03.500  World") {
		t.Fatalf("unexpected cue output %s", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"subs", video, "--at", "2.5s"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "(no cue)") {
		t.Fatalf("expected gap output, got %s", stdout.String())
	}
}

func TestSubsCommandWithoutSubtitle(t *testing.T) {
	isolate(t)
	folder := t.TempDir()
	writeTree(t, folder, map[string]string{"lesson.mp4": "v"})

	var stdout, stderr bytes.Buffer
	if code := run([]string{"subs", filepath.Join(folder, "lesson.mp4")}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr.String(), "no subtitle file found") {
		t.Fatalf("unexpected stderr %s", stderr.String())
	}
}

func TestMainUsesExit(t *testing.T) {
	isolate(t)
	folder := t.TempDir()
	origRun := runTUI
	origExit := exit
	runTUI = func(app.Options) error { return nil }
	code := -1
	exit = func(c int) { code = c }
	defer func() {
		runTUI = origRun
		exit = origExit
	}()
	os.Args = []string{"localdemy", folder}
	main()
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}
