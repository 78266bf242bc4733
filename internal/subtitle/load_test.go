package subtitle

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		wantErr bool
	}{
		{"srt ok", "/s/a.srt", "1\n00:00:01,000 --> 00:00:02,000\nHi", false},
		{"srt without arrow", "/s/a.srt", "just some words in a file", true},
		{"srt too short", "/s/a.srt", "-->", true},
		{"vtt header", "/s/a.vtt", "WEBVTT", false},
		{"vtt timing only", "/s/a.vtt", "00:01.000 --> 00:02.000\nHi", false},
		{"vtt garbage", "/s/a.vtt", "hello there general", true},
		{"ass section", "/s/a.ass", "[Script Info]\nTitle: x", false},
		{"ssa events", "/s/a.ssa", "[Events]", false},
		{"ass garbage", "/s/a.ass", "no sections here", true},
		{"sub braces", "/s/a.sub", "{1}{25}Hello", false},
		{"sub garbage", "/s/a.sub", "plain text", true},
		{"unsupported extension", "/s/a.txt", "1\n00:00:01,000 --> 00:00:02,000\nHi", true},
		{"empty file", "/s/a.srt", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			if err := afero.WriteFile(fsys, tt.path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			err := Validate(fsys, tt.path)
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSubtitle) {
				t.Fatalf("expected ErrInvalidSubtitle, got %v", err)
			}
		})
	}
}

func TestValidateMissingFile(t *testing.T) {
	err := Validate(afero.NewMemMapFs(), "/nope.srt")
	var invalidErr *InvalidSubtitleError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidSubtitleError, got %v", err)
	}
	if invalidErr.Path != "/nope.srt" {
		t.Fatalf("unexpected path %q", invalidErr.Path)
	}
}

func TestValidateRejectsOversizedFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	body := "1\n00:00:01,000 --> 00:00:02,000\n" + strings.Repeat("x", MaxFileSize)
	if err := afero.WriteFile(fsys, "/big.srt", []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Validate(fsys, "/big.srt"); !errors.Is(err, ErrInvalidSubtitle) {
		t.Fatalf("expected size rejection, got %v", err)
	}
}

func TestLoaderLoadsAndPicksParser(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/s/a.srt": "1\n00:00:01,000 --> 00:00:02,000\nS\xe9ance",
		"/s/b.vtt": "WEBVTT\n\n00:03.000 --> 00:04.000\nVTT",
		"/s/c.sub": "WEBVTT\n\n00:05.000 --> 00:06.000\nsniffed",
	}
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	loader := NewLoader(fsys, nil)

	srt, err := loader.Load("/s/a.srt")
	if err != nil {
		t.Fatalf("load srt: %v", err)
	}
	if got := srt.CueAt(1500 * time.Millisecond); got != "Séance" {
		t.Fatalf("srt cue = %q", got)
	}

	vtt, err := loader.Load("/s/b.vtt")
	if err != nil {
		t.Fatalf("load vtt: %v", err)
	}
	if vtt.Format != FormatWebVTT || vtt.CueAt(3*time.Second) != "VTT" {
		t.Fatalf("unexpected vtt track %+v", vtt)
	}

	sub, err := loader.Load("/s/c.sub")
	if err != nil {
		t.Fatalf("load sub: %v", err)
	}
	if sub.Format != FormatWebVTT || sub.Len() != 1 {
		t.Fatalf("unexpected sniffed track %+v", sub)
	}
}

func TestLoadTrackRejectsWholeFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/s/bad.srt", []byte("not a subtitle at all"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	track, err := LoadTrack(fsys, "/s/bad.srt")
	if !errors.Is(err, ErrInvalidSubtitle) {
		t.Fatalf("expected invalid subtitle error, got %v", err)
	}
	if track.Len() != 0 {
		t.Fatalf("expected empty track on failure, got %+v", track)
	}
}
