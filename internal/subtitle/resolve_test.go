package subtitle

import (
	"testing"

	"github.com/spf13/afero"
)

func newFS(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, f := range files {
		if err := afero.WriteFile(fsys, f, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
	return fsys
}

func TestFindSearchOrder(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
		found bool
	}{
		{
			name:  "language suffix beats plain stem",
			files: []string{"/v/lesson.mp4", "/v/lesson.srt", "/v/lesson.en.vtt"},
			want:  "/v/lesson.en.vtt",
			found: true,
		},
		{
			name:  "plain stem",
			files: []string{"/v/lesson.mp4", "/v/lesson.srt"},
			want:  "/v/lesson.srt",
			found: true,
		},
		{
			name:  "subtitle directory partial match",
			files: []string{"/v/lesson.mp4", "/v/subs/LESSON_full.srt"},
			want:  "/v/subs/LESSON_full.srt",
			found: true,
		},
		{
			name:  "languages before extensions",
			files: []string{"/v/lesson.mp4", "/v/lesson.es.srt", "/v/lesson.en.sub"},
			want:  "/v/lesson.en.sub",
			found: true,
		},
		{
			name:  "dot separator before underscore",
			files: []string{"/v/lesson.mp4", "/v/lesson_en.srt", "/v/lesson.ru.srt"},
			want:  "/v/lesson.ru.srt",
			found: true,
		},
		{
			name:  "dash separator",
			files: []string{"/v/lesson.mp4", "/v/lesson-german.vtt"},
			want:  "/v/lesson-german.vtt",
			found: true,
		},
		{
			name:  "underscore separator before dash",
			files: []string{"/v/lesson.mp4", "/v/lesson-en.srt", "/v/lesson_en.srt"},
			want:  "/v/lesson_en.srt",
			found: true,
		},
		{
			name:  "dash separator before plain stem",
			files: []string{"/v/lesson.mp4", "/v/lesson.srt", "/v/lesson-en.srt"},
			want:  "/v/lesson-en.srt",
			found: true,
		},
		{
			name:  "plain stem before subtitle directory",
			files: []string{"/v/lesson.mp4", "/v/subs/lesson.srt", "/v/lesson.srt"},
			want:  "/v/lesson.srt",
			found: true,
		},
		{
			name:  "subtitle directory before parent directory",
			files: []string{"/course/v/lesson.mp4", "/course/lesson-subs.srt", "/course/v/subs/lesson.srt"},
			want:  "/course/v/subs/lesson.srt",
			found: true,
		},
		{
			name:  "subtitle directory entries in name order",
			files: []string{"/v/lesson.mp4", "/v/subtitles/lesson_b.srt", "/v/subtitles/lesson_a.srt"},
			want:  "/v/subtitles/lesson_a.srt",
			found: true,
		},
		{
			name:  "subtitle directory stem contained in video stem",
			files: []string{"/v/lesson-01-intro.mp4", "/v/srt/intro.vtt"},
			want:  "/v/srt/intro.vtt",
			found: true,
		},
		{
			name:  "subtitle directory ignores other extensions",
			files: []string{"/v/lesson.mp4", "/v/subs/lesson.txt"},
			found: false,
		},
		{
			name:  "parent directory",
			files: []string{"/course/v/lesson.mp4", "/course/all-lesson-subs.srt"},
			want:  "/course/all-lesson-subs.srt",
			found: true,
		},
		{
			name:  "parent directory needs stem inside file name",
			files: []string{"/course/v/lesson.mp4", "/course/less.srt"},
			found: false,
		},
		{
			name:  "nothing",
			files: []string{"/v/lesson.mp4"},
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := newFS(t, tt.files...)
			got, found := Find(fsys, tt.files[0])
			if found != tt.found || got != tt.want {
				t.Fatalf("Find = (%q, %v), want (%q, %v)", got, found, tt.want, tt.found)
			}
		})
	}
}

func TestFindIgnoresDirectoriesNamedLikeSubtitles(t *testing.T) {
	fsys := newFS(t, "/v/lesson.mp4")
	if err := fsys.MkdirAll("/v/lesson.srt", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if got, found := Find(fsys, "/v/lesson.mp4"); found {
		t.Fatalf("expected no match, got %q", got)
	}
}

func TestResolverCachesPerVideo(t *testing.T) {
	fsys := newFS(t, "/v/lesson.mp4", "/v/lesson.srt")
	r := NewResolver(fsys, nil)

	if got, ok := r.Resolve("/v/lesson.mp4"); !ok || got != "/v/lesson.srt" {
		t.Fatalf("first resolve = (%q, %v)", got, ok)
	}

	// A better match appearing mid-load must not change the cached answer.
	if err := afero.WriteFile(fsys, "/v/lesson.en.srt", []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, _ := r.Resolve("/v/lesson.mp4"); got != "/v/lesson.srt" {
		t.Fatalf("expected cached result, got %q", got)
	}

	r.Reset()
	if got, _ := r.Resolve("/v/lesson.mp4"); got != "/v/lesson.en.srt" {
		t.Fatalf("expected fresh result after reset, got %q", got)
	}
}

func TestResolverRecomputesForNewVideo(t *testing.T) {
	fsys := newFS(t, "/v/a.mp4", "/v/a.srt", "/v/b.mp4", "/v/b.vtt")
	r := NewResolver(fsys, nil)

	if got, _ := r.Resolve("/v/a.mp4"); got != "/v/a.srt" {
		t.Fatalf("a resolved to %q", got)
	}
	if got, _ := r.Resolve("/v/b.mp4"); got != "/v/b.vtt" {
		t.Fatalf("b resolved to %q", got)
	}
}
