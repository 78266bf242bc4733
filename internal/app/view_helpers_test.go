package app

import (
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/localdemy/internal/library"
)

func TestLibraryRowVideo(t *testing.T) {
	row := library.Row{
		Kind:      library.RowVideo,
		Label:     "Lesson",
		Secondary: "Week 1",
		Indent:    1,
		Branch:    "└─",
		Progress:  0.5,
		VideoPath: "/lib/Week 1/Lesson.mp4",
	}
	got := libraryRow(row, "")
	if got[0] != "  └─ Lesson" {
		t.Fatalf("unexpected name cell %q", got[0])
	}
	if got[1] != "[#####-----]  50%" {
		t.Fatalf("unexpected progress cell %q", got[1])
	}
	if got[2] != "Week 1" {
		t.Fatalf("unexpected info cell %q", got[2])
	}
	if playing := libraryRow(row, row.VideoPath); !strings.Contains(playing[0], "▶ Lesson") {
		t.Fatalf("expected playing marker, got %q", playing[0])
	}
}

func TestLibraryRowFolder(t *testing.T) {
	row := library.Row{Kind: library.RowFolder, Label: library.FolderLabel("Week 1"), Secondary: "2 videos"}
	got := libraryRow(row, "")
	if got[0] != "📁 Week 1" || got[1] != "" || got[2] != "2 videos" {
		t.Fatalf("unexpected folder row %v", got)
	}
}

func TestRenderProgressBar(t *testing.T) {
	cases := []struct {
		fraction float64
		width    int
		want     string
	}{
		{0, 4, "[----]"},
		{0.5, 10, "[#####-----]"},
		{1, 4, "[####]"},
		{2, 4, "[####]"},
		{-1, 4, "[----]"},
		{0.5, 0, ""},
	}
	for _, tc := range cases {
		if got := renderProgressBar(tc.fraction, tc.width); got != tc.want {
			t.Errorf("renderProgressBar(%v, %d) = %q, want %q", tc.fraction, tc.width, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		0:                              "--:--",
		25 * time.Second:               "00:25",
		61*time.Minute + 5*time.Second: "1:01:05",
	}
	for in, want := range cases {
		if got := formatDuration(in); got != want {
			t.Errorf("formatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderCueMarkup(t *testing.T) {
	got := renderCueMarkup("<b>Tom &amp; Jerry</b> <c.yellow>run</c>")
	if strings.Contains(got, "<b>") || strings.Contains(got, "&amp;") {
		t.Fatalf("expected markup removed, got %q", got)
	}
	for _, part := range []string{"Tom & Jerry", "run"} {
		if !strings.Contains(got, part) {
			t.Fatalf("expected %q in %q", part, got)
		}
	}
}
