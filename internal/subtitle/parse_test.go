package subtitle

import (
	"testing"
	"time"
)

func ms(n int64) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func TestParseSRTSkipsMalformedBlocks(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,500\nHello\nWorld\n\n2\nBAD BLOCK\n\n3\n00:00:03,000 --> 00:00:04,000\nBye"

	track := ParseSRT(content)
	want := []Cue{
		{Start: ms(1000), End: ms(2500), Text: "Hello\nWorld"},
		{Start: ms(3000), End: ms(4000), Text: "Bye"},
	}
	assertCues(t, track.Cues, want)
	if track.Format != FormatSRT {
		t.Fatalf("expected srt format, got %v", track.Format)
	}
}

func TestParseSRTHandlesCRLFAndSorts(t *testing.T) {
	content := "2\r\n00:00:05,000 --> 00:00:06,000\r\nLater\r\n\r\n1\r\n00:00:01,000 --> 00:00:02,000\r\nEarlier\r\n"

	track := ParseSRT(content)
	want := []Cue{
		{Start: ms(1000), End: ms(2000), Text: "Earlier"},
		{Start: ms(5000), End: ms(6000), Text: "Later"},
	}
	assertCues(t, track.Cues, want)
}

func TestParseSRTRejectsBadTimings(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing arrow", "1\n00:00:01,000 00:00:02,000\nText"},
		{"two part timestamp", "1\n00:01,000 --> 00:02,000\nText"},
		{"letters", "1\n00:00:aa,000 --> 00:00:02,000\nText"},
		{"end before start", "1\n00:00:05,000 --> 00:00:02,000\nText"},
		{"hours overflow", "1\n9999999:00:00,000 --> 9999999:00:01,000\nText"},
		{"hours plus minutes overflow", "1\n2562047:59:00,000 --> 2562047:59:01,000\nText"},
		{"empty", "   \n\n  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSRT(tt.content); got.Len() != 0 {
				t.Fatalf("expected no cues, got %+v", got.Cues)
			}
		})
	}
}

func TestParseSRTPreservesFractionalSeconds(t *testing.T) {
	track := ParseSRT("1\n00:01:02,5 --> 01:00:00,0625\nx")
	if track.Len() != 1 {
		t.Fatalf("expected one cue, got %d", track.Len())
	}
	if got, want := track.Cues[0].Start, 62*time.Second+500*time.Millisecond; got != want {
		t.Fatalf("start = %v, want %v", got, want)
	}
	if got, want := track.Cues[0].End, time.Hour+62500*time.Microsecond; got != want {
		t.Fatalf("end = %v, want %v", got, want)
	}
}

func TestParseWebVTT(t *testing.T) {
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000 align:start\nHello\n\n01:02.500 --> 01:03.000\nShort form"

	track := ParseWebVTT(content)
	want := []Cue{
		{Start: ms(1000), End: ms(2000), Text: "Hello"},
		{Start: ms(62500), End: ms(63000), Text: "Short form"},
	}
	assertCues(t, track.Cues, want)
	if track.Format != FormatWebVTT {
		t.Fatalf("expected webvtt format, got %v", track.Format)
	}
}

func TestParseWebVTTRequiresHeader(t *testing.T) {
	track := ParseWebVTT("00:00:01.000 --> 00:00:02.000\nHello")
	if track.Len() != 0 {
		t.Fatalf("expected empty track, got %+v", track.Cues)
	}
}

func TestParseWebVTTSkipsNotesAndIdentifiers(t *testing.T) {
	content := "WEBVTT - lecture\nKind: captions\n\nNOTE this is a comment\n\nintro\n00:00:01.000 --> 00:00:02.000\nFirst line\nsecond line\n\nsecond-id\n00:00:03.000 --> 00:00:04.000\nNext\n\n00:00:05.000 --> 00:00:06.000\n\n"

	track := ParseWebVTT(content)
	want := []Cue{
		{Start: ms(1000), End: ms(2000), Text: "First line\nsecond line"},
		{Start: ms(3000), End: ms(4000), Text: "Next"},
	}
	assertCues(t, track.Cues, want)
}

func TestParseWebVTTBlankLineBeforeText(t *testing.T) {
	content := "WEBVTT\n\n00:01.000 --> 00:02.000\n\nHello\n\n00:03.000 --> 00:04.000\nWorld\n\nafter gap"

	track := ParseWebVTT(content)
	want := []Cue{
		{Start: ms(1000), End: ms(2000), Text: "Hello"},
		{Start: ms(3000), End: ms(4000), Text: "World"},
	}
	assertCues(t, track.Cues, want)
}

func TestParseWebVTTSkipsBadTiming(t *testing.T) {
	content := "WEBVTT\n\n00:00:xx.000 --> 00:00:02.000\nDropped\n\n00:00:03.000 --> 00:00:04.000\nKept"

	track := ParseWebVTT(content)
	assertCues(t, track.Cues, []Cue{{Start: ms(3000), End: ms(4000), Text: "Kept"}})
}

func TestDetect(t *testing.T) {
	tests := []struct {
		ext     string
		content string
		want    Format
	}{
		{".srt", "WEBVTT", FormatSRT},
		{".VTT", "", FormatWebVTT},
		{".sub", "  WEBVTT\n", FormatWebVTT},
		{".ass", "[Script Info]", FormatSRT},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			track := Detect(tt.ext, tt.content, nil).Parse(tt.content)
			if track.Format != tt.want {
				t.Fatalf("Detect(%q) format = %v, want %v", tt.ext, track.Format, tt.want)
			}
		})
	}
}

func assertCues(t *testing.T, got, want []Cue) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d cues, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cue %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
