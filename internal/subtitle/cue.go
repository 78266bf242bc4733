// Package subtitle finds, validates and parses external subtitle files and
// answers which cue is active at a given playback position.
package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Format identifies the timed-text dialect a track was parsed from.
type Format int

const (
	FormatSRT Format = iota
	FormatWebVTT
)

func (f Format) String() string {
	switch f {
	case FormatWebVTT:
		return "webvtt"
	default:
		return "srt"
	}
}

// Cue is one timed subtitle entry. Both bounds are inclusive.
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Track is an ordered, immutable list of cues sorted by start time.
type Track struct {
	Format Format
	Cues   []Cue
}

// Len returns the number of cues in the track.
func (t Track) Len() int {
	return len(t.Cues)
}

// CueAt returns the text of the first cue whose interval contains at, or an
// empty string when no cue matches.
func (t Track) CueAt(at time.Duration) string {
	for _, cue := range t.Cues {
		if cue.Start <= at && at <= cue.End {
			return cue.Text
		}
	}
	return ""
}

// Markup renders cue text for display using this track's inline tag rules.
func (t Track) Markup(text string) string {
	if t.Format == FormatWebVTT {
		return MarkupWebVTT(text)
	}
	return MarkupSRT(text)
}

// CueAt is the free-function form of Track.CueAt.
func CueAt(track Track, at time.Duration) string {
	return track.CueAt(at)
}

// parseClock converts "HH:MM:SS.fff" (or "MM:SS.fff" when allowShort is set)
// into a duration. Both ',' and '.' are accepted as the decimal separator.
// Fractional seconds are kept to nanosecond precision.
func parseClock(token string, allowShort bool) (time.Duration, error) {
	token = strings.TrimSpace(strings.Replace(token, ",", ".", 1))
	parts := strings.Split(token, ":")
	var hours, minutes int
	var secPart string
	var err error
	switch {
	case len(parts) == 3:
		if hours, err = parseField(parts[0]); err != nil {
			return 0, fmt.Errorf("hours in %q: %w", token, err)
		}
		if minutes, err = parseField(parts[1]); err != nil {
			return 0, fmt.Errorf("minutes in %q: %w", token, err)
		}
		secPart = parts[2]
	case len(parts) == 2 && allowShort:
		if minutes, err = parseField(parts[0]); err != nil {
			return 0, fmt.Errorf("minutes in %q: %w", token, err)
		}
		secPart = parts[1]
	default:
		return 0, fmt.Errorf("malformed timestamp %q", token)
	}
	seconds, err := parseSeconds(secPart)
	if err != nil {
		return 0, fmt.Errorf("seconds in %q: %w", token, err)
	}
	h, err := scale(hours, time.Hour)
	if err != nil {
		return 0, fmt.Errorf("hours in %q: %w", token, err)
	}
	m, err := scale(minutes, time.Minute)
	if err != nil {
		return 0, fmt.Errorf("minutes in %q: %w", token, err)
	}
	total := h + m
	if total < h || total+seconds < total {
		return 0, fmt.Errorf("timestamp %q out of range", token)
	}
	return total + seconds, nil
}

// scale returns n units, failing instead of wrapping around.
func scale(n int, unit time.Duration) (time.Duration, error) {
	if int64(n) > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("value %d out of range", n)
	}
	return time.Duration(n) * unit, nil
}

func parseField(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty field")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid digit %q", r)
		}
	}
	return strconv.Atoi(s)
}

func parseSeconds(s string) (time.Duration, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	secs, err := parseField(whole)
	if err != nil {
		return 0, err
	}
	d, err := scale(secs, time.Second)
	if err != nil {
		return 0, err
	}
	if !hasFrac {
		return d, nil
	}
	if frac == "" {
		return d, nil
	}
	if len(frac) > 9 {
		frac = frac[:9]
	}
	n, err := parseField(frac)
	if err != nil {
		return 0, err
	}
	for i := len(frac); i < 9; i++ {
		n *= 10
	}
	return d + time.Duration(n), nil
}

// FormatClock renders d as HH:MM:SS.mmm.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3_600_000
	m := (ms / 60_000) % 60
	s := (ms / 1000) % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}
