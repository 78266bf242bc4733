package subtitle

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"codeberg.org/snonux/localdemy/internal/logging"
)

const timingSeparator = " --> "

// Parser turns decoded subtitle text into a cue track.
type Parser interface {
	Parse(content string) Track
}

// SRTParser parses SubRip content. Malformed blocks are skipped and logged at
// debug level.
type SRTParser struct {
	Log logrus.FieldLogger
}

// WebVTTParser parses WebVTT content. Content without a WEBVTT header yields
// an empty track.
type WebVTTParser struct {
	Log logrus.FieldLogger
}

// ParseSRT parses SubRip content without logging skipped blocks.
func ParseSRT(content string) Track {
	return SRTParser{}.Parse(content)
}

// ParseWebVTT parses WebVTT content without logging skipped cues.
func ParseWebVTT(content string) Track {
	return WebVTTParser{}.Parse(content)
}

func (p SRTParser) Parse(content string) Track {
	log := logging.OrDiscard(p.Log)
	track := Track{Format: FormatSRT}

	content = strings.TrimSpace(normalizeNewlines(content))
	if content == "" {
		return track
	}

	for n, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			log.WithField("block", n+1).Debug("skipping short srt block")
			continue
		}
		tokens := strings.Split(lines[1], timingSeparator)
		if len(tokens) != 2 {
			log.WithField("block", n+1).Debug("skipping srt block without timing line")
			continue
		}
		start, err := parseClock(tokens[0], false)
		if err != nil {
			log.WithError(err).WithField("block", n+1).Debug("skipping srt block")
			continue
		}
		end, err := parseClock(tokens[1], false)
		if err != nil {
			log.WithError(err).WithField("block", n+1).Debug("skipping srt block")
			continue
		}
		if end < start {
			log.WithField("block", n+1).Debug("skipping srt block ending before it starts")
			continue
		}
		track.Cues = append(track.Cues, Cue{
			Start: start,
			End:   end,
			Text:  strings.Join(lines[2:], "\n"),
		})
	}

	sortCues(track.Cues)
	return track
}

func (p WebVTTParser) Parse(content string) Track {
	log := logging.OrDiscard(p.Log)
	track := Track{Format: FormatWebVTT}

	lines := strings.Split(strings.TrimSpace(normalizeNewlines(content)), "\n")
	if !strings.HasPrefix(lines[0], "WEBVTT") {
		log.Debug("missing WEBVTT header")
		return track
	}

	var (
		current *Cue
		text    []string
		inText  bool
	)
	flush := func() {
		if current != nil && len(text) > 0 {
			current.Text = strings.Join(text, "\n")
			track.Cues = append(track.Cues, *current)
		}
		current = nil
		text = nil
	}

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			// A blank line ends the cue text only once some text was read.
			if len(text) > 0 {
				inText = false
			}
			continue
		}
		if strings.HasPrefix(line, "NOTE ") {
			continue
		}
		if strings.Contains(line, timingSeparator) {
			flush()
			inText = false
			cue, err := parseWebVTTTiming(line)
			if err != nil {
				log.WithError(err).WithField("line", i+1).Debug("skipping webvtt cue")
				continue
			}
			current = &cue
			inText = true
			continue
		}
		if current != nil && inText {
			text = append(text, line)
		}
	}
	flush()

	sortCues(track.Cues)
	return track
}

func parseWebVTTTiming(line string) (Cue, error) {
	tokens := strings.Split(line, timingSeparator)
	if len(tokens) != 2 {
		return Cue{}, errMalformedTiming(line)
	}
	fields := strings.Fields(tokens[1])
	if len(fields) == 0 {
		return Cue{}, errMalformedTiming(line)
	}
	start, err := parseClock(tokens[0], true)
	if err != nil {
		return Cue{}, err
	}
	end, err := parseClock(fields[0], true)
	if err != nil {
		return Cue{}, err
	}
	if end < start {
		return Cue{}, errMalformedTiming(line)
	}
	return Cue{Start: start, End: end}, nil
}

// Detect picks a parser by extension, falling back to content sniffing for
// extensions without a dedicated parser.
func Detect(ext, content string, log logrus.FieldLogger) Parser {
	switch strings.ToLower(ext) {
	case ".srt":
		return SRTParser{Log: log}
	case ".vtt":
		return WebVTTParser{Log: log}
	}
	if strings.HasPrefix(strings.TrimSpace(content), "WEBVTT") {
		return WebVTTParser{Log: log}
	}
	return SRTParser{Log: log}
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func sortCues(cues []Cue) {
	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].Start < cues[j].Start
	})
}
