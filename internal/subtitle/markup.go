package subtitle

import "strings"

var (
	escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

	srtTags = strings.NewReplacer(
		"{b}", "<b>", "{/b}", "</b>",
		"{i}", "<i>", "{/i}", "</i>",
	)

	webvttTags = strings.NewReplacer(
		"&lt;b&gt;", "<b>", "&lt;/b&gt;", "</b>",
		"&lt;i&gt;", "<i>", "&lt;/i&gt;", "</i>",
		"&lt;u&gt;", "<u>", "&lt;/u&gt;", "</u>",
		"&lt;c&gt;", "<c>", "&lt;/c&gt;", "</c>",
	)

	markupStripper = strings.NewReplacer(
		"<b>", "", "</b>", "",
		"<i>", "", "</i>", "",
		"<u>", "", "</u>", "",
		"<c>", "", "</c>", "",
	)

	unescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
)

// MarkupSRT escapes text and converts the {b} and {i} SRT markers into
// <b> and <i> tags.
func MarkupSRT(text string) string {
	return srtTags.Replace(escaper.Replace(text))
}

// MarkupWebVTT escapes text and restores the b, i, u and c inline tags.
func MarkupWebVTT(text string) string {
	return webvttTags.Replace(escaper.Replace(text))
}

// StripMarkup removes the tags inserted by MarkupSRT or MarkupWebVTT and
// undoes the entity escaping, yielding the plain text.
func StripMarkup(markup string) string {
	return unescaper.Replace(markupStripper.Replace(markup))
}

// Span is a run of plain cue text sharing one style.
type Span struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
}

// Spans splits markup produced by MarkupSRT or MarkupWebVTT into styled runs.
// Unknown tags are dropped.
func Spans(markup string) []Span {
	var (
		spans []Span
		style Span
	)
	emit := func(raw string) {
		if raw == "" {
			return
		}
		s := style
		s.Text = unescaper.Replace(raw)
		spans = append(spans, s)
	}
	for markup != "" {
		open := strings.IndexByte(markup, '<')
		if open < 0 {
			emit(markup)
			break
		}
		emit(markup[:open])
		end := strings.IndexByte(markup[open:], '>')
		if end < 0 {
			emit(markup[open:])
			break
		}
		tag := markup[open+1 : open+end]
		on := !strings.HasPrefix(tag, "/")
		switch strings.TrimPrefix(tag, "/") {
		case "b":
			style.Bold = on
		case "i":
			style.Italic = on
		case "u":
			style.Underline = on
		}
		markup = markup[open+end+1:]
	}
	return spans
}
