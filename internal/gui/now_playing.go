package gui

import (
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/localdemy/internal/library"
	"codeberg.org/snonux/localdemy/internal/player"
	"codeberg.org/snonux/localdemy/internal/subtitle"
)

// NowPlayingPanel shows the selected or playing video with its transport
// controls and the active subtitle cue.
type NowPlayingPanel struct {
	container     *fyne.Container
	card          *widget.Card
	nameLabel     *widget.Label
	timeLabel     *widget.Label
	subtitleLabel *widget.Label
	progress      *widget.ProgressBar
	cue           *widget.RichText
	playBtn       *widget.Button
	pauseBtn      *widget.Button
	stopBtn       *widget.Button
	backBtn       *widget.Button
	forwardBtn    *widget.Button
	loadSubBtn    *widget.Button
	clearSubBtn   *widget.Button

	selected string
	playing  bool

	OnPlay          func()
	OnPause         func()
	OnStop          func()
	OnSeek          func(time.Duration)
	OnLoadSubtitle  func()
	OnClearSubtitle func()
}

func NewNowPlayingPanel() *NowPlayingPanel {
	p := &NowPlayingPanel{
		nameLabel:     widget.NewLabel("No video selected"),
		timeLabel:     widget.NewLabel(""),
		subtitleLabel: widget.NewLabel(""),
		progress:      widget.NewProgressBar(),
		cue:           widget.NewRichText(),
	}
	p.nameLabel.Wrapping = fyne.TextWrapWord
	p.cue.Wrapping = fyne.TextWrapWord

	p.playBtn = widget.NewButton("▶ Play", func() { call(p.OnPlay) })
	p.pauseBtn = widget.NewButton("⏯ Pause", func() { call(p.OnPause) })
	p.stopBtn = widget.NewButton("⏹ Stop", func() { call(p.OnStop) })
	p.backBtn = widget.NewButton("-10s", func() { p.seek(-seekStep) })
	p.forwardBtn = widget.NewButton("+10s", func() { p.seek(seekStep) })
	p.loadSubBtn = widget.NewButton("Load Subtitle", func() { call(p.OnLoadSubtitle) })
	p.clearSubBtn = widget.NewButton("Clear Subtitle", func() { call(p.OnClearSubtitle) })

	content := container.NewVBox(
		p.nameLabel,
		widget.NewSeparator(),
		p.timeLabel,
		p.progress,
		container.NewHBox(p.playBtn, p.pauseBtn, p.stopBtn, p.backBtn, p.forwardBtn),
		widget.NewSeparator(),
		p.subtitleLabel,
		container.NewHBox(p.loadSubBtn, p.clearSubBtn),
		widget.NewSeparator(),
		p.cue,
	)
	p.card = widget.NewCard("Now Playing", "", content)
	p.container = container.NewVBox(p.card)
	p.updateButtons()
	return p
}

func call(f func()) {
	if f != nil {
		f()
	}
}

func (p *NowPlayingPanel) seek(delta time.Duration) {
	if p.OnSeek != nil {
		p.OnSeek(delta)
	}
}

func (p *NowPlayingPanel) Content() fyne.CanvasObject {
	return p.container
}

// SetSelected shows a library row that is not playing.
func (p *NowPlayingPanel) SetSelected(row library.Row, resume time.Duration) {
	if p.playing {
		return
	}
	if row.Kind != library.RowVideo {
		p.selected = ""
		p.nameLabel.SetText(row.Label)
		p.timeLabel.SetText(row.Secondary)
		p.progress.SetValue(0)
		p.updateButtons()
		return
	}
	p.selected = row.VideoPath
	p.nameLabel.SetText(row.Name)
	if resume > 0 {
		p.timeLabel.SetText(fmt.Sprintf("Resume at %s", subtitle.FormatClock(resume)))
	} else {
		p.timeLabel.SetText("Not started")
	}
	p.progress.SetValue(library.ClampFraction(row.Progress))
	p.updateButtons()
}

// SetPlaying switches the panel to the given video, or back to the idle
// state when video is empty.
func (p *NowPlayingPanel) SetPlaying(video, subtitlePath string) {
	p.playing = video != ""
	if p.playing {
		p.card.SetTitle("Now Playing")
		p.nameLabel.SetText(library.Title(video))
	} else {
		p.card.SetTitle("Selected")
		p.timeLabel.SetText("")
		p.progress.SetValue(0)
		p.setCue("")
	}
	p.SetSubtitle(subtitlePath)
	p.updateButtons()
}

func (p *NowPlayingPanel) SetSubtitle(path string) {
	if path == "" {
		p.subtitleLabel.SetText("Subtitles: none")
	} else {
		p.subtitleLabel.SetText("Subtitles: " + filepath.Base(path))
	}
	p.clearSubBtn.Enable()
	if path == "" {
		p.clearSubBtn.Disable()
		p.setCue("")
	}
}

// Update renders one playback poll.
func (p *NowPlayingPanel) Update(snap player.Snapshot) {
	total := "--:--:--.---"
	if snap.HasDuration {
		total = subtitle.FormatClock(snap.Duration)
	}
	p.timeLabel.SetText(fmt.Sprintf("%s / %s", subtitle.FormatClock(snap.Position), total))
	p.progress.SetValue(snap.Fraction())
	p.setCue(snap.Markup)
}

func (p *NowPlayingPanel) setCue(markup string) {
	p.cue.Segments = cueSegments(markup)
	p.cue.Refresh()
}

// cueSegments converts cue display markup into rich text segments.
func cueSegments(markup string) []widget.RichTextSegment {
	spans := subtitle.Spans(markup)
	segments := make([]widget.RichTextSegment, 0, len(spans))
	for _, span := range spans {
		style := widget.RichTextStyleInline
		style.TextStyle = fyne.TextStyle{Bold: span.Bold, Italic: span.Italic}
		segments = append(segments, &widget.TextSegment{Text: span.Text, Style: style})
	}
	return segments
}

func (p *NowPlayingPanel) updateButtons() {
	toggle := func(b *widget.Button, on bool) {
		if on {
			b.Enable()
		} else {
			b.Disable()
		}
	}
	toggle(p.playBtn, p.selected != "")
	for _, b := range []*widget.Button{p.pauseBtn, p.stopBtn, p.backBtn, p.forwardBtn, p.loadSubBtn} {
		toggle(b, p.playing)
	}
	if !p.playing {
		p.clearSubBtn.Disable()
	}
}
