package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/localdemy/internal/library"
	"codeberg.org/snonux/localdemy/internal/subtitle"
)

func (m model) handlePlayVideo(msg playVideoMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusMessage = fmt.Sprintf("Playback failed: %v", msg.err)
		return m, nil
	}
	m.playGen++
	m.playing = msg.path
	m.paused = false
	m.position = 0
	m.duration = 0
	m.cueMarkup = ""
	m.subtitlePath = msg.subtitle
	m.store.SetLastVideo(msg.path)
	m.saver.Touch()
	m.refreshTable()

	title := library.Title(msg.path)
	if msg.subtitle == "" {
		m.statusMessage = fmt.Sprintf("Playing %s (no subtitles)", title)
	} else {
		m.statusMessage = fmt.Sprintf("Playing %s with %s", title, trimPath(msg.subtitle))
	}
	return m, playbackTickCmd(m.session, m.pollInterval, m.playGen)
}

func (m model) handlePlaybackTick(msg playbackTickMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.playGen || m.playing == "" {
		return m, nil
	}
	if msg.ok {
		snap := msg.snapshot
		m.position = snap.Position
		m.duration = snap.Duration
		m.cueMarkup = snap.Markup
		if snap.HasDuration {
			if fraction, ok := m.store.Record(m.playing, snap.Position, snap.Duration, time.Now()); ok {
				m.saver.Touch()
				m.setRowProgress(m.playing, fraction)
			}
		}
	}
	return m, playbackTickCmd(m.session, m.pollInterval, m.playGen)
}

// setRowProgress updates the progress bar of one video without rescanning.
func (m *model) setRowProgress(video string, fraction float64) {
	fraction = library.ClampFraction(fraction)
	changed := false
	for _, rows := range [][]library.Row{m.rows, m.visible} {
		for i := range rows {
			if rows[i].Kind == library.RowVideo && rows[i].VideoPath == video && rows[i].Progress != fraction {
				rows[i].Progress = fraction
				changed = true
			}
		}
	}
	if changed {
		m.refreshTable()
	}
}

func (m model) handlePauseToggled(msg pauseToggledMsg) model {
	if msg.err != nil {
		m.statusMessage = fmt.Sprintf("Pause failed: %v", msg.err)
		return m
	}
	m.paused = msg.paused
	if m.paused {
		m.statusMessage = "Paused"
	} else {
		m.statusMessage = "Resumed"
	}
	return m
}

func (m model) handlePlaybackStopped(msg playbackStoppedMsg) model {
	m.playGen++
	m.playing = ""
	m.paused = false
	m.cueMarkup = ""
	m.subtitlePath = ""
	m.refreshTable()
	if msg.err != nil {
		m.statusMessage = fmt.Sprintf("Stop failed: %v", msg.err)
		return m
	}
	m.statusMessage = "Playback stopped"
	return m
}

func (m model) handleSubtitleChanged(msg subtitleChangedMsg) model {
	switch {
	case errors.Is(msg.err, subtitle.ErrInvalidSubtitle):
		m.statusMessage = fmt.Sprintf("Not a subtitle file: %v", msg.err)
	case msg.err != nil:
		m.statusMessage = fmt.Sprintf("Subtitle failed: %v", msg.err)
	case msg.cleared:
		m.subtitlePath = ""
		m.cueMarkup = ""
		m.statusMessage = "Subtitle cleared"
	default:
		m.subtitlePath = msg.path
		m.cueMarkup = ""
		m.statusMessage = fmt.Sprintf("Loaded subtitle %s", trimPath(msg.path))
	}
	return m
}
