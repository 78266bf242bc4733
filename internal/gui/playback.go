package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"codeberg.org/snonux/localdemy/internal/library"
	"codeberg.org/snonux/localdemy/internal/player"
)

func (m *MainWindow) session() *player.Session {
	return m.app.opts.Session
}

func (m *MainWindow) play(video string) {
	session := m.session()
	if session == nil {
		m.SetStatus("No player configured")
		return
	}
	resume := m.app.opts.Store.ResumePosition(video)
	m.SetStatus(fmt.Sprintf("Starting %s", library.Title(video)))
	m.async.RunAsync(func() UpdateCallback {
		err := session.Open(video, resume)
		return func() {
			if err != nil {
				dialog.ShowError(err, m.window)
				m.SetStatus("Playback failed")
				return
			}
			m.startPlayback(video)
		}
	})
}

func (m *MainWindow) startPlayback(video string) {
	m.stopPolling()
	m.playing = video
	m.list.SetPlaying(video)
	m.panel.SetPlaying(video, m.session().SubtitlePath())

	store, saver := m.app.opts.Store, m.app.opts.Saver
	store.SetLastVideo(video)
	saver.Touch()
	m.SetStatus(fmt.Sprintf("Playing %s", library.Title(video)))

	ctx, cancel := context.WithCancel(m.app.Context())
	m.stopPolls = cancel
	m.async.Every(ctx, m.app.opts.PollInterval, func() bool {
		if ctx.Err() != nil {
			return false
		}
		snap, ok := m.session().Poll()
		if !ok {
			return true
		}
		m.panel.Update(snap)
		if !snap.HasDuration {
			return true
		}
		if fraction, ok := store.Record(video, snap.Position, snap.Duration, time.Now()); ok {
			saver.Touch()
			m.setProgress(video, fraction)
		}
		return true
	})
}

func (m *MainWindow) setProgress(video string, fraction float64) {
	for i := range m.rows {
		if m.rows[i].Kind == library.RowVideo && m.rows[i].VideoPath == video {
			m.rows[i].Progress = library.ClampFraction(fraction)
		}
	}
	m.list.SetProgress(video, fraction)
}

func (m *MainWindow) stopPolling() {
	if m.stopPolls != nil {
		m.stopPolls()
		m.stopPolls = nil
	}
}

func (m *MainWindow) togglePause() {
	if m.playing == "" {
		return
	}
	paused, err := m.session().TogglePause()
	if err != nil {
		m.SetStatus(fmt.Sprintf("Pause failed: %v", err))
		return
	}
	if paused {
		m.SetStatus("Paused")
	} else {
		m.SetStatus("Resumed")
	}
}

func (m *MainWindow) seek(delta time.Duration) {
	if m.playing == "" {
		return
	}
	if err := m.session().SeekRelative(delta); err != nil {
		m.SetStatus(fmt.Sprintf("Seek failed: %v", err))
	}
}

func (m *MainWindow) stopPlayback() {
	if m.playing == "" {
		return
	}
	m.stopPolling()
	err := m.session().Stop()
	m.playing = ""
	m.list.SetPlaying("")
	m.panel.SetPlaying("", "")
	if err != nil {
		m.SetStatus(fmt.Sprintf("Stop failed: %v", err))
		return
	}
	m.SetStatus("Playback stopped")
}

func (m *MainWindow) showSubtitleDialog() {
	if m.playing == "" {
		return
	}
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, m.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		m.loadSubtitle(path)
	}, m.window)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".srt", ".vtt"}))
	open.Show()
}

func (m *MainWindow) loadSubtitle(path string) {
	if err := m.session().LoadSubtitle(path); err != nil {
		dialog.ShowError(err, m.window)
		return
	}
	m.panel.SetSubtitle(path)
	m.SetStatus(fmt.Sprintf("Loaded subtitle %s", path))
}

func (m *MainWindow) clearSubtitle() {
	if m.playing == "" {
		return
	}
	m.session().ClearSubtitle()
	m.panel.SetSubtitle("")
	m.SetStatus("Subtitle cleared")
}
