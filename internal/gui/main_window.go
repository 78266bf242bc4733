package gui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/localdemy/internal/library"
)

const (
	seekStep         = 10 * time.Second
	scanPollInterval = 200 * time.Millisecond
)

type MainWindow struct {
	window  fyne.Window
	app     *App
	content fyne.CanvasObject
	split   *container.Split
	status  *StatusBar
	list    *LibraryList
	panel   *NowPlayingPanel
	toolbar *fyne.Container
	async   *AsyncManager

	reporter *library.Reporter
	scanning bool
	folder   string
	history  []string
	rows     []library.Row
	filter   string
	folders  bool

	playing   string
	stopPolls context.CancelFunc
}

func NewMainWindow(app *App) *MainWindow {
	window := app.fyneApp.NewWindow("Localdemy")
	window.SetMaster()

	mw := &MainWindow{
		window:   window,
		app:      app,
		status:   NewStatusBar(),
		list:     NewLibraryList(),
		panel:    NewNowPlayingPanel(),
		reporter: &library.Reporter{},
		folders:  app.opts.Store.AppState().ShowFolders,
	}
	mw.async = NewAsyncManager(app, window)

	mw.setupCallbacks()
	mw.buildToolbar()
	mw.buildContent()
	mw.setupKeyboardShortcuts()

	window.Resize(fyne.NewSize(1200, 800))
	if err := mw.loadWindowState(); err != nil {
		app.log.WithError(err).Warn("ignoring saved window state")
	}
	window.SetCloseIntercept(mw.quit)

	return mw
}

func (m *MainWindow) buildContent() {
	m.content = container.NewBorder(
		m.toolbar,
		m.status.Content(),
		nil,
		nil,
		m.buildMainArea(),
	)
	m.window.SetContent(m.content)
}

func (m *MainWindow) buildMainArea() fyne.CanvasObject {
	m.split = container.NewHSplit(
		m.panel.Content(),
		m.list.Content(),
	)
	m.split.SetOffset(0.35)
	return m.split
}

func (m *MainWindow) buildToolbar() {
	folders := widget.NewCheck("Show folders", nil)
	folders.SetChecked(m.folders)
	folders.OnChanged = m.setShowFolders

	m.toolbar = container.NewHBox(
		widget.NewButton("Open Folder", m.showFolderDialog),
		widget.NewButton("Up", m.goUp),
		widget.NewButton("Filter", m.showFilterDialog),
		folders,
		widget.NewButton("Rescan", m.rescan),
		widget.NewButton("Quit", m.quit),
	)
}

func (m *MainWindow) setupCallbacks() {
	m.list.OnSelect(func(row library.Row) {
		m.panel.SetSelected(row, m.app.opts.Store.ResumePosition(row.VideoPath))
	})
	m.list.OnOpen(m.openRow)
	m.status.OnCancel(m.cancelScan)

	m.panel.OnPlay = func() {
		if row, ok := m.list.Selected(); ok && row.Kind == library.RowVideo {
			m.play(row.VideoPath)
		}
	}
	m.panel.OnPause = m.togglePause
	m.panel.OnStop = m.stopPlayback
	m.panel.OnSeek = m.seek
	m.panel.OnLoadSubtitle = m.showSubtitleDialog
	m.panel.OnClearSubtitle = m.clearSubtitle
}

func (m *MainWindow) setupKeyboardShortcuts() {
	m.window.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyEscape:
			m.cancelScan()
		case fyne.KeyQ:
			m.quit()
		case fyne.KeyReturn, fyne.KeyEnter:
			m.list.OpenSelected()
		case fyne.KeyBackspace:
			m.goUp()
		case fyne.KeySpace:
			m.togglePause()
		case fyne.KeyLeft:
			m.seek(-seekStep)
		case fyne.KeyRight:
			m.seek(seekStep)
		}
	})
}

func (m *MainWindow) Show() {
	m.window.Show()
	if m.app.opts.Folder == "" {
		m.SetStatus("Open a folder to begin")
		return
	}
	m.startScan(m.app.opts.Folder, nil)
}

func (m *MainWindow) SetStatus(text string) {
	m.status.SetText(text)
}

func (m *MainWindow) openRow(row library.Row) {
	switch {
	case row.Kind == library.RowVideo:
		m.play(row.VideoPath)
	case row.IsRoot:
	default:
		target := filepath.Join(m.folder, filepath.FromSlash(row.FolderPath))
		history := append(append([]string(nil), m.history...), m.folder)
		m.startScan(target, history)
	}
}

func (m *MainWindow) goUp() {
	if len(m.history) == 0 {
		m.SetStatus("Already at the top folder")
		return
	}
	last := len(m.history) - 1
	m.startScan(m.history[last], append([]string(nil), m.history[:last]...))
}

func (m *MainWindow) rescan() {
	if m.folder == "" {
		m.showFolderDialog()
		return
	}
	m.startScan(m.folder, m.history)
}

func (m *MainWindow) showFolderDialog() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, m.window)
			return
		}
		if uri == nil {
			return
		}
		m.startScan(uri.Path(), nil)
	}, m.window)
}

func (m *MainWindow) startScan(folder string, history []string) {
	scanner := m.app.Scanner()
	m.reporter.Reset()
	id, err := scanner.Start(m.app.Context(), folder, m.app.opts.Store.Percentages(), m.reporter.Update)
	if errors.Is(err, library.ErrScanBusy) {
		m.SetStatus("A scan is already running")
		return
	}
	if err != nil {
		dialog.ShowError(err, m.window)
		return
	}

	m.scanning = true
	m.SetStatus(fmt.Sprintf("Scanning %s", folder))
	m.status.ShowScan(library.StatusCounting, 0)

	ctx, stop := context.WithCancel(m.app.Context())
	m.async.Every(ctx, scanPollInterval, func() bool {
		if ctx.Err() != nil {
			return false
		}
		fraction, status, _ := m.reporter.Snapshot()
		m.status.ShowScan(status, fraction)
		if scanner.State() != library.StateScanning {
			m.status.DisableCancel()
		}
		return true
	})
	m.async.RunAsync(func() UpdateCallback {
		var res library.Result
		for res = range scanner.Results() {
			if res.ID == id {
				break
			}
		}
		return func() {
			stop()
			m.finishScan(res, history)
		}
	})
}

func (m *MainWindow) finishScan(res library.Result, history []string) {
	m.scanning = false
	m.reporter.MarkDone()
	m.status.HideScan()

	switch {
	case res.Cancelled:
		m.SetStatus("Scan cancelled")
		return
	case res.Err != nil:
		m.SetStatus(fmt.Sprintf("Scan failed: %v", res.Err))
		dialog.ShowError(res.Err, m.window)
		return
	}

	m.folder = res.Root
	m.history = history
	m.rows = res.Rows
	m.window.SetTitle("Localdemy - " + res.Root)
	m.applyFilter()

	store := m.app.opts.Store
	store.SetLastFolder(res.Root)
	m.app.opts.Saver.Touch()
	if !m.list.SelectVideo(store.AppState().LastVideo) {
		m.list.SelectFirst()
	}

	text := fmt.Sprintf("Loaded %d videos", res.Videos)
	if len(res.Skipped) > 0 {
		text += fmt.Sprintf(" (%d unreadable folders skipped)", len(res.Skipped))
	}
	m.SetStatus(text)
}

func (m *MainWindow) cancelScan() {
	if m.scanning && m.app.Scanner().Cancel() {
		m.SetStatus("Cancelling scan...")
	}
}

func (m *MainWindow) applyFilter() {
	rows := library.FilterRows(m.rows, m.filter)
	if !m.folders {
		rows = library.FlatRows(rows)
	}
	m.list.SetRows(rows)
	m.list.SetPlaying(m.playing)
}

func (m *MainWindow) setShowFolders(show bool) {
	m.folders = show
	m.applyFilter()
	m.app.opts.Store.SetShowFolders(show)
	m.app.opts.Saver.Touch()
}

func (m *MainWindow) showFilterDialog() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Name contains")
	entry.SetText(m.filter)

	items := []*widget.FormItem{{Text: "Name", Widget: entry}}
	dialog.ShowForm("Filter Library", "Apply", "Cancel", items, func(submitted bool) {
		if !submitted {
			return
		}
		m.filter = entry.Text
		m.applyFilter()
		if m.filter == "" {
			m.SetStatus("Filter cleared")
			return
		}
		m.SetStatus(fmt.Sprintf("Filter %q applied", m.filter))
	}, m.window)
}

func (m *MainWindow) quit() {
	if err := m.saveWindowState(); err != nil {
		m.app.log.WithError(err).Warn("saving window state failed")
	}
	m.stopPolling()
	m.app.Stop()
	m.window.Close()
}
