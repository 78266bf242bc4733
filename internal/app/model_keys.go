package app

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/localdemy/internal/library"
)

func (m model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, handled := m.globalKeyHandler(msg); handled {
		return m, cmd
	}
	if m.loading {
		return m.handleLoadingKey(msg)
	}
	switch m.mode {
	case modeFilter:
		return m.handleFilterKey(msg)
	case modeSubtitle:
		return m.handleSubtitleKey(msg)
	}
	return m.handleTableKey(msg)
}

func (m model) globalKeyHandler(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true
	case "q":
		if m.mode != modeBrowse {
			return nil, false
		}
		return tea.Quit, true
	default:
		return nil, false
	}
}

func (m model) handleLoadingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "x":
		if m.scanner.Cancel() {
			m.statusMessage = "Cancelling scan..."
			m.scanStatus = "Cancelling..."
		}
	}
	return m, nil
}

func (m model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/", "f":
		return m.openFilter()
	case "enter":
		return m.activateSelection()
	case "backspace", "b":
		return m.goBack()
	case "R":
		return m.rescan()
	case "v":
		return m.toggleFolderView()
	case " ":
		return m.togglePause()
	case "[":
		return m.seek(-seekStep)
	case "]":
		return m.seek(seekStep)
	case "x":
		return m.stopPlayback()
	case "s":
		return m.openSubtitleInput()
	case "c":
		return m.clearSubtitle()
	default:
		return m.updateTable(msg)
	}
}

func (m model) openFilter() (tea.Model, tea.Cmd) {
	m.mode = modeFilter
	m.inputs.name.SetValue(m.filter)
	m.statusMessage = "Editing filter"
	cmd := m.inputs.name.Focus()
	return m, cmd
}

func (m model) openSubtitleInput() (tea.Model, tea.Cmd) {
	if m.playing == "" {
		m.statusMessage = "Play a video before loading subtitles"
		return m, nil
	}
	m.mode = modeSubtitle
	m.inputs.subtitle.SetValue(m.subtitlePath)
	m.statusMessage = "Choose a subtitle file"
	cmd := m.inputs.subtitle.Focus()
	return m, cmd
}

func (m model) activateSelection() (tea.Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	switch {
	case row.Kind == library.RowVideo:
		return m.play(row.VideoPath)
	case row.IsRoot:
		return m, nil
	default:
		target := filepath.Join(m.folder, filepath.FromSlash(row.FolderPath))
		history := append(append([]string(nil), m.history...), m.folder)
		return m.startScan(target, history)
	}
}

func (m model) goBack() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		m.statusMessage = "Already at the top folder"
		return m, nil
	}
	last := len(m.history) - 1
	parent := m.history[last]
	history := append([]string(nil), m.history[:last]...)
	return m.startScan(parent, history)
}

func (m model) rescan() (tea.Model, tea.Cmd) {
	if m.folder == "" {
		return m, nil
	}
	return m.startScan(m.folder, m.history)
}

func (m model) play(path string) (tea.Model, tea.Cmd) {
	if m.session == nil {
		m.statusMessage = "No player configured"
		return m, nil
	}
	m.selectPath = path
	m.statusMessage = fmt.Sprintf("Starting %s", library.Title(path))
	return m, playVideoCmd(m.session, path, m.store.ResumePosition(path))
}

func (m model) togglePause() (tea.Model, tea.Cmd) {
	if m.playing == "" {
		return m, nil
	}
	return m, togglePauseCmd(m.session)
}

func (m model) seek(delta time.Duration) (tea.Model, tea.Cmd) {
	if m.playing == "" {
		return m, nil
	}
	return m, seekCmd(m.session, delta)
}

func (m model) stopPlayback() (tea.Model, tea.Cmd) {
	if m.playing == "" {
		m.statusMessage = "Nothing is playing"
		return m, nil
	}
	return m, stopPlaybackCmd(m.session)
}

func (m model) clearSubtitle() (tea.Model, tea.Cmd) {
	if m.playing == "" || m.subtitlePath == "" {
		m.statusMessage = "No subtitle loaded"
		return m, nil
	}
	return m, clearSubtitleCmd(m.session)
}
