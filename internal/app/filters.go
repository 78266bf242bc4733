package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/localdemy/internal/fsutil"
	"codeberg.org/snonux/localdemy/internal/library"
)

type filterInputs struct {
	name     textinput.Model
	subtitle textinput.Model
}

func (m *model) applyFilter() {
	m.visible = library.FilterRows(m.rows, m.filter)
	if !m.showFolders {
		m.visible = library.FlatRows(m.visible)
	}
	m.refreshTable()
}

// toggleFolderView switches between the folder tree and a flat video list
// and remembers the choice.
func (m model) toggleFolderView() (tea.Model, tea.Cmd) {
	m.showFolders = !m.showFolders
	m.applyFilter()
	m.store.SetShowFolders(m.showFolders)
	m.saver.Touch()
	if m.showFolders {
		m.statusMessage = "Showing folders"
	} else {
		m.statusMessage = "Showing all videos"
	}
	return m, nil
}

func (m model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.inputs.name.Blur()
		m.inputs.name.SetValue(m.filter)
		m.statusMessage = "Filter closed"
		return m, nil
	case "enter":
		m.mode = modeBrowse
		m.inputs.name.Blur()
		m.filter = strings.TrimSpace(m.inputs.name.Value())
		m.applyFilter()
		if m.filter == "" {
			m.statusMessage = fmt.Sprintf("Filter cleared (%d rows)", len(m.visible))
		} else {
			m.statusMessage = fmt.Sprintf("Filter %q matched %d rows", m.filter, len(m.visible))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs.name, cmd = m.inputs.name.Update(msg)
	return m, cmd
}

func (m model) handleSubtitleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.inputs.subtitle.Blur()
		m.statusMessage = "Subtitle selection cancelled"
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.inputs.subtitle.Value())
		m.mode = modeBrowse
		m.inputs.subtitle.Blur()
		if path == "" {
			m.statusMessage = "No subtitle path given"
			return m, nil
		}
		if abs, err := fsutil.Absolute(path); err == nil {
			path = abs
		}
		m.statusMessage = fmt.Sprintf("Loading subtitle %s", trimPath(path))
		return m, loadSubtitleCmd(m.session, path)
	}
	var cmd tea.Cmd
	m.inputs.subtitle, cmd = m.inputs.subtitle.Update(msg)
	return m, cmd
}

func (m model) renderFilterModal() string {
	var b strings.Builder
	b.WriteString("Filter library\n")
	b.WriteString("(Enter to apply, empty to clear, Esc to cancel)\n\n")
	b.WriteString(highlightStyle.Render(m.inputs.name.View()))
	if m.filter != "" {
		fmt.Fprintf(&b, "\n\nCurrent filter: name contains %q", m.filter)
	}
	return filterStyle.Render(b.String())
}

func (m model) renderSubtitleModal() string {
	var b strings.Builder
	b.WriteString("Load subtitle file (.srt or .vtt)\n")
	b.WriteString("(Enter to load, Esc to cancel)\n\n")
	b.WriteString(highlightStyle.Render(m.inputs.subtitle.View()))
	if m.subtitlePath != "" {
		fmt.Fprintf(&b, "\n\nCurrent subtitle: %s", trimPath(m.subtitlePath))
	}
	return filterStyle.Render(b.String())
}
