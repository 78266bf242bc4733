package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"codeberg.org/snonux/localdemy/internal/library"
	"codeberg.org/snonux/localdemy/internal/logging"
	"codeberg.org/snonux/localdemy/internal/player"
	"codeberg.org/snonux/localdemy/internal/progress"
)

const defaultPollInterval = 200 * time.Millisecond

type inputMode int

const (
	modeBrowse inputMode = iota
	modeFilter
	modeSubtitle
)

type model struct {
	table   table.Model
	spinner spinner.Model

	rows        []library.Row
	visible     []library.Row
	filter      string
	showFolders bool
	inputs      filterInputs
	mode        inputMode

	statusMessage string
	loading       bool
	scanFraction  float64
	scanStatus    string
	scanID        string

	folder         string
	history        []string
	pendingFolder  string
	pendingHistory []string
	selectPath     string

	scanner  *library.Scanner
	reporter *library.Reporter
	store    *progress.Store
	saver    *progress.Saver
	session  *player.Session
	log      logrus.FieldLogger

	playing      string
	paused       bool
	playGen      int
	position     time.Duration
	duration     time.Duration
	cueMarkup    string
	subtitlePath string
	pollInterval time.Duration
}

func newModel(opts Options) (model, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	log := logging.OrDiscard(opts.Log)
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(highlightStyle))
	state := opts.Store.AppState()

	return model{
		table:         buildTable(),
		spinner:       spin,
		inputs:        buildFilterInputs(),
		statusMessage: "Opening library...",
		folder:        opts.Folder,
		selectPath:    state.LastVideo,
		showFolders:   state.ShowFolders,
		scanner:       library.NewScanner(fsys, log),
		reporter:      &library.Reporter{},
		store:         opts.Store,
		saver:         opts.Saver,
		session:       opts.Session,
		log:           log,
		pollInterval:  interval,
	}, nil
}

func buildTable() table.Model {
	columns := []table.Column{
		{Title: headerStyle.Render("Name"), Width: 56},
		{Title: headerStyle.Render("Progress"), Width: 18},
		{Title: headerStyle.Render("Info"), Width: 30},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	tbl.SetStyles(table.DefaultStyles())
	return tbl
}

func buildFilterInputs() filterInputs {
	nameInput := textinput.New()
	nameInput.Placeholder = "substring"
	nameInput.Prompt = "Name: "
	nameInput.CharLimit = 256

	subtitleInput := textinput.New()
	subtitleInput.Placeholder = "/path/to/subtitle.srt"
	subtitleInput.Prompt = "Subtitle: "
	subtitleInput.CharLimit = 4096

	return filterInputs{name: nameInput, subtitle: subtitleInput}
}

func (m model) Init() tea.Cmd {
	if m.folder == "" {
		return nil
	}
	return tea.Batch(loadFolderCmd(m.folder), m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(typed)
	case loadFolderMsg:
		return m.startScan(typed.path, m.history)
	case scanProgressMsg:
		return m.handleScanProgress(typed)
	case scanFinishedMsg:
		return m.handleScanFinished(typed)
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd
	case playVideoMsg:
		return m.handlePlayVideo(typed)
	case playbackTickMsg:
		return m.handlePlaybackTick(typed)
	case pauseToggledMsg:
		return m.handlePauseToggled(typed), nil
	case playbackStoppedMsg:
		return m.handlePlaybackStopped(typed), nil
	case subtitleChangedMsg:
		return m.handleSubtitleChanged(typed), nil
	case statusMsg:
		m.statusMessage = typed.text
		return m, nil
	default:
		return m.updateTable(msg)
	}
}

func (m model) View() string {
	if m.loading {
		return m.renderLoading()
	}
	body := m.renderBody()
	switch m.mode {
	case modeFilter:
		return body + "\n\n" + m.renderFilterModal()
	case modeSubtitle:
		return body + "\n\n" + m.renderSubtitleModal()
	}
	return body
}

func (m model) renderLoading() string {
	lines := []string{
		fmt.Sprintf("%s %s", m.spinner.View(), statusStyle.Render(m.scanStatusText())),
		renderProgressBar(m.scanFraction, 30),
		statusStyle.Render("esc cancel  •  q quit"),
	}
	return strings.Join(lines, "\n")
}

func (m model) scanStatusText() string {
	if m.scanStatus != "" {
		return m.scanStatus
	}
	return library.StatusCounting
}

func (m model) renderBody() string {
	helpLines := []string{
		"↑/↓ navigate  •  enter open/play  •  backspace up  •  / filter  •  v folders  •  R rescan  •  q quit",
		"space pause  •  [/] seek  •  x stop  •  s load subtitle  •  c clear subtitle",
	}
	parts := []string{}
	if m.folder != "" {
		parts = append(parts, folderStyle.Render(library.FolderLabel(trimPath(m.folder))))
	}
	parts = append(parts, tableStyle.Render(m.table.View()))
	if line := m.renderNowPlaying(); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, statusStyle.Render(m.statusMessage), strings.Join(helpLines, "\n"))
	return strings.Join(parts, "\n")
}

func (m model) renderNowPlaying() string {
	if m.playing == "" {
		return ""
	}
	state := "Playing"
	if m.paused {
		state = "Paused"
	}
	header := statusStyle.Render(fmt.Sprintf("%s %s  %s / %s", state, library.Title(m.playing), formatDuration(m.position), formatDuration(m.duration)))
	cue := " "
	if m.cueMarkup != "" {
		cue = renderCueMarkup(m.cueMarkup)
	}
	return header + "\n" + subtitleStyle.Render(cue)
}

func (m model) updateTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	tbl, cmd := m.table.Update(msg)
	m.table = tbl
	return m, cmd
}

// refreshTable rebuilds table rows from the visible library rows.
func (m *model) refreshTable() {
	rows := make([]table.Row, 0, len(m.visible))
	for _, r := range m.visible {
		rows = append(rows, libraryRow(r, m.playing))
	}
	cursor := m.table.Cursor()
	m.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	m.table.SetCursor(cursor)
}

func (m model) selectedRow() (library.Row, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return library.Row{}, false
	}
	return m.visible[idx], true
}

func (m *model) selectVideo(path string) bool {
	for i, r := range m.visible {
		if r.Kind == library.RowVideo && r.VideoPath == path {
			m.table.SetCursor(i)
			return true
		}
	}
	return false
}
