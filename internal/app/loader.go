package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/localdemy/internal/library"
)

const progressPollInterval = 200 * time.Millisecond

func loadFolderCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return loadFolderMsg{path: path}
	}
}

func waitForScanCmd(scanner *library.Scanner) tea.Cmd {
	if scanner == nil {
		return nil
	}
	return func() tea.Msg {
		return scanFinishedMsg{result: <-scanner.Results()}
	}
}

func progressTickerCmd(reporter *library.Reporter) tea.Cmd {
	if reporter == nil {
		return nil
	}
	return tea.Tick(progressPollInterval, func(time.Time) tea.Msg {
		fraction, status, done := reporter.Snapshot()
		return scanProgressMsg{fraction: fraction, status: status, done: done}
	})
}
