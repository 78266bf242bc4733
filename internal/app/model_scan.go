package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/localdemy/internal/library"
)

func (m model) startScan(folder string, history []string) (tea.Model, tea.Cmd) {
	m.reporter.Reset()
	id, err := m.scanner.Start(context.Background(), folder, m.store.Percentages(), m.reporter.Update)
	if errors.Is(err, library.ErrScanBusy) {
		m.statusMessage = "A scan is already running"
		return m, nil
	}
	if err != nil {
		m.statusMessage = fmt.Sprintf("Cannot scan %s: %v", trimPath(folder), err)
		return m, nil
	}

	m.scanID = id
	m.loading = true
	m.scanFraction = 0
	m.scanStatus = library.StatusCounting
	m.pendingFolder = folder
	m.pendingHistory = history
	m.statusMessage = fmt.Sprintf("Scanning %s", trimPath(folder))
	return m, tea.Batch(waitForScanCmd(m.scanner), progressTickerCmd(m.reporter), m.spinner.Tick)
}

func (m model) handleScanProgress(msg scanProgressMsg) (tea.Model, tea.Cmd) {
	if !m.loading || msg.done {
		return m, nil
	}
	m.scanFraction = msg.fraction
	if msg.status != "" {
		m.scanStatus = msg.status
	}
	return m, progressTickerCmd(m.reporter)
}

func (m model) handleScanFinished(msg scanFinishedMsg) (tea.Model, tea.Cmd) {
	res := msg.result
	if res.ID != m.scanID {
		m.log.WithField("scan", res.ID).Debug("discarding stale scan result")
		if m.loading {
			return m, waitForScanCmd(m.scanner)
		}
		return m, nil
	}
	m.loading = false
	m.reporter.MarkDone()

	switch {
	case res.Cancelled:
		m.statusMessage = "Scan cancelled"
		return m, nil
	case res.Err != nil:
		m.statusMessage = fmt.Sprintf("Scan failed: %v", res.Err)
		return m, nil
	}

	m.folder = res.Root
	m.history = m.pendingHistory
	m.rows = res.Rows
	m.table.SetCursor(0)
	m.applyFilter()
	if m.selectPath != "" {
		m.selectVideo(m.selectPath)
	}
	m.store.SetLastFolder(res.Root)
	m.saver.Touch()

	m.statusMessage = fmt.Sprintf("Loaded %d videos from %s", res.Videos, trimPath(res.Root))
	if len(res.Skipped) > 0 {
		m.statusMessage += fmt.Sprintf(" (%d unreadable folders skipped)", len(res.Skipped))
	}
	return m, nil
}
