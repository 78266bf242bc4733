package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/snonux/localdemy/internal/player"
)

const seekStep = 10 * time.Second

func playVideoCmd(session *player.Session, path string, resume time.Duration) tea.Cmd {
	return func() tea.Msg {
		if err := session.Open(path, resume); err != nil {
			return playVideoMsg{path: path, err: err}
		}
		return playVideoMsg{path: path, subtitle: session.SubtitlePath()}
	}
}

func playbackTickCmd(session *player.Session, interval time.Duration, generation int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		snap, ok := session.Poll()
		return playbackTickMsg{generation: generation, snapshot: snap, ok: ok}
	})
}

func togglePauseCmd(session *player.Session) tea.Cmd {
	return func() tea.Msg {
		paused, err := session.TogglePause()
		return pauseToggledMsg{paused: paused, err: err}
	}
}

func seekCmd(session *player.Session, delta time.Duration) tea.Cmd {
	return func() tea.Msg {
		if err := session.SeekRelative(delta); err != nil {
			return statusMsg{text: fmt.Sprintf("Seek failed: %v", err)}
		}
		if delta < 0 {
			return statusMsg{text: fmt.Sprintf("Rewound %s", delta.Abs())}
		}
		return statusMsg{text: fmt.Sprintf("Skipped ahead %s", delta)}
	}
}

func stopPlaybackCmd(session *player.Session) tea.Cmd {
	return func() tea.Msg {
		return playbackStoppedMsg{err: session.Stop()}
	}
}

func loadSubtitleCmd(session *player.Session, path string) tea.Cmd {
	return func() tea.Msg {
		return subtitleChangedMsg{path: path, err: session.LoadSubtitle(path)}
	}
}

func clearSubtitleCmd(session *player.Session) tea.Cmd {
	return func() tea.Msg {
		session.ClearSubtitle()
		return subtitleChangedMsg{cleared: true}
	}
}
