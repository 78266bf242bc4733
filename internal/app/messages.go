package app

import (
	"codeberg.org/snonux/localdemy/internal/library"
	"codeberg.org/snonux/localdemy/internal/player"
)

type loadFolderMsg struct {
	path string
}

type scanProgressMsg struct {
	fraction float64
	status   string
	done     bool
}

type scanFinishedMsg struct {
	result library.Result
}

type playVideoMsg struct {
	path     string
	subtitle string
	err      error
}

type playbackTickMsg struct {
	generation int
	snapshot   player.Snapshot
	ok         bool
}

type pauseToggledMsg struct {
	paused bool
	err    error
}

type playbackStoppedMsg struct {
	err error
}

type subtitleChangedMsg struct {
	path    string
	cleared bool
	err     error
}

type statusMsg struct {
	text string
}
