package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"codeberg.org/snonux/localdemy/internal/player"
	"codeberg.org/snonux/localdemy/internal/progress"
)

// Options configures the terminal library browser.
type Options struct {
	Folder       string
	FS           afero.Fs
	Store        *progress.Store
	Saver        *progress.Saver
	Session      *player.Session
	Log          logrus.FieldLogger
	PollInterval time.Duration
}

type teaProgram interface {
	Run() (tea.Model, error)
}

var programFactory = func(m tea.Model) teaProgram {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// Run bootstraps the Bubble Tea program with the provided options.
func Run(opts Options) error {
	if opts.Store == nil {
		return errors.New("progress store is required")
	}
	model, err := newModel(opts)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}
	program := programFactory(model)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
