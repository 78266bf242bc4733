package gui

import (
	"context"
	"errors"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"codeberg.org/snonux/localdemy/internal/library"
	"codeberg.org/snonux/localdemy/internal/logging"
	"codeberg.org/snonux/localdemy/internal/player"
	"codeberg.org/snonux/localdemy/internal/progress"
)

const defaultPollInterval = 200 * time.Millisecond

// Options configures the desktop library window.
type Options struct {
	Folder          string
	FS              afero.Fs
	Store           *progress.Store
	Saver           *progress.Saver
	Session         *player.Session
	Log             logrus.FieldLogger
	PollInterval    time.Duration
	WindowStateFile string
}

type App struct {
	fyneApp fyne.App
	mainApp *MainWindow
	opts    Options
	scanner *library.Scanner
	log     logrus.FieldLogger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewApp(opts Options) *App {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	log := logging.OrDiscard(opts.Log)

	fyneApp := app.NewWithID("org.codeberg.snonux.localdemy")
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		fyneApp: fyneApp,
		opts:    opts,
		scanner: library.NewScanner(opts.FS, log),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Run opens the main window and blocks until it is closed.
func Run(opts Options) error {
	if opts.Store == nil {
		return errors.New("progress store is required")
	}
	a := NewApp(opts)
	a.Run()
	return nil
}

func (a *App) Run() {
	a.mainApp = NewMainWindow(a)
	a.mainApp.Show()
	a.fyneApp.Run()
}

func (a *App) Stop() {
	a.cancel()
}

func (a *App) Context() context.Context {
	return a.ctx
}

func (a *App) Scanner() *library.Scanner {
	return a.scanner
}
