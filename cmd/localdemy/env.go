package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"codeberg.org/snonux/localdemy/internal/config"
	"codeberg.org/snonux/localdemy/internal/fsutil"
	"codeberg.org/snonux/localdemy/internal/logging"
	"codeberg.org/snonux/localdemy/internal/player"
	"codeberg.org/snonux/localdemy/internal/progress"
)

// environment is everything an interactive front end needs.
type environment struct {
	cfg     *config.Config
	fs      afero.Fs
	log     *logrus.Logger
	logFile io.Closer
	folder  string
	store   *progress.Store
	saver   *progress.Saver
	session *player.Session
}

// openEnvironment loads configuration and progress and starts the player
// backend. The terminal UI owns stdout, so its logs go to the log file.
func openEnvironment(folderArg string, logToFile bool) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	env := &environment{cfg: cfg, fs: afero.NewOsFs()}
	if logToFile {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		env.logFile = f
		env.log = logging.New(cfg.LogLevel, f)
	} else {
		env.log = logging.New(cfg.LogLevel, os.Stderr)
	}

	store, err := progress.Load(env.fs, cfg.ProgressFile)
	if err != nil {
		env.log.WithError(err).WithField("path", cfg.ProgressFile).Warn("starting with empty progress")
	}
	env.store = store
	env.saver = progress.NewSaver(store, cfg.SaveInterval, env.log)

	folder, err := fsutil.ResolveFolder(folderArg, store.AppState().LastFolder)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.folder = folder

	env.session = player.NewSession(newBackend(cfg, env.log), env.fs, env.log)
	env.log.WithFields(logrus.Fields{
		"folder":   folder,
		"progress": cfg.ProgressFile,
		"player":   cfg.Player,
	}).Info("localdemy starting")
	return env, nil
}

// Close stops the player, writes pending progress and closes the log file.
func (e *environment) Close() {
	if e.session != nil {
		if err := e.session.Close(); err != nil {
			e.log.WithError(err).Warn("closing player failed")
		}
	}
	if err := e.saver.Close(); err != nil {
		e.log.WithError(err).Error("saving progress on exit failed")
	}
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}
