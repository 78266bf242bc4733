package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/localdemy/internal/app"
	"codeberg.org/snonux/localdemy/internal/config"
	"codeberg.org/snonux/localdemy/internal/gui"
	"codeberg.org/snonux/localdemy/internal/meta"
	"codeberg.org/snonux/localdemy/internal/player"
)

var (
	runTUI     = app.Run
	runGUI     = gui.Run
	loadConfig = config.Load
	newBackend = func(cfg *config.Config, log logrus.FieldLogger) player.Backend {
		return player.NewMPV(cfg.Player, cfg.NativeSubtitles, log)
	}
	exit = os.Exit
)

type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func main() {
	exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprintf(stderr, "%v\n", err)
			return 2
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "localdemy [folder]",
		Short:         "Browse and play a local video course library with subtitles",
		Version:       meta.Version,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTerminal(firstArg(args))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	root.AddCommand(
		newGUICommand(),
		newScanCommand(stdout),
		newSubsCommand(stdout),
	)
	return root
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newGUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gui [folder]",
		Short: "Open the desktop library window",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesktop(firstArg(args))
		},
	}
}

func runTerminal(folderArg string) error {
	env, err := openEnvironment(folderArg, true)
	if err != nil {
		return err
	}
	defer env.Close()

	return runTUI(app.Options{
		Folder:       env.folder,
		FS:           env.fs,
		Store:        env.store,
		Saver:        env.saver,
		Session:      env.session,
		Log:          env.log,
		PollInterval: env.cfg.PollInterval,
	})
}

func runDesktop(folderArg string) error {
	env, err := openEnvironment(folderArg, false)
	if err != nil {
		return err
	}
	defer env.Close()

	return runGUI(gui.Options{
		Folder:          env.folder,
		FS:              env.fs,
		Store:           env.store,
		Saver:           env.saver,
		Session:         env.session,
		Log:             env.log,
		PollInterval:    env.cfg.PollInterval,
		WindowStateFile: env.cfg.WindowStateFile,
	})
}
