package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/localdemy/internal/fsutil"
	"codeberg.org/snonux/localdemy/internal/library"
	"codeberg.org/snonux/localdemy/internal/logging"
	"codeberg.org/snonux/localdemy/internal/progress"
	"codeberg.org/snonux/localdemy/internal/subtitle"
)

func newScanCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <folder>",
		Short: "Print the library tree of a folder",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runScan(ctx, args[0], stdout)
		},
	}
}

func newSubsCommand(stdout io.Writer) *cobra.Command {
	var at time.Duration
	cmd := &cobra.Command{
		Use:   "subs <video|subtitle>",
		Short: "Show the subtitle cues found for a video",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			showAt := cmd.Flags().Changed("at")
			return runSubs(args[0], at, showAt, stdout)
		},
	}
	cmd.Flags().DurationVar(&at, "at", 0, "print only the cue active at this position (e.g. 1m2.5s)")
	return cmd
}

func commandLogger() (*logrus.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return logging.New(cfg.LogLevel, os.Stderr), nil
}

func runScan(ctx context.Context, folderArg string, out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logging.New(cfg.LogLevel, os.Stderr)
	folder, err := fsutil.ResolveFolder(folderArg, "")
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	store, err := progress.Load(fsys, cfg.ProgressFile)
	if err != nil {
		log.WithError(err).Warn("ignoring unreadable progress file")
	}
	res := library.ScanFolder(ctx, fsys, folder, store.Percentages(), nil, log)
	switch {
	case res.Cancelled:
		return library.ErrScanCancelled
	case res.Err != nil:
		return res.Err
	}

	fmt.Fprintln(out, library.FolderLabel(folder))
	for _, row := range res.Rows {
		fmt.Fprintln(out, formatRow(row))
	}
	fmt.Fprintf(out, "\n%d videos", res.Videos)
	if len(res.Skipped) > 0 {
		fmt.Fprintf(out, ", %d unreadable folders skipped", len(res.Skipped))
	}
	fmt.Fprintln(out)
	return nil
}

func formatRow(row library.Row) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", row.Indent))
	if row.Branch != "" {
		b.WriteString(row.Branch + " ")
	}
	b.WriteString(row.Label)
	if row.Kind == library.RowVideo {
		fmt.Fprintf(&b, "  [%3.0f%%]", library.ClampFraction(row.Progress)*100)
	}
	if row.Secondary != "" {
		fmt.Fprintf(&b, "  (%s)", row.Secondary)
	}
	return b.String()
}

func runSubs(input string, at time.Duration, showAt bool, out io.Writer) error {
	log, err := commandLogger()
	if err != nil {
		return err
	}
	path, err := fsutil.ResolveFile(input)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	subPath := path
	if !subtitle.IsSubtitleExt(filepath.Ext(path)) {
		found, ok := subtitle.Find(fsys, path)
		if !ok {
			return errors.New("no subtitle file found for " + path)
		}
		subPath = found
	}

	track, err := subtitle.NewLoader(fsys, log).Load(subPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%s, %d cues)\n", subPath, track.Format, track.Len())

	if showAt {
		text := track.CueAt(at)
		if text == "" {
			fmt.Fprintf(out, "%s  (no cue)\n", subtitle.FormatClock(at))
			return nil
		}
		fmt.Fprintf(out, "%s  %s\n", subtitle.FormatClock(at), oneLine(text))
		return nil
	}
	for _, cue := range track.Cues {
		fmt.Fprintf(out, "%s --> %s  %s\n", subtitle.FormatClock(cue.Start), subtitle.FormatClock(cue.End), oneLine(cue.Text))
	}
	return nil
}

func oneLine(text string) string {
	return strings.ReplaceAll(text, "\n", " / ")
}
