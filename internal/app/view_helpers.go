package app

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"codeberg.org/snonux/localdemy/internal/library"
	"codeberg.org/snonux/localdemy/internal/subtitle"
)

const progressBarWidth = 10

func libraryRow(r library.Row, playing string) table.Row {
	var name strings.Builder
	name.WriteString(strings.Repeat("  ", r.Indent))
	if r.Branch != "" {
		name.WriteString(r.Branch)
		name.WriteString(" ")
	}
	if r.Kind == library.RowVideo && r.VideoPath == playing && playing != "" {
		name.WriteString("▶ ")
	}
	name.WriteString(r.Label)

	progress := ""
	if r.Kind == library.RowVideo {
		progress = fmt.Sprintf("%s %3d%%", renderProgressBar(r.Progress, progressBarWidth), percent(r.Progress))
	}
	return table.Row{name.String(), progress, r.Secondary}
}

func percent(fraction float64) int {
	return int(math.Round(library.ClampFraction(fraction) * 100))
}

func renderProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	fraction = library.ClampFraction(fraction)
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	return fmt.Sprintf("[%s]", bar)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "--:--"
	}
	totalSeconds := int(d.Seconds() + 0.5)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func trimPath(path string) string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" && strings.HasPrefix(path, home) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}

// renderCueMarkup turns subtitle display markup into styled terminal text.
func renderCueMarkup(markup string) string {
	var out strings.Builder
	for _, span := range subtitle.Spans(markup) {
		style := lipgloss.NewStyle().Bold(span.Bold).Italic(span.Italic).Underline(span.Underline)
		out.WriteString(style.Render(span.Text))
	}
	return out.String()
}
