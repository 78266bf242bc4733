package gui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"github.com/spf13/afero"
)

type windowState struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Split  float64 `json:"split"`
}

func (s windowState) valid() bool {
	return s.Width > 0 && s.Height > 0
}

func readWindowState(fsys afero.Fs, path string) (windowState, error) {
	var state windowState
	if path == "" {
		return state, nil
	}
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, os.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("read window state: %w", err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return windowState{}, fmt.Errorf("decode window state: %w", err)
	}
	return state, nil
}

func writeWindowState(fsys afero.Fs, path string, state windowState) error {
	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create window state dir: %w", err)
	}
	return afero.WriteFile(fsys, path, data, 0o644)
}

func (m *MainWindow) saveWindowState() error {
	size := m.window.Canvas().Size()
	state := windowState{
		Width:  float64(size.Width),
		Height: float64(size.Height),
		Split:  m.split.Offset,
	}
	return writeWindowState(m.app.opts.FS, m.app.opts.WindowStateFile, state)
}

func (m *MainWindow) loadWindowState() error {
	state, err := readWindowState(m.app.opts.FS, m.app.opts.WindowStateFile)
	if err != nil {
		return err
	}
	if state.valid() {
		m.window.Resize(fyne.NewSize(float32(state.Width), float32(state.Height)))
	}
	if state.Split > 0 && state.Split < 1 {
		m.split.SetOffset(state.Split)
	}
	return nil
}
