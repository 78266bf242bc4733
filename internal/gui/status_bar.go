package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type StatusBar struct {
	label     *widget.Label
	scanLabel *widget.Label
	progress  *widget.ProgressBar
	cancelBtn *widget.Button
	scanRow   *fyne.Container
	content   fyne.CanvasObject
	onCancel  func()
}

func NewStatusBar() *StatusBar {
	s := &StatusBar{
		label:     widget.NewLabel("Ready"),
		scanLabel: widget.NewLabel(""),
		progress:  widget.NewProgressBar(),
	}
	s.cancelBtn = widget.NewButton("Cancel", func() {
		if s.onCancel != nil {
			s.onCancel()
		}
	})
	s.scanRow = container.NewBorder(nil, nil, s.scanLabel, s.cancelBtn, s.progress)
	s.scanRow.Hide()
	s.content = container.NewVBox(s.scanRow, s.label)
	return s
}

func (s *StatusBar) Content() fyne.CanvasObject {
	return s.content
}

func (s *StatusBar) SetText(text string) {
	s.label.SetText(text)
}

// ShowScan displays a running scan milestone.
func (s *StatusBar) ShowScan(status string, fraction float64) {
	s.scanLabel.SetText(status)
	s.progress.SetValue(fraction)
	s.cancelBtn.Enable()
	s.scanRow.Show()
}

// DisableCancel is used once the scan has passed the point where it can
// still be stopped.
func (s *StatusBar) DisableCancel() {
	s.cancelBtn.Disable()
}

func (s *StatusBar) HideScan() {
	s.scanRow.Hide()
	s.progress.SetValue(0)
}

func (s *StatusBar) OnCancel(f func()) {
	s.onCancel = f
}
