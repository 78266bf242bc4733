package gui

import (
	"fmt"
	"math"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/localdemy/internal/library"
)

// LibraryList shows the flattened folder tree of the scanned library.
type LibraryList struct {
	container *fyne.Container
	list      *widget.List
	rows      []library.Row
	selected  int
	playing   string
	onSelect  func(library.Row)
	onOpen    func(library.Row)
}

func NewLibraryList() *LibraryList {
	ll := &LibraryList{selected: -1}
	ll.list = widget.NewList(
		func() int { return len(ll.rows) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil,
				widget.NewIcon(theme.FileVideoIcon()),
				widget.NewLabel("100% • Secondary"),
				widget.NewLabel("Video"),
			)
		},
		ll.updateItem,
	)
	ll.list.OnSelected = func(id widget.ListItemID) {
		if id < 0 || id >= len(ll.rows) {
			return
		}
		ll.selected = id
		if ll.onSelect != nil {
			ll.onSelect(ll.rows[id])
		}
	}
	ll.container = container.NewBorder(nil, nil, nil, nil, ll.list)
	return ll
}

func (ll *LibraryList) updateItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id < 0 || id >= len(ll.rows) {
		return
	}
	box, ok := item.(*fyne.Container)
	if !ok || len(box.Objects) < 3 {
		return
	}
	row := ll.rows[id]
	name, detail := rowText(row, ll.playing)
	for _, obj := range box.Objects {
		switch w := obj.(type) {
		case *widget.Icon:
			w.SetResource(rowIcon(row, ll.playing))
		case *widget.Label:
			if w == box.Objects[0] {
				w.SetText(name)
			} else {
				w.SetText(detail)
			}
		}
	}
}

func rowIcon(row library.Row, playing string) fyne.Resource {
	switch {
	case row.IsFolder():
		return theme.FolderIcon()
	case playing != "" && row.VideoPath == playing:
		return theme.MediaPlayIcon()
	default:
		return theme.FileVideoIcon()
	}
}

// rowText returns the label and the right-aligned detail text of a row.
func rowText(row library.Row, playing string) (string, string) {
	var name strings.Builder
	name.WriteString(strings.Repeat("    ", row.Indent))
	if row.Branch != "" {
		name.WriteString(row.Branch + " ")
	}
	if row.IsFolder() {
		name.WriteString(row.Name)
		return name.String(), row.Secondary
	}
	name.WriteString(row.Label)
	if playing != "" && row.VideoPath == playing {
		name.WriteString(" (playing)")
	}
	pct := int(math.Round(library.ClampFraction(row.Progress) * 100))
	return name.String(), fmt.Sprintf("%d%% • %s", pct, row.Secondary)
}

func (ll *LibraryList) Content() fyne.CanvasObject {
	return ll.container
}

func (ll *LibraryList) SetRows(rows []library.Row) {
	ll.rows = rows
	ll.selected = -1
	ll.list.UnselectAll()
	ll.list.Refresh()
}

func (ll *LibraryList) SetPlaying(video string) {
	ll.playing = video
	ll.list.Refresh()
}

// SetProgress updates the progress of one video row in place.
func (ll *LibraryList) SetProgress(video string, fraction float64) {
	for i := range ll.rows {
		if ll.rows[i].VideoPath == video && ll.rows[i].Kind == library.RowVideo {
			ll.rows[i].Progress = library.ClampFraction(fraction)
			ll.list.RefreshItem(i)
		}
	}
}

func (ll *LibraryList) SelectFirst() {
	if len(ll.rows) > 0 {
		ll.list.Select(0)
	}
}

// SelectVideo highlights the row of video and reports whether it was found.
func (ll *LibraryList) SelectVideo(video string) bool {
	for i, row := range ll.rows {
		if row.Kind == library.RowVideo && row.VideoPath == video {
			ll.list.Select(i)
			ll.list.ScrollTo(i)
			return true
		}
	}
	return false
}

func (ll *LibraryList) OnSelect(f func(library.Row)) {
	ll.onSelect = f
}

func (ll *LibraryList) OnOpen(f func(library.Row)) {
	ll.onOpen = f
}

// OpenSelected activates the highlighted row.
func (ll *LibraryList) OpenSelected() {
	row, ok := ll.Selected()
	if ok && ll.onOpen != nil {
		ll.onOpen(row)
	}
}

func (ll *LibraryList) Selected() (library.Row, bool) {
	if ll.selected >= 0 && ll.selected < len(ll.rows) {
		return ll.rows[ll.selected], true
	}
	return library.Row{}, false
}
