package library

import (
	"fmt"
	"math"
)

// RowKind distinguishes folder rows from playable video rows.
type RowKind int

const (
	RowFolder RowKind = iota
	RowVideo
)

const (
	FolderMarker  = "📁"
	RootFilesName = "Root Files"
	RootSecondary = "Root"
	branchMiddle  = "├─"
	branchLast    = "└─"
	pathSeparator = "/"
)

// Row is one display entry of the library tree.
type Row struct {
	Kind      RowKind
	Name      string
	Label     string
	Secondary string
	Indent    int
	Progress  float64
	Branch    string
	// VideoPath is set for video rows only.
	VideoPath string
	// FolderPath is the slash-separated folder path relative to the scanned
	// root. Empty for the synthetic root row and for root-level videos.
	FolderPath string
	IsRoot     bool
}

// IsFolder reports whether the row is a folder header.
func (r Row) IsFolder() bool {
	return r.Kind == RowFolder
}

// FolderLabel prefixes name with the folder marker.
func FolderLabel(name string) string {
	return FolderMarker + " " + name
}

// BuildRows flattens structure into display order: top-level folders sorted
// case-insensitively with their files and subfolders depth-first, then the
// root's own files. Those are grouped under a synthetic "Root Files" row
// only when at least one top-level folder exists.
func BuildRows(structure *FolderStructure, progress map[string]float64) []Row {
	if structure == nil {
		return nil
	}
	var rows []Row
	names := structure.FolderNames()
	for _, name := range names {
		rows = appendFolder(rows, structure.Folders[name], name, name, 0, progress)
	}

	files := structure.SortedFiles()
	if len(files) == 0 {
		return rows
	}
	if len(names) > 0 {
		rows = append(rows, Row{
			Kind:      RowFolder,
			Name:      RootFilesName,
			Label:     FolderLabel(RootFilesName),
			Secondary: countLabel(len(files)),
			IsRoot:    true,
		})
	}
	for _, file := range files {
		rows = append(rows, videoRow(file, 0, RootSecondary, "", "", progress))
	}
	return rows
}

func appendFolder(rows []Row, node *FolderStructure, name, relPath string, level int, progress map[string]float64) []Row {
	rows = append(rows, Row{
		Kind:       RowFolder,
		Name:       name,
		Label:      FolderLabel(name),
		Secondary:  countLabel(len(node.Files)),
		Indent:     level,
		FolderPath: relPath,
	})

	files := node.SortedFiles()
	subfolders := node.FolderNames()
	for i, file := range files {
		branch := branchMiddle
		if i == len(files)-1 && len(subfolders) == 0 {
			branch = branchLast
		}
		rows = append(rows, videoRow(file, level+1, relPath, branch, relPath, progress))
	}
	for _, sub := range subfolders {
		rows = appendFolder(rows, node.Folders[sub], sub, relPath+pathSeparator+sub, level+1, progress)
	}
	return rows
}

func videoRow(file VideoFile, indent int, secondary, branch, folder string, progress map[string]float64) Row {
	title := file.Title()
	return Row{
		Kind:       RowVideo,
		Name:       title,
		Label:      title,
		Secondary:  secondary,
		Indent:     indent,
		Progress:   ClampFraction(progress[file.Path]),
		Branch:     branch,
		VideoPath:  file.Path,
		FolderPath: folder,
	}
}

// ClampFraction limits f to [0,1]. NaN maps to 0.
func ClampFraction(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

func countLabel(n int) string {
	if n == 1 {
		return "1 video"
	}
	return fmt.Sprintf("%d videos", n)
}
