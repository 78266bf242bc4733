package library

import (
	"path/filepath"
	"sort"
	"strings"
)

// VideoFile is a playable file found during a walk.
type VideoFile struct {
	Path string
	Name string
}

// Title returns the file name without its extension.
func (v VideoFile) Title() string {
	return Title(v.Name)
}

// FolderStructure mirrors one directory: its subdirectories by name and the
// videos directly inside it, in walk order.
type FolderStructure struct {
	Folders map[string]*FolderStructure
	Files   []VideoFile
}

func NewFolderStructure() *FolderStructure {
	return &FolderStructure{Folders: make(map[string]*FolderStructure)}
}

// AddFile appends path to the files bucket unless it is already present.
func (f *FolderStructure) AddFile(path string) {
	for _, existing := range f.Files {
		if existing.Path == path {
			return
		}
	}
	f.Files = append(f.Files, VideoFile{Path: path, Name: filepath.Base(path)})
}

// FolderNames returns child names sorted case-insensitively.
func (f *FolderStructure) FolderNames() []string {
	names := make([]string, 0, len(f.Folders))
	for name := range f.Folders {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return lessFold(names[i], names[j])
	})
	return names
}

// SortedFiles returns the files sorted case-insensitively by file name.
func (f *FolderStructure) SortedFiles() []VideoFile {
	files := append([]VideoFile(nil), f.Files...)
	sort.SliceStable(files, func(i, j int) bool {
		return lessFold(files[i].Name, files[j].Name)
	})
	return files
}

// TotalFiles counts videos in this folder and every folder below it.
func (f *FolderStructure) TotalFiles() int {
	total := len(f.Files)
	for _, child := range f.Folders {
		total += child.TotalFiles()
	}
	return total
}

func lessFold(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
