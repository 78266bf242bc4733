package library

import "strings"

// FilterRows keeps videos whose title contains query together with the
// folder rows leading to them. Folder rows whose own name matches are kept
// as well.
func FilterRows(rows []Row, query string) []Row {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return rows
	}

	folders := map[string]bool{}
	rootMatched := false
	for _, r := range rows {
		if r.Kind != RowVideo || !containsFold(r.Name, query) {
			continue
		}
		if r.FolderPath == "" {
			rootMatched = true
			continue
		}
		for p := r.FolderPath; p != ""; p = parentFolder(p) {
			folders[p] = true
		}
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		switch {
		case r.Kind == RowVideo:
			if containsFold(r.Name, query) {
				out = append(out, r)
			}
		case r.IsRoot:
			if rootMatched {
				out = append(out, r)
			}
		case folders[r.FolderPath] || containsFold(r.Name, query):
			out = append(out, r)
		}
	}
	return out
}

// FlatRows drops the folder rows and lists every video at the top level.
// The folder path stays visible as the secondary text.
func FlatRows(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Kind != RowVideo {
			continue
		}
		r.Indent = 0
		r.Branch = ""
		out = append(out, r)
	}
	return out
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

func parentFolder(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}
