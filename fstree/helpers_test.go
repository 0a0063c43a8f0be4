package fstree

import (
	"path/filepath"
	"strings"
)

// shape converts a tree into nested maps so whole trees compare with Equal.
func shape(item Item) any {
	switch it := item.(type) {
	case File:
		return "file"
	case *Directory:
		m := make(map[string]any, it.Len())
		for _, name := range it.Names() {
			child, _ := it.Get(name)
			m[name] = shape(child)
		}
		return m
	default:
		return nil
	}
}

// handleFor builds a handle from a slash-separated path.
func handleFor(path string) *Handle {
	var h *Handle
	for _, part := range strings.Split(path, "/") {
		h = Extend(h, part)
	}
	return h
}

func slashPaths(handles []*Handle) []string {
	out := make([]string, len(handles))
	for i, h := range handles {
		out[i] = filepath.ToSlash(h.Path())
	}
	return out
}
