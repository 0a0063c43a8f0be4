package fstree

import (
	"fmt"
	"io"
)

// WriteDiagram writes a tree-like rendering of dir to w, headed by label.
//
//	/photos
//	├── 2019/
//	│   └── a.jpg
//	└── b.png
func WriteDiagram(w io.Writer, label string, dir *Directory) error {
	if _, err := fmt.Fprintln(w, label); err != nil {
		return err
	}
	return writeEntries(w, dir, "")
}

func writeEntries(w io.Writer, dir *Directory, prefix string) error {
	names := dir.Names()
	for i, name := range names {
		item, _ := dir.Get(name)
		isLast := i == len(names)-1

		connector := "├── "
		if isLast {
			connector = "└── "
		}

		sub, isDir := item.(*Directory)
		displayName := name
		if isDir {
			displayName += "/"
		}
		if _, err := fmt.Fprintln(w, prefix+connector+displayName); err != nil {
			return err
		}

		if isDir {
			newPrefix := prefix + "│   "
			if isLast {
				newPrefix = prefix + "    "
			}
			if err := writeEntries(w, sub, newPrefix); err != nil {
				return err
			}
		}
	}
	return nil
}
