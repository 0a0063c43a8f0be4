package fstree

import "fmt"

// NameCollisionError reports two entries resolving to the same key within one
// directory, or a file standing where a directory is required.
type NameCollisionError struct {
	Parent string
	Name   string
}

func (e *NameCollisionError) Error() string {
	if e.Parent == "" {
		return fmt.Sprintf("name collision: %q already exists", e.Name)
	}
	return fmt.Sprintf("name collision: %q already exists in %s", e.Name, e.Parent)
}
