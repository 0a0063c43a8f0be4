package fstree

import (
	"os"
	"strings"
)

// Handle is the location of one tree node, stored as a chain of path components from
// the node back to its root. Handles derived from the same parent share the parent's
// chain, so memory grows with the number of distinct segments rather than with
// leaves × depth. A Handle is immutable.
type Handle struct {
	name   string
	parent *Handle
}

// FromRoot returns a handle for a root-level component.
func FromRoot(name string) *Handle {
	return &Handle{name: name}
}

// Extend returns a child handle of parent. A nil parent yields a root handle.
func Extend(parent *Handle, name string) *Handle {
	return &Handle{name: name, parent: parent}
}

// Extend returns a child handle sharing h's chain.
func (h *Handle) Extend(name string) *Handle {
	return Extend(h, name)
}

// Name returns the last component.
func (h *Handle) Name() string {
	return h.name
}

// Parent returns the handle of the enclosing node, or nil for a root handle.
func (h *Handle) Parent() *Handle {
	return h.parent
}

// Depth is the number of components in the chain.
func (h *Handle) Depth() int {
	n := 0
	for p := h; p != nil; p = p.parent {
		n++
	}
	return n
}

// Components returns the chain in root-to-leaf order.
func (h *Handle) Components() []string {
	parts := make([]string, h.Depth())
	i := len(parts) - 1
	for p := h; p != nil; p = p.parent {
		parts[i] = p.name
		i--
	}
	return parts
}

// Path materializes the full relative path. Components are joined with the OS
// separator as-is; the result is never cleaned.
func (h *Handle) Path() string {
	return strings.Join(h.Components(), string(os.PathSeparator))
}

func (h *Handle) String() string {
	return h.Path()
}
