package fstree

import "errors"

// SkipDir may be returned by a WalkFunc visiting a directory to skip its children.
var SkipDir = errors.New("skip this directory")

// WalkFunc is called for every node with the node's handle.
type WalkFunc func(h *Handle, item Item) error

// Walk visits every node below dir in pre-order, entries sorted by name. Each child
// handle is derived from its parent's handle, so handles of siblings share one chain.
func Walk(dir *Directory, fn WalkFunc) error {
	return walk(dir, nil, fn)
}

func walk(dir *Directory, parent *Handle, fn WalkFunc) error {
	for _, name := range dir.Names() {
		item, _ := dir.Get(name)
		h := Extend(parent, name)
		err := fn(h, item)
		if errors.Is(err, SkipDir) {
			continue
		}
		if err != nil {
			return err
		}
		if sub, ok := item.(*Directory); ok {
			if err := walk(sub, h, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Leaves returns a handle for every file below dir, in walk order.
func Leaves(dir *Directory) []*Handle {
	var leaves []*Handle
	_ = Walk(dir, func(h *Handle, item Item) error {
		if _, ok := item.(File); ok {
			leaves = append(leaves, h)
		}
		return nil
	})
	return leaves
}
