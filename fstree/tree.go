// Package fstree holds the in-memory model of a filesystem subtree together with the
// algorithms that produce and consume it: scanning a directory into a filtered tree,
// rebuilding a tree from selected leaf handles, and copying a tree under a new root.
package fstree

import (
	"sort"
)

// Item is one node of an in-memory filesystem subtree. It is either File or *Directory.
type Item interface {
	isItem()
}

// File is a leaf node. It carries no payload; its name lives in the parent Directory.
type File struct{}

func (File) isItem() {}

// Directory maps entry names to child items. Names are opaque platform strings and need
// not be valid UTF-8.
type Directory struct {
	entries map[string]Item
}

func (*Directory) isItem() {}

// NewDirectory returns an empty Directory.
func NewDirectory() *Directory {
	return &Directory{entries: make(map[string]Item)}
}

// Len returns the number of direct entries.
func (d *Directory) Len() int {
	return len(d.entries)
}

// Get returns the child stored under name.
func (d *Directory) Get(name string) (Item, bool) {
	item, ok := d.entries[name]
	return item, ok
}

// Names returns the entry names in sorted order.
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Insert adds item under name. It refuses to replace an existing entry and returns a
// *NameCollisionError instead; parent is only used to describe the collision.
func (d *Directory) Insert(parent, name string, item Item) error {
	if _, ok := d.entries[name]; ok {
		return &NameCollisionError{Parent: parent, Name: name}
	}
	d.entries[name] = item
	return nil
}

// Set stores item under name, replacing whatever was there.
func (d *Directory) Set(name string, item Item) {
	d.entries[name] = item
}

// Remove deletes the entry stored under name and reports whether it existed.
func (d *Directory) Remove(name string) bool {
	if _, ok := d.entries[name]; !ok {
		return false
	}
	delete(d.entries, name)
	return true
}

// CountFiles returns the number of File leaves in the subtree rooted at item.
func CountFiles(item Item) int {
	switch it := item.(type) {
	case File:
		return 1
	case *Directory:
		n := 0
		for _, child := range it.entries {
			n += CountFiles(child)
		}
		return n
	default:
		return 0
	}
}

// Lookup resolves h against the tree rooted at dir. The handle's root component names
// an entry of dir itself.
func Lookup(dir *Directory, h *Handle) (Item, bool) {
	if h == nil {
		return dir, true
	}
	parent := dir
	if h.parent != nil {
		item, ok := Lookup(dir, h.parent)
		if !ok {
			return nil, false
		}
		parent, ok = item.(*Directory)
		if !ok {
			return nil, false
		}
	}
	return parent.Get(h.name)
}
