package fstree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Predicate decides whether a regular file belongs in the scan result.
type Predicate func(path string) bool

// VisitFunc receives progress notifications.
type VisitFunc func(path string)

// SkipFunc reports entries the scanner must not descend into or consider at all.
type SkipFunc func(path string, isDir bool) bool

// Scanner walks a directory depth-first and keeps the regular files accepted by Match,
// together with every directory that transitively contains one of them.
type Scanner struct {
	Match   Predicate
	OnVisit VisitFunc
	Skip    SkipFunc
}

// Scan walks root with match and reports every regular file to onVisit. It returns nil
// when nothing under root matched.
func Scan(root string, match Predicate, onVisit VisitFunc) (Item, error) {
	s := &Scanner{Match: match, OnVisit: onVisit}
	return s.Scan(root)
}

// Scan returns the filtered tree rooted at root, nil if nothing matched, or the first
// unrecoverable IO error. A directory that cannot be listed because of missing
// permissions is treated as empty.
func (s *Scanner) Scan(root string) (Item, error) {
	dir, err := s.scanDir(root)
	if err != nil {
		return nil, err
	}
	if dir == nil {
		return nil, nil
	}
	return dir, nil
}

func (s *Scanner) scanDir(path string) (*Directory, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list directory %s: %w", path, err)
	}

	dir := NewDirectory()
	for _, entry := range entries {
		childPath := filepath.Join(path, entry.Name())
		mode := entry.Type()

		var item Item
		switch {
		case mode.IsDir():
			if s.skip(childPath, true) {
				continue
			}
			child, err := s.scanDir(childPath)
			if err != nil {
				return nil, err
			}
			if child == nil {
				continue
			}
			item = child
		case mode.IsRegular():
			if s.skip(childPath, false) {
				continue
			}
			if s.OnVisit != nil {
				s.OnVisit(childPath)
			}
			if s.Match != nil && !s.Match(childPath) {
				continue
			}
			item = File{}
		default:
			continue
		}

		if err := dir.Insert(path, entry.Name(), item); err != nil {
			return nil, err
		}
	}

	if dir.Len() == 0 {
		return nil, nil
	}
	return dir, nil
}

func (s *Scanner) skip(path string, isDir bool) bool {
	return s.Skip != nil && s.Skip(path, isDir)
}
