package fstree

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/hayeah/collect/internal/assert"
)

func TestScan_FiltersFilesAndPrunesEmptyDirectories(t *testing.T) {
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{
		"a.jpg":             "A",
		"notes.txt":         "N",
		"trip/b.PNG":        "B",
		"trip/readme.md":    "R",
		"trip/day1/c.jpeg":  "C",
		"docs/only.txt":     "D",
		"docs/deep/x.md":    "X",
		"mixed/deep/d.gif":  "G",
		"mixed/other/e.doc": "E",
	})
	assert.NoError(os.MkdirAll(filepath.Join(root, "empty", "nested"), 0755))

	item, err := Scan(root, ExtensionFilter(DefaultExtensions), nil)
	assert.NoError(err)
	assert.Equal(map[string]any{
		"a.jpg": "file",
		"trip": map[string]any{
			"b.PNG": "file",
			"day1":  map[string]any{"c.jpeg": "file"},
		},
		"mixed": map[string]any{
			"deep": map[string]any{"d.gif": "file"},
		},
	}, shape(item))
}

func TestScan_VisitsEveryRegularFile(t *testing.T) {
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{
		"a.jpg":       "A",
		"b.txt":       "B",
		"sub/c.txt":   "C",
		"sub/d/e.mp4": "E",
	})

	var visited []string
	_, err := Scan(root, ExtensionFilter([]string{"jpg"}), func(path string) {
		rel, _ := filepath.Rel(root, path)
		visited = append(visited, filepath.ToSlash(rel))
	})
	assert.NoError(err)
	sort.Strings(visited)
	assert.Equal([]string{"a.jpg", "b.txt", "sub/c.txt", "sub/d/e.mp4"}, visited)
}

func TestScan_NothingMatches(t *testing.T) {
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{
		"a.txt":     "A",
		"sub/b.doc": "B",
	})

	item, err := Scan(root, ExtensionFilter(DefaultExtensions), nil)
	assert.NoError(err)
	assert.Nil(item)

	item, err = Scan(t.TempDir(), ExtensionFilter(DefaultExtensions), nil)
	assert.NoError(err)
	assert.Nil(item, "an empty root yields no tree")
}

func TestScan_PermissionDeniedDirectoryIsOmitted(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{
		"open/a.jpg":   "A",
		"locked/b.jpg": "B",
		"z/c.jpg":      "C",
	})
	locked := filepath.Join(root, "locked")
	assert.NoError(os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	item, err := Scan(root, ExtensionFilter(DefaultExtensions), nil)
	assert.NoError(err)
	assert.Equal(map[string]any{
		"open": map[string]any{"a.jpg": "file"},
		"z":    map[string]any{"c.jpg": "file"},
	}, shape(item))
}

func TestScan_PermissionDeniedRoot(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{"a.jpg": "A"})
	assert.NoError(os.Chmod(root, 0o000))
	t.Cleanup(func() { os.Chmod(root, 0o755) })

	item, err := Scan(root, ExtensionFilter(DefaultExtensions), nil)
	assert.NoError(err)
	assert.Nil(item)
}

func TestScan_ListingErrorAbortsWithoutPartialTree(t *testing.T) {
	assert := assert.New(t)

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	item, err := Scan(missing, ExtensionFilter(DefaultExtensions), nil)
	assert.Error(err)
	assert.True(errors.Is(err, fs.ErrNotExist))
	assert.Nil(item)

	file := filepath.Join(assert.WriteFiles(map[string]string{"a.jpg": "A"}), "a.jpg")
	item, err = Scan(file, ExtensionFilter(DefaultExtensions), nil)
	assert.Error(err, "listing a regular file is not a permission error")
	assert.Nil(item)
}

func TestScanner_NestedListingErrorDiscardsMatchedSiblings(t *testing.T) {
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{
		"a/x.jpg": "X",
		"b/y.jpg": "Y",
	})
	gone := filepath.Join(root, "b")

	var visited []string
	s := &Scanner{
		Match: ExtensionFilter(DefaultExtensions),
		OnVisit: func(path string) {
			visited = append(visited, filepath.Base(path))
		},
		// b/ disappears between being listed in root and being listed itself
		Skip: func(path string, isDir bool) bool {
			if isDir && path == gone {
				assert.NoError(os.RemoveAll(gone))
			}
			return false
		},
	}
	item, err := s.Scan(root)
	assert.True(errors.Is(err, fs.ErrNotExist), "got %v", err)
	assert.ErrorContains(err, gone)
	assert.Nil(item, "a/ matched, but a failed scan returns no tree")
	assert.Equal([]string{"x.jpg"}, visited)
}

func TestScan_SkipsSymlinks(t *testing.T) {
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{
		"real/a.jpg": "A",
	})
	if err := os.Symlink(filepath.Join(root, "real", "a.jpg"), filepath.Join(root, "link.jpg")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	assert.NoError(os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "linkdir")))

	var visited []string
	item, err := Scan(root, ExtensionFilter(DefaultExtensions), func(path string) {
		visited = append(visited, filepath.Base(path))
	})
	assert.NoError(err)
	assert.Equal(map[string]any{
		"real": map[string]any{"a.jpg": "file"},
	}, shape(item))
	assert.Equal([]string{"a.jpg"}, visited)
}

func TestScanner_Skip(t *testing.T) {
	assert := assert.New(t)

	root := assert.WriteFiles(map[string]string{
		"keep/a.jpg":    "A",
		"vendor/b.jpg":  "B",
		"keep/skip.jpg": "S",
	})

	var visited []string
	s := &Scanner{
		Match: ExtensionFilter(DefaultExtensions),
		OnVisit: func(path string) {
			visited = append(visited, filepath.Base(path))
		},
		Skip: func(path string, isDir bool) bool {
			name := filepath.Base(path)
			return (isDir && name == "vendor") || name == "skip.jpg"
		},
	}
	item, err := s.Scan(root)
	assert.NoError(err)
	assert.Equal(map[string]any{
		"keep": map[string]any{"a.jpg": "file"},
	}, shape(item))
	assert.Equal([]string{"a.jpg"}, visited, "skipped files are not reported as visited")
}
