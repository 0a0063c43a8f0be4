package assert

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Assert is a wrapper around assert.Assertions and testing.T
type Assert struct {
	*assert.Assertions
	T *testing.T
}

// New creates a new Assert object
func New(t *testing.T) *Assert {
	return &Assert{
		Assertions: assert.New(t),
		T:          t,
	}
}

// WriteFiles creates a fresh temporary directory populated with files, keyed by
// slash-separated relative path, and returns its path.
func (a *Assert) WriteFiles(files map[string]string) string {
	a.T.Helper()
	root := a.T.TempDir()
	a.WriteFilesAt(root, files)
	return root
}

// WriteFilesAt populates root with files, creating parent directories as needed.
func (a *Assert) WriteFilesAt(root string, files map[string]string) {
	a.T.Helper()
	for relPath, content := range files {
		path := filepath.Join(root, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			a.T.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			a.T.Fatalf("Failed to create file: %v", err)
		}
	}
}

// ReadFiles returns every regular file under root keyed by slash-separated relative path.
func (a *Assert) ReadFiles(root string) map[string]string {
	a.T.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	a.NoError(err, "Failed to read files under %s", root)
	return files
}
