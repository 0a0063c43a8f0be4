// Package ignore decides which paths under a scan root are excluded by .gitignore files.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Ignore encapsulates gitignore pattern matching functionality
type Ignore struct {
	matcher  gitignore.Matcher
	rootPath string
}

// NewIgnore reads every .gitignore file below rootPath.
func NewIgnore(rootPath string) (*Ignore, error) {
	fs := osfs.New(rootPath)
	patterns, err := gitignore.ReadPatterns(fs, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}

	return &Ignore{
		matcher:  gitignore.NewMatcher(patterns),
		rootPath: rootPath,
	}, nil
}

// IsIgnored checks if a path should be ignored according to gitignore rules
func (ig *Ignore) IsIgnored(path string, isDir bool) (bool, error) {
	if isDir && filepath.Base(path) == ".git" {
		return true, nil
	}

	relPath, err := filepath.Rel(ig.rootPath, path)
	if err != nil {
		return false, err
	}
	if relPath == "." {
		return false, nil
	}

	parts := strings.Split(relPath, string(os.PathSeparator))
	return ig.matcher.Match(parts, isDir), nil
}

// Skip adapts IsIgnored to the scanner's skip rule. Paths outside the root are kept.
func (ig *Ignore) Skip(path string, isDir bool) bool {
	ignored, err := ig.IsIgnored(path, isDir)
	return err == nil && ignored
}
