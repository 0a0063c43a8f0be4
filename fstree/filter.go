package fstree

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/hayeah/collect/internal/set"
)

// DefaultExtensions is the extension set used when the user configures none.
var DefaultExtensions = []string{
	"jpeg", "jpg", "bmp", "gif", "png", "avi", "mp4", "mpg", "mpeg", "wmv",
}

// NormalizeExtensions trims, strips a leading dot, lowercases and dedups exts. Empty
// entries are dropped.
func NormalizeExtensions(exts []string) []string {
	normalized := lo.Map(exts, func(ext string, _ int) string {
		return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	})
	return lo.Uniq(lo.Filter(normalized, func(ext string, _ int) bool {
		return ext != ""
	}))
}

// ExtensionFilter returns a predicate accepting paths whose extension, compared
// case-insensitively, is one of exts.
func ExtensionFilter(exts []string) Predicate {
	allowed := set.New(NormalizeExtensions(exts)...)
	return func(path string) bool {
		ext, ok := Extension(path)
		if !ok {
			return false
		}
		return allowed.Has(strings.ToLower(ext))
	}
}

// Extension returns the text after the last dot of path's base name. Names without a
// dot, and names whose only dot is the leading one (".profile"), have no extension.
func Extension(path string) (string, bool) {
	base := filepath.Base(path)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return "", false
	}
	return base[i+1:], true
}
