package fstree

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Copy materializes item under outputRoot/relPath, reading file contents from
// inputRoot/relPath, and returns the number of files copied. It never overwrites: an
// existing destination file aborts the copy with an error matching fs.ErrExist. Files
// copied before an error are left in place.
func Copy(inputRoot, outputRoot string, item Item, relPath string, onVisit VisitFunc) (int, error) {
	dest := filepath.Join(outputRoot, relPath)

	switch it := item.(type) {
	case File:
		if _, err := os.Lstat(dest); err == nil {
			return 0, fmt.Errorf("destination file %s already exists: %w", dest, fs.ErrExist)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("failed to stat %s: %w", dest, err)
		}
		if onVisit != nil {
			onVisit(dest)
		}
		if err := copyFile(filepath.Join(inputRoot, relPath), dest); err != nil {
			return 0, err
		}
		return 1, nil

	case *Directory:
		if _, err := os.Stat(dest); errors.Is(err, fs.ErrNotExist) {
			// parents are always created before their children
			if err := os.Mkdir(dest, 0o755); err != nil {
				return 0, fmt.Errorf("failed to create directory %s: %w", dest, err)
			}
		} else if err != nil {
			return 0, fmt.Errorf("failed to stat %s: %w", dest, err)
		}

		count := 0
		for _, name := range it.Names() {
			child, _ := it.Get(name)
			n, err := Copy(inputRoot, outputRoot, child, filepath.Join(relPath, name), onVisit)
			if err != nil {
				return count, err
			}
			count += n
		}
		return count, nil

	default:
		return 0, fmt.Errorf("unknown tree item %T at %s", item, relPath)
	}
}

// copyFile copies src to a new file dst with the same permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return nil
}
