package fstree

// BuildTree reconstructs the minimal tree containing every handle's path. Intermediate
// directories are created as needed; a file found where a directory is required is a
// *NameCollisionError. Leaves overwrite whatever is already stored under their name.
func BuildTree(handles []*Handle) (*Directory, error) {
	root := NewDirectory()
	for _, h := range handles {
		parent, err := ensureDir(root, h.parent)
		if err != nil {
			return nil, err
		}
		parent.Set(h.name, File{})
	}
	return root, nil
}

// ensureDir returns the directory addressed by h, creating every missing level.
func ensureDir(root *Directory, h *Handle) (*Directory, error) {
	if h == nil {
		return root, nil
	}
	parent, err := ensureDir(root, h.parent)
	if err != nil {
		return nil, err
	}

	existing, ok := parent.Get(h.name)
	if !ok {
		dir := NewDirectory()
		parent.Set(h.name, dir)
		return dir, nil
	}
	dir, ok := existing.(*Directory)
	if !ok {
		var parentPath string
		if h.parent != nil {
			parentPath = h.parent.Path()
		}
		return nil, &NameCollisionError{Parent: parentPath, Name: h.name}
	}
	return dir, nil
}
