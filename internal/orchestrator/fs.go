package orchestrator

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

// FSWalker enumerates directories with filepath.WalkDir, which does not
// follow symbolic links.
type FSWalker struct{}

func (FSWalker) Walk(ctx context.Context, root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// FSLister lists the regular files directly inside a directory.
type FSLister struct{}

func (FSLister) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
