// Package cache moves build artifacts between the workspace and a cache
// directory. Files are renamed rather than copied, so transferring a large
// artifact tree never rewrites bytes.
//
// The cache directory holds two subtrees: relative/ mirrors paths under the
// workspace root, absolute/ mirrors rooted paths (tool caches that live
// outside the workspace, like GOCACHE).
package cache

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Load moves previously saved artifacts from dir back into place. Relative
// entries land under root, absolute entries at their original location.
// A missing cache directory is not an error: the first run has nothing saved.
func Load(dir, root string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	relativeDir := filepath.Join(dir, "relative")
	err := walkFiles(relativeDir, func(path string) error {
		rel, err := filepath.Rel(relativeDir, path)
		if err != nil {
			return err
		}
		return moveFile(path, filepath.Join(root, rel))
	})
	if err != nil {
		return err
	}

	absoluteDir := filepath.Join(dir, "absolute")
	return walkFiles(absoluteDir, func(path string) error {
		rel, err := filepath.Rel(absoluteDir, path)
		if err != nil {
			return err
		}
		return moveFile(path, string(filepath.Separator)+rel)
	})
}

// Save moves every file under the given artifact paths into dir. Duplicate
// paths are saved once. Paths that do not exist are skipped: a target that
// never ran has no artifacts.
func Save(dir string, paths []string) error {
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true

		err := walkFiles(p, func(path string) error {
			if filepath.IsAbs(path) {
				rel := path[len(string(filepath.Separator)):]
				return moveFile(path, filepath.Join(dir, "absolute", rel))
			}
			return moveFile(path, filepath.Join(dir, "relative", path))
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func walkFiles(root string, fn func(path string) error) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		return fn(path)
	})
}

func moveFile(from, to string) error {
	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return eris.Wrap(err, "creating parent directory")
	}
	if err := os.Rename(from, to); err != nil {
		return eris.Wrap(err, "renaming file")
	}
	return nil
}
