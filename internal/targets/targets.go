// Package targets discovers runnable targets in a workspace. Each supported
// ecosystem registers a Discoverer; walking the tree asks every discoverer
// about every directory.
package targets

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/rotisserie/eris"

	"github.com/moltbuild/molt/internal/target"
)

// A Target is a runnable unit rooted in a workspace directory.
type Target interface {
	fmt.Stringer

	// Test runs the target's test suite.
	Test(ctx context.Context) error

	// CachePaths reports directories worth carrying between runs.
	CachePaths() []string
}

// A Discoverer inspects a single directory and returns any targets rooted
// there. root and dir are absolute.
type Discoverer func(root, dir string) ([]Target, error)

var discoverers []Discoverer

// Register adds a discoverer. Target kinds register themselves from init.
func Register(d Discoverer) {
	discoverers = append(discoverers, d)
}

// Discover walks the workspace below root and collects targets from every
// registered discoverer. Hidden directories and directories matched by
// .gitignore patterns are not descended into.
func Discover(root string) ([]Target, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, eris.Wrap(err, "reading gitignore patterns")
	}
	matcher := gitignore.NewMatcher(patterns)

	var result []Target
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		if path != root {
			if strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if matcher.Match(strings.Split(filepath.ToSlash(rel), "/"), true) {
				return fs.SkipDir
			}
		}

		for _, discover := range discoverers {
			found, err := discover(root, path)
			if err != nil {
				return err
			}
			result = append(result, found...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].String() < result[j].String()
	})
	return result, nil
}

// CachePaths returns the de-duplicated cache paths of all given targets.
func CachePaths(ts []Target) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, t := range ts {
		for _, p := range t.CachePaths() {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths
}

// address renders the canonical //pkg:task address for a target rooted at dir.
func address(root, dir, task string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		rel = ""
	}
	return target.Address{Package: filepath.ToSlash(rel), Task: task}.String()
}
