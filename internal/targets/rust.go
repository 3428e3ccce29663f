package targets

import (
	"context"
	"os"
	"path/filepath"

	"github.com/moltbuild/molt/pkgs/cargo"
)

func init() {
	Register(discoverRust)
}

func discoverRust(root, dir string) ([]Target, error) {
	if _, err := os.Stat(filepath.Join(dir, "Cargo.toml")); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return []Target{&RustCrate{root: root, dir: dir}}, nil
}

// RustCrate is a cargo package, tested through "cargo test".
type RustCrate struct {
	root string
	dir  string
}

func (t *RustCrate) String() string {
	return address(t.root, t.dir, "rust_crate")
}

func (t *RustCrate) Test(ctx context.Context) error {
	c := cargo.New(t.dir)
	// Parallelism comes from running targets concurrently, not from cargo.
	c.Jobs(1)
	return c.Test(ctx)
}

func (t *RustCrate) CachePaths() []string {
	return []string{filepath.Join(t.dir, "target")}
}
