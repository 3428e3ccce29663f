// Package gotool wraps go tool invocations for Go modules.
package gotool

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Go drives the go tool against a single module directory.
type Go struct {
	dir      string
	cacheDir string
}

// New returns a ready-to-use Go for the module at dir.
func New(dir string) *Go {
	return &Go{dir: dir}
}

// CacheDir returns the build cache directory: an explicit override, the
// GOCACHE environment variable, or the conventional default under $HOME.
func (g *Go) CacheDir() string {
	if g.cacheDir != "" {
		return g.cacheDir
	}
	if env := os.Getenv("GOCACHE"); env != "" {
		return env
	}
	home := os.Getenv("HOME")
	if home == "" {
		home = string(filepath.Separator)
	}
	return filepath.Join(home, ".cache", "go-build")
}

// SetCacheDir overrides the build cache directory.
func (g *Go) SetCacheDir(dir string) { g.cacheDir = dir }

// Test runs "go test" in the module directory with GOCACHE pinned to
// CacheDir. On failure the returned error carries the captured stderr.
func (g *Go) Test(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "go", append([]string{"test"}, args...)...)
	cmd.Dir = g.dir
	cmd.Env = append(os.Environ(), "GOCACHE="+g.CacheDir())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go test: %w\n%s", err, stderr.String())
	}
	return nil
}
