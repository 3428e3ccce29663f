// Package cargo wraps cargo invocations for Rust crates.
package cargo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// Cargo drives cargo against a single crate directory.
type Cargo struct {
	dir   string
	jobs  int
	color string
}

// New returns a ready-to-use Cargo for the crate at dir.
func New(dir string) *Cargo {
	return &Cargo{dir: dir, color: "always"}
}

// Jobs caps cargo's internal parallelism. Zero leaves cargo's default.
func (c *Cargo) Jobs(n int) { c.jobs = n }

// Color sets the --color mode ("always", "never", "auto").
func (c *Cargo) Color(mode string) { c.color = mode }

// ManifestPath returns the path to the crate manifest.
func (c *Cargo) ManifestPath() string {
	return filepath.Join(c.dir, "Cargo.toml")
}

// Test runs "cargo test" against the crate manifest. On failure the returned
// error carries the captured stderr and stdout.
func (c *Cargo) Test(ctx context.Context, args ...string) error {
	return c.run(ctx, append(c.testArgs(), args...))
}

func (c *Cargo) testArgs() []string {
	args := []string{"test", "--manifest-path", c.ManifestPath()}
	if c.jobs > 0 {
		args = append(args, fmt.Sprintf("--jobs=%d", c.jobs))
	}
	if c.color != "" {
		args = append(args, "--color="+c.color)
	}
	return args
}

func (c *Cargo) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "cargo", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cargo %s: %w\n%s\n%s", args[0], err, stderr.String(), stdout.String())
	}
	return nil
}
