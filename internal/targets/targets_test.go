package targets

import (
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func addresses(ts []Target) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.String())
	}
	return out
}

func TestDiscoverFindsRustAndGo(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "crates", "core", "Cargo.toml"), "[package]")
	write(t, filepath.Join(root, "svc", "go.mod"), "module example.com/svc")

	ts, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	got := addresses(ts)
	want := []string{"//crates/core:rust_crate", "//svc:go_mod"}
	if len(got) != len(want) {
		t.Fatalf("Discover = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Discover[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscoverRootTarget(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "Cargo.toml"), "[package]")

	ts, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(ts) != 1 || ts[0].String() != "//:rust_crate" {
		t.Errorf("Discover = %v, want [//:rust_crate]", addresses(ts))
	}
}

func TestDiscoverSkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, ".cargo", "Cargo.toml"), "[package]")
	write(t, filepath.Join(root, "ok", "go.mod"), "module example.com/ok")

	ts, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(ts) != 1 || ts[0].String() != "//ok:go_mod" {
		t.Errorf("Discover = %v, want [//ok:go_mod]", addresses(ts))
	}
}

func TestDiscoverHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, ".gitignore"), "vendor/\n")
	write(t, filepath.Join(root, "vendor", "dep", "go.mod"), "module example.com/dep")
	write(t, filepath.Join(root, "app", "go.mod"), "module example.com/app")

	ts, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(ts) != 1 || ts[0].String() != "//app:go_mod" {
		t.Errorf("Discover = %v, want [//app:go_mod]", addresses(ts))
	}
}

func TestRustCrateCachePaths(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "crates", "core")
	write(t, filepath.Join(dir, "Cargo.toml"), "[package]")

	ts, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(ts) != 1 {
		t.Fatalf("Discover = %v", addresses(ts))
	}

	paths := ts[0].CachePaths()
	if len(paths) != 1 || paths[0] != filepath.Join(dir, "target") {
		t.Errorf("CachePaths = %v, want [%s]", paths, filepath.Join(dir, "target"))
	}
}

func TestGoModCachePathsFromEnv(t *testing.T) {
	t.Setenv("GOCACHE", "/tmp/gocache-test")

	root := t.TempDir()
	write(t, filepath.Join(root, "svc", "go.mod"), "module example.com/svc")

	ts, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(ts) != 1 {
		t.Fatalf("Discover = %v", addresses(ts))
	}

	paths := ts[0].CachePaths()
	if len(paths) != 1 || paths[0] != "/tmp/gocache-test" {
		t.Errorf("CachePaths = %v, want [/tmp/gocache-test]", paths)
	}
}

func TestCachePathsDeduplicates(t *testing.T) {
	t.Setenv("GOCACHE", "/tmp/gocache-test")

	root := t.TempDir()
	write(t, filepath.Join(root, "a", "go.mod"), "module example.com/a")
	write(t, filepath.Join(root, "b", "go.mod"), "module example.com/b")

	ts, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	paths := CachePaths(ts)
	if len(paths) != 1 || paths[0] != "/tmp/gocache-test" {
		t.Errorf("CachePaths = %v, want single deduplicated entry", paths)
	}
}
