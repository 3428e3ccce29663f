package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Jobs != 0 {
		t.Errorf("Jobs = %d, want 0", cfg.Jobs)
	}
	if cfg.CacheDir == "" {
		t.Error("CacheDir default is empty")
	}
}

func TestLoadValues(t *testing.T) {
	root := t.TempDir()
	content := "jobs: 4\ncache_dir: /var/cache/molt\ndry_run: true\n"
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Jobs != 4 || cfg.CacheDir != "/var/cache/molt" || !cfg.DryRun {
		t.Errorf("Load = %+v", cfg)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("jbos: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(root)
	if err == nil || !strings.Contains(err.Error(), FileName) {
		t.Errorf("Load = %v, want unknown-key error", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheDir == "" {
		t.Error("defaults lost on empty file")
	}
}
