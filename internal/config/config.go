// Package config loads workspace configuration from molt.yaml.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up at the workspace root.
const FileName = "molt.yaml"

// Config controls workspace-wide behavior. Flags override file values.
type Config struct {
	// Jobs caps how many targets run concurrently. Zero means one per CPU.
	Jobs int `yaml:"jobs"`
	// CacheDir holds build artifacts between runs.
	CacheDir string `yaml:"cache_dir"`
	// DryRun prints task commands without executing them.
	DryRun bool `yaml:"dry_run"`
}

// Default returns the built-in configuration.
func Default() Config {
	cacheDir := filepath.Join(string(filepath.Separator), "tmp", "molt-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".cache", "molt")
	}
	return Config{CacheDir: cacheDir}
}

// Load reads molt.yaml from root. A missing file yields defaults; unknown
// keys are an error so typos don't silently disable settings.
func Load(root string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, eris.Wrap(err, "reading config")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, eris.Wrapf(err, "parsing %s", FileName)
	}
	return cfg, nil
}
