// Package launcher keeps a copy of the molt engine binary under the user's
// home directory and hands execution over to it. The first invocation
// downloads the engine from the project's release page; after that the
// installed file is reused as-is.
package launcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/mod/semver"
)

// VersionEnv pins the engine release tag when set. The value must be valid
// semver (e.g. v1.2.3); unset downloads the latest release.
const VersionEnv = "MOLTUP_VERSION"

const defaultReleaseBase = "https://github.com/moltbuild/molt/releases"

// Launcher ensures an engine binary is installed and dispatches to it.
type Launcher struct {
	client *http.Client

	// Overridden in tests.
	homeDir     string
	releaseBase string
}

// New returns a ready-to-use Launcher.
func New() *Launcher {
	return &Launcher{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		releaseBase: defaultReleaseBase,
	}
}

// BinaryPath returns the fixed engine location under the home directory.
func (l *Launcher) BinaryPath() (string, error) {
	home := l.homeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", eris.Wrap(err, "resolving home directory")
		}
	}
	return filepath.Join(home, ".molt", "bin", "molt"), nil
}

// Ensure returns the path to a runnable engine binary, downloading it on
// first use. An existing file is reused without validation. On any failure
// before the binary is fully installed, no file is left at the target path.
func (l *Launcher) Ensure(ctx context.Context) (string, error) {
	path, err := l.BinaryPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", eris.Wrapf(err, "checking %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", eris.Wrap(err, "creating install directory")
	}

	url, err := l.downloadURL()
	if err != nil {
		return "", err
	}
	if err := l.download(ctx, url, path); err != nil {
		return "", err
	}

	if err := os.Chmod(path, 0o755); err != nil {
		return "", eris.Wrapf(err, "marking %s executable", path)
	}
	return path, nil
}

func (l *Launcher) downloadURL() (string, error) {
	asset := fmt.Sprintf("molt-%s-%s", runtime.GOOS, runtime.GOARCH)

	if tag := os.Getenv(VersionEnv); tag != "" {
		if !semver.IsValid(tag) {
			return "", eris.Errorf("%s=%q is not a valid version", VersionEnv, tag)
		}
		return fmt.Sprintf("%s/download/%s/%s", l.releaseBase, tag, asset), nil
	}
	return fmt.Sprintf("%s/latest/download/%s", l.releaseBase, asset), nil
}

// download performs a single fetch attempt. The body lands in a temporary
// file first so a failed download never produces the target path.
func (l *Launcher) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "building download request")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return eris.Wrapf(err, "downloading %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("downloading %s: unexpected status %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".molt-download-*")
	if err != nil {
		return eris.Wrap(err, "creating temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return eris.Wrap(err, "writing download")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "closing download")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrap(err, "installing binary")
	}
	return nil
}

// argv builds the argument vector for the dispatched binary: argv[0] is the
// binary itself, followed by the shim's arguments unmodified and in order.
func argv(path string, args []string) []string {
	return append([]string{path}, args...)
}
