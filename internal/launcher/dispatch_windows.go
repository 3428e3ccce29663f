//go:build windows

package launcher

import (
	"errors"
	"os"
	"os/exec"

	"github.com/rotisserie/eris"
)

// Dispatch runs the engine binary and exits with its status. Windows has no
// exec-replacement, so the shim stays alive as a supervisor and forwards the
// child's exit code.
func Dispatch(path string, args []string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}
	if err != nil {
		return eris.Wrapf(err, "running %s", path)
	}
	os.Exit(0)
	return nil
}
