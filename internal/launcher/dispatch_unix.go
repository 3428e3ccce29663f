//go:build !windows

package launcher

import (
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/sys/unix"
)

// Dispatch replaces the current process with the engine binary, forwarding
// args untouched. It only returns on error; on success the engine's exit
// status becomes the invocation's exit status.
func Dispatch(path string, args []string) error {
	if err := unix.Exec(path, argv(path, args), os.Environ()); err != nil {
		return eris.Wrapf(err, "exec %s", path)
	}
	return nil
}
