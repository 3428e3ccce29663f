// Moltup is the launcher shim for the molt build engine. It makes sure the
// engine binary is installed under the user's home directory, downloading it
// on first use, then hands the invocation over untouched.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/moltbuild/molt/internal/launcher"
)

func main() {
	l := launcher.New()

	path, err := l.Ensure(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "moltup:", err)
		os.Exit(1)
	}

	if err := launcher.Dispatch(path, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "moltup:", err)
		os.Exit(1)
	}
}
