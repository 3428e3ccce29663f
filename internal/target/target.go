// Package target defines the address syntax used to name tasks: //pkg/path:task.
package target

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingTask        = errors.New("missing task")
	ErrMissingPackage     = errors.New("missing package")
	ErrPackageNotAbsolute = errors.New("package must be absolute")
)

// Address names a single task within a workspace package.
type Address struct {
	Package string // workspace-relative directory, slash-separated
	Task    string
}

// Parse parses an address of the form //pkg/path:task.
func Parse(s string) (Address, error) {
	pkg, task, found := strings.Cut(s, ":")
	if !found {
		return Address{}, ErrMissingTask
	}
	if pkg == "" {
		return Address{}, ErrMissingPackage
	}
	rel, ok := strings.CutPrefix(pkg, "//")
	if !ok {
		return Address{}, ErrPackageNotAbsolute
	}
	return Address{Package: rel, Task: task}, nil
}

func (a Address) String() string {
	return fmt.Sprintf("//%s:%s", a.Package, a.Task)
}
