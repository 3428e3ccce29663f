package targets

import (
	"context"
	"os"
	"path/filepath"

	"github.com/moltbuild/molt/pkgs/gotool"
)

func init() {
	Register(discoverGoMod)
}

func discoverGoMod(root, dir string) ([]Target, error) {
	if _, err := os.Stat(filepath.Join(dir, "go.mod")); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return []Target{&GoMod{root: root, dir: dir}}, nil
}

// GoMod is a Go module, tested through "go test".
type GoMod struct {
	root string
	dir  string
}

func (t *GoMod) String() string {
	return address(t.root, t.dir, "go_mod")
}

func (t *GoMod) Test(ctx context.Context) error {
	return gotool.New(t.dir).Test(ctx)
}

func (t *GoMod) CachePaths() []string {
	return []string{gotool.New(t.dir).CacheDir()}
}
