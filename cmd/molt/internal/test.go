package internal

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/moltbuild/molt/internal/cache"
	"github.com/moltbuild/molt/internal/runner"
	"github.com/moltbuild/molt/internal/target"
	"github.com/moltbuild/molt/internal/targets"
)

var testCmd = &cobra.Command{
	Use:   "test [target...]",
	Short: "Run the test suites of workspace targets",
	Long: `Test discovers targets below the workspace root and runs their test suites
in parallel. With arguments, only the named targets run. Build artifacts are
restored from the cache before the run and saved back after every test passes.`,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	root, cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	found, err := targets.Discover(root)
	if err != nil {
		return err
	}
	selected, err := selectTargets(found, args)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		log.Warn().Str("root", root).Msg("no targets found")
		return nil
	}

	if err := cache.Load(cfg.CacheDir, root); err != nil {
		return fmt.Errorf("restoring cache: %w", err)
	}

	var progress runner.ProgressListener = runner.NewBar(len(selected))
	if flagVerbose {
		progress = runner.LogProgress{Logger: &log.Logger}
	}

	r := runner.New(progress)
	if cfg.Jobs > 0 {
		r = runner.WithParallel(cfg.Jobs, progress)
	}

	for _, t := range selected {
		t := t
		if err := r.Go(t.String(), func() error { return t.Test(ctx) }); err != nil {
			return err
		}
	}
	if err := r.Wait(); err != nil {
		return err
	}

	// Artifacts are saved only after a fully green run.
	if err := cache.Save(cfg.CacheDir, targets.CachePaths(selected)); err != nil {
		return fmt.Errorf("saving cache: %w", err)
	}
	return nil
}

// selectTargets filters found down to the named addresses. With no names,
// every discovered target is selected.
func selectTargets(found []targets.Target, names []string) ([]targets.Target, error) {
	if len(names) == 0 {
		return found, nil
	}

	byAddr := make(map[string]targets.Target, len(found))
	for _, t := range found {
		byAddr[t.String()] = t
	}

	var selected []targets.Target
	for _, name := range names {
		addr, err := target.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("parsing target %q: %w", name, err)
		}
		t, ok := byAddr[addr.String()]
		if !ok {
			return nil, fmt.Errorf("target %s not found", addr)
		}
		selected = append(selected, t)
	}
	return selected, nil
}
