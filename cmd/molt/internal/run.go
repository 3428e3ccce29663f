package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/moltbuild/molt/internal/buildfile"
	"github.com/moltbuild/molt/internal/target"
	"github.com/moltbuild/molt/internal/targets"
	"github.com/moltbuild/molt/internal/taskrun"
)

var (
	runForce  bool
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run //package:task",
	Short: "Run a task from a BUILD file",
	Long: `Run executes the addressed task along with its dependencies. Tasks whose
outputs are newer than all of their inputs are skipped. Task names matching an
auto-discovered target (rust_crate, go_mod) run that target's test suite.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&runForce, "force", "f", false, "Run even when outputs are up to date")
	runCmd.Flags().BoolVarP(&runDryRun, "dry-run", "n", false, "Print commands without executing them")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	root, cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	addr, err := target.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parsing target %q: %w", args[0], err)
	}

	pkgDir := filepath.Join(root, filepath.FromSlash(addr.Package))
	buildPath := filepath.Join(pkgDir, "BUILD")

	if _, err := os.Stat(buildPath); err == nil {
		cacheFile := filepath.Join(cfg.CacheDir, "buildfiles", filepath.FromSlash(addr.Package), "BUILD.gob")
		tasks, err := buildfile.LoadCached(ctx, buildPath, pkgDir, cacheFile)
		if err != nil {
			return fmt.Errorf("loading %s: %w", buildPath, err)
		}
		if _, found := tasks[addr.Task]; found {
			return taskrun.Run(ctx, tasks, addr.Task, taskrun.Options{
				DryRun: runDryRun || cfg.DryRun,
				Force:  runForce,
			})
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	// No BUILD task by that name; the address may name a discovered target.
	found, err := targets.Discover(root)
	if err != nil {
		return err
	}
	for _, t := range found {
		if t.String() == addr.String() {
			return t.Test(ctx)
		}
	}
	return fmt.Errorf("task %s not found", addr)
}
