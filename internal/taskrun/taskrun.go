// Package taskrun executes tasks declared in BUILD files. Dependencies run
// first, each task runs at most once per invocation, and tasks whose outputs
// are newer than all inputs are skipped.
package taskrun

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/moltbuild/molt/internal/buildfile"
	"github.com/moltbuild/molt/internal/logutil"
)

// Options control a Run invocation.
type Options struct {
	// DryRun prints commands without executing them.
	DryRun bool
	// Force runs tasks even when their outputs are up to date.
	Force bool
	// Stdout and Stderr receive command output; nil means the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the named task and its dependencies.
func Run(ctx context.Context, tasks buildfile.TaskList, name string, opts Options) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	task, found := tasks[name]
	if !found {
		return eris.Errorf("task %s not found", name)
	}

	r := &runState{
		tasks: tasks,
		opts:  opts,
		done:  make(map[string]bool),
	}
	return r.run(ctx, task, opts.Force)
}

type runState struct {
	tasks buildfile.TaskList
	opts  Options
	// done tracks task state: absent = not run, false = running, true = run.
	done map[string]bool
}

func (r *runState) run(ctx context.Context, task *buildfile.Task, force bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	finished, started := r.done[task.Name]
	if started {
		if finished {
			logutil.From(ctx).Debug().Str("task", task.Name).Msg("already run")
			return nil
		}
		return eris.Errorf("task %s was called recursively", task.Name)
	}
	r.done[task.Name] = false

	for _, dep := range task.Deps {
		depTask, found := r.tasks[dep]
		if !found {
			return eris.Errorf("task %s not found", dep)
		}
		if err := r.run(ctx, depTask, false); err != nil {
			return eris.Wrapf(err, "task %s failed due to its dependency %s", task.Name, dep)
		}
	}

	if !force {
		fresh, err := r.upToDate(task)
		if err != nil {
			return err
		}
		if fresh {
			logutil.From(ctx).Info().Str("task", task.Name).Msg("nothing to do")
			r.done[task.Name] = true
			return nil
		}
	}

	if err := r.exec(ctx, task); err != nil {
		return err
	}

	r.done[task.Name] = true
	return nil
}

// upToDate reports whether every output is newer than the newest input.
// Tasks without inputs always run; missing inputs are an error.
func (r *runState) upToDate(task *buildfile.Task) (bool, error) {
	if len(task.Inputs) == 0 {
		return false, nil
	}

	var newestInput time.Time
	for _, item := range task.Inputs {
		info, err := os.Stat(r.resolve(task, item))
		if err != nil {
			return false, eris.Wrapf(err, "checking input %s", item)
		}
		if info.ModTime().After(newestInput) {
			newestInput = info.ModTime()
		}
	}

	if len(task.Outputs) == 0 {
		return false, nil
	}
	for _, item := range task.Outputs {
		info, err := os.Stat(r.resolve(task, item))
		if err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, eris.Wrapf(err, "checking output %s", item)
		}
		if !info.ModTime().After(newestInput) {
			return false, nil
		}
	}
	return true, nil
}

func (r *runState) resolve(task *buildfile.Task, item string) string {
	if filepath.IsAbs(item) {
		return item
	}
	return filepath.Join(task.Base, item)
}

func (r *runState) exec(ctx context.Context, task *buildfile.Task) error {
	env := os.Environ()
	for name, value := range task.Env {
		env = append(env, fmt.Sprintf("%s=%s", name, value))
	}

	runner, err := interp.New(
		interp.Dir(task.Base),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, r.opts.Stdout, r.opts.Stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return eris.Wrap(err, "initializing shell runner")
	}

	parser := syntax.NewParser()
	printer := syntax.NewPrinter(syntax.Minify(true))
	var buf strings.Builder

	for i, cmd := range task.Cmds {
		file, err := parser.Parse(strings.NewReader(cmd), fmt.Sprintf("%s:%d", task.Name, i))
		if err != nil {
			return eris.Wrapf(err, "parsing command %q", cmd)
		}

		for _, stmt := range file.Stmts {
			buf.Reset()
			printer.Print(&buf, stmt)
			logutil.From(ctx).Info().
				Str("task", task.Name).
				Bool("command", true).
				Msg(buf.String())

			if r.opts.DryRun {
				continue
			}
			if err := runner.Run(ctx, stmt); err != nil {
				return eris.Wrapf(err, "task %s", task.Name)
			}
			if runner.Exited() {
				return nil
			}
		}
	}
	return nil
}
