// Package runner executes named tasks with bounded parallelism and fail-fast
// error reporting.
package runner

import (
	"fmt"
	"runtime"
)

// TaskError reports which task failed.
type TaskError struct {
	Name string
	Err  error
}

func (e *TaskError) Error() string { return fmt.Sprintf("task %s: %v", e.Name, e.Err) }
func (e *TaskError) Unwrap() error { return e.Err }

// ProgressListener observes task lifecycle events. Callbacks are invoked from
// the goroutine driving the Runner, never concurrently.
type ProgressListener interface {
	OnStart(name string)
	OnFinish(name string)
}

type result struct {
	name string
	err  error
}

// Runner runs tasks on at most N goroutines. Once a task fails, the failure
// surfaces from the next Go or Wait call and no further tasks are started.
type Runner struct {
	slots    int
	inFlight int
	results  chan result
	progress ProgressListener
}

// New returns a Runner sized to the number of CPUs.
func New(p ProgressListener) *Runner {
	return WithParallel(runtime.NumCPU(), p)
}

// WithParallel returns a Runner that keeps at most n tasks in flight.
func WithParallel(n int, p ProgressListener) *Runner {
	if n < 1 {
		panic("runner: parallelism must be at least 1")
	}
	return &Runner{
		slots:    n,
		results:  make(chan result, n),
		progress: p,
	}
}

// Go schedules fn under the given name. It blocks while all slots are busy.
// If a previously scheduled task has failed, Go returns that failure as a
// *TaskError and fn is never started.
func (r *Runner) Go(name string, fn func() error) error {
	if err := r.drainFinished(); err != nil {
		return err
	}

	if r.inFlight >= r.slots {
		if err := r.waitOne(); err != nil {
			return err
		}
	}

	r.inFlight++
	r.progress.OnStart(name)
	go func() {
		r.results <- result{name: name, err: fn()}
	}()
	return nil
}

// Wait blocks until every scheduled task finishes. On failure it returns
// immediately with a *TaskError without waiting for the remaining tasks.
func (r *Runner) Wait() error {
	for r.inFlight > 0 {
		if err := r.waitOne(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) drainFinished() error {
	for {
		select {
		case res := <-r.results:
			if err := r.finish(res); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (r *Runner) waitOne() error {
	return r.finish(<-r.results)
}

func (r *Runner) finish(res result) error {
	r.inFlight--
	r.progress.OnFinish(res.name)
	if res.err != nil {
		return &TaskError{Name: res.name, Err: res.err}
	}
	return nil
}
