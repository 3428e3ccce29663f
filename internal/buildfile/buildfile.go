// Package buildfile loads BUILD files. A BUILD file is a Starlark script
// declaring tasks:
//
//	task(
//	    name = "gen",
//	    deps = ["fetch"],
//	    inputs = ["schema.json"],
//	    outputs = ["gen.rs"],
//	    cmds = ["codegen schema.json > gen.rs"],
//	)
//
// Besides task(), scripts can use getenv(), info(), warn() and the OS/ARCH
// constants.
package buildfile

import (
	"context"
	"os"
	"runtime"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"

	"github.com/moltbuild/molt/internal/logutil"
)

// Load parses the BUILD file at path. Declared tasks run with base dir pkgDir
// unless the task overrides it.
func Load(ctx context.Context, path, pkgDir string) (TaskList, error) {
	state := &loadState{
		ctx:    ctx,
		path:   path,
		pkgDir: pkgDir,
		tasks:  TaskList{},
	}

	builtins := starlark.StringDict{
		"OS":     starlark.String(runtime.GOOS),
		"ARCH":   starlark.String(runtime.GOARCH),
		"task":   starlark.NewBuiltin("task", state.task),
		"getenv": starlark.NewBuiltin("getenv", getenv),
		"info":   starlark.NewBuiltin("info", state.logFn(infoLevel)),
		"warn":   starlark.NewBuiltin("warn", state.logFn(warnLevel)),
	}

	script, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reading %s", path)
	}

	thread := &starlark.Thread{
		Name: "buildfile",
		Print: func(_ *starlark.Thread, msg string) {
			logutil.From(ctx).Info().Str("buildfile", path).Msg(msg)
		},
	}

	if _, err := starlark.ExecFile(thread, path, script, builtins); err != nil {
		if evalErr, ok := err.(*starlark.EvalError); ok {
			return nil, eris.Errorf("executing %s:\n%s", path, evalErr.Backtrace())
		}
		return nil, eris.Wrapf(err, "executing %s", path)
	}

	return state.tasks, nil
}

type loadState struct {
	ctx    context.Context
	path   string
	pkgDir string
	tasks  TaskList
}

func (s *loadState) task(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	t := &Task{}
	var deps, inputs, outputs, cmds *starlark.List
	var env *starlark.Dict

	err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"name", &t.Name, "desc?", &t.Desc, "base?", &t.Base, "deps?", &deps,
		"env?", &env, "inputs?", &inputs, "outputs?", &outputs, "cmds?", &cmds)
	if err != nil {
		return nil, err
	}

	if t.Name == "" {
		return nil, eris.New("task requires a non-empty name")
	}
	if _, dup := s.tasks[t.Name]; dup {
		return nil, eris.Errorf("task %s declared twice", t.Name)
	}

	if t.Base == "" {
		t.Base = s.pkgDir
	}

	if t.Deps, err = stringSlice(deps, "deps"); err != nil {
		return nil, err
	}
	if t.Inputs, err = stringSlice(inputs, "inputs"); err != nil {
		return nil, err
	}
	if t.Outputs, err = stringSlice(outputs, "outputs"); err != nil {
		return nil, err
	}
	if t.Cmds, err = stringSlice(cmds, "cmds"); err != nil {
		return nil, err
	}
	if t.Env, err = stringDict(env); err != nil {
		return nil, err
	}

	if len(t.Inputs) > 0 && len(t.Outputs) == 0 {
		pos := thread.CallFrame(1).Pos
		logutil.From(s.ctx).Warn().
			Msgf("%s:%d: task %s declares inputs but no outputs", s.path, pos.Line, t.Name)
	}

	s.tasks[t.Name] = t
	return starlark.None, nil
}

type logLevel int

const (
	infoLevel logLevel = iota
	warnLevel
)

func (s *loadState) logFn(level logLevel) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var msg string
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "msg", &msg); err != nil {
			return nil, err
		}

		pos := thread.CallFrame(1).Pos
		logger := logutil.From(s.ctx)
		evt := logger.Info()
		if level == warnLevel {
			evt = logger.Warn()
		}
		evt.Msgf("%s:%d:%d: %s", s.path, pos.Line, pos.Col, msg)
		return starlark.None, nil
	}
}

func getenv(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, fallback string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "default?", &fallback); err != nil {
		return nil, err
	}
	if value, ok := os.LookupEnv(name); ok {
		return starlark.String(value), nil
	}
	return starlark.String(fallback), nil
}

func stringSlice(list *starlark.List, field string) ([]string, error) {
	if list == nil {
		return nil, nil
	}
	result := make([]string, 0, list.Len())
	iter := list.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		s, ok := item.(starlark.String)
		if !ok {
			return nil, eris.Errorf("expected all items in %s to be strings but found %s", field, item.Type())
		}
		result = append(result, s.GoString())
	}
	return result, nil
}

func stringDict(dict *starlark.Dict) (map[string]string, error) {
	if dict == nil {
		return nil, nil
	}
	result := make(map[string]string, dict.Len())
	for _, rawKey := range dict.Keys() {
		key, ok := rawKey.(starlark.String)
		if !ok {
			return nil, eris.Errorf("found key type %s in env map but only strings are supported", rawKey.Type())
		}
		rawValue, _, err := dict.Get(rawKey)
		if err != nil {
			return nil, err
		}
		value, ok := rawValue.(starlark.String)
		if !ok {
			return nil, eris.Errorf("found value of type %s for key %s but only strings are supported", rawValue.Type(), key.GoString())
		}
		result[key.GoString()] = value.GoString()
	}
	return result, nil
}
