package buildfile

// Task is a unit of work declared by a BUILD file.
type Task struct {
	Name    string
	Desc    string
	Base    string // directory commands run in
	Deps    []string
	Env     map[string]string
	Inputs  []string
	Outputs []string
	Cmds    []string
}

// TaskList maps task names to their definitions.
type TaskList map[string]*Task
