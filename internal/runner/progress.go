package runner

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// NullProgress ignores all events.
type NullProgress struct{}

func (NullProgress) OnStart(string)  {}
func (NullProgress) OnFinish(string) {}

// LogProgress reports task events through a zerolog logger.
type LogProgress struct {
	Logger *zerolog.Logger
}

func (p LogProgress) OnStart(name string) {
	p.Logger.Info().Str("task", name).Msg("started")
}

func (p LogProgress) OnFinish(name string) {
	p.Logger.Info().Str("task", name).Msg("finished")
}

// BarProgress drives a console progress bar across a known number of tasks.
type BarProgress struct {
	bar *progressbar.ProgressBar
}

// NewBar returns a BarProgress for total tasks, rendered on stderr.
func NewBar(total int) *BarProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("running"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &BarProgress{bar: bar}
}

func (p *BarProgress) OnStart(name string) {
	p.bar.Describe(name)
}

func (p *BarProgress) OnFinish(name string) {
	p.bar.Add(1)
}
