package internal

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/moltbuild/molt/internal/config"
)

var (
	flagRoot    string
	flagVerbose bool
	flagJobs    int
)

var rootCmd = &cobra.Command{
	Use:   "molt",
	Short: "molt is a polyglot workspace build tool",
	Long: `molt discovers buildable targets below a workspace root, runs their test
suites in parallel and executes tasks declared in BUILD files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", ".", "Workspace root directory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVarP(&flagJobs, "jobs", "j", 0, "Maximum concurrent targets (0 = one per CPU)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
}

// setup resolves the workspace root and loads the effective configuration,
// with command-line flags overriding file values.
func setup(cmd *cobra.Command) (string, config.Config, error) {
	root, err := filepath.Abs(flagRoot)
	if err != nil {
		return "", config.Config{}, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return "", config.Config{}, err
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = flagJobs
	}
	return root, cfg, nil
}
