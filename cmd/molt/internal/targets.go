package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moltbuild/molt/internal/targets"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List discoverable targets",
	Long:  `Targets prints the address of every discoverable target, one per line.`,
	RunE:  runTargets,
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	root, _, err := setup(cmd)
	if err != nil {
		return err
	}

	found, err := targets.Discover(root)
	if err != nil {
		return err
	}
	for _, t := range found {
		fmt.Println(t)
	}
	return nil
}
