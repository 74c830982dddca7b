package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vsu-automation/pwrun/packages/core/config"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a run.config template",
	Long: `Write a commented run.config holding the default value of every setting
and the built-in TestRail suite table.

Examples:
  pwrun init
  pwrun init ci.config --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
}

func initCommand(cmd *cobra.Command, args []string) error {
	path := config.DefaultFilename
	if len(args) == 1 {
		path = args[0]
	}

	if err := config.WriteTemplate(path, forceInit); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
	return nil
}
