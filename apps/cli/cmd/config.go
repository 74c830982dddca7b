package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vsu-automation/pwrun/packages/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved settings and where each value came from",
	Long: `Resolve the settings exactly as "pwrun run" would and print them.
Nothing is installed and no tests are run.

Examples:
  pwrun config
  pwrun config --workers 4 --output json
  pwrun config --config ci.config --output yaml`,
	Args: cobra.NoArgs,
	RunE: configCommand,
}

var (
	configFlags      settingFlags
	configOutputFlag string
	configVerbose    bool
)

func init() {
	configFlags.register(configCmd)
	configCmd.Flags().StringVarP(&configOutputFlag, "output", "o", getEnvString("PWRUN_OUTPUT", "table"), "Output format: table, json, yaml (env: PWRUN_OUTPUT)")
	configCmd.Flags().BoolVarP(&configVerbose, "verbose", "v", false, "Log how each setting is resolved")
}

func configCommand(cmd *cobra.Command, args []string) error {
	logger := output.NewLogger(
		output.WithWriter(cmd.ErrOrStderr()),
		output.WithNoColor(configFlags.noColor),
		output.WithQuiet(!configVerbose),
	)

	sess, err := loadSession(&configFlags, logger)
	if err != nil {
		return err
	}
	settings, err := sess.resolve(cmd.Context(), &configFlags, configFlags.params(cmd), logger, nil)
	if err != nil {
		return err
	}

	return output.WriteSettings(cmd.OutOrStdout(), configOutputFlag, output.SettingsRows(settings))
}
