package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// ErrTestsFailed is returned when the Playwright runner exits non-zero
var ErrTestsFailed = errors.New("tests failed")

var rootCmd = &cobra.Command{
	Use:   "pwrun",
	Short: "Configure and launch Playwright test sessions",
	Long: `pwrun resolves the settings of a Playwright test session from command
line flags, the run.config file and built-in defaults, optionally creates a
TestRail run, invokes "npx playwright test" and generates the Allure report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	os.Exit(execute())
}

func execute() int {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, ErrTestsFailed) {
		fmt.Fprintf(os.Stderr, "ERROR - %v\n", err)
	}
	return exitCode(err)
}

// exitCode maps the error returned by a command to the process exit code
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrTestsFailed):
		return ExitTestFailure
	default:
		return ExitError
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
