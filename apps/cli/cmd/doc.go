// Package cmd implements the pwrun CLI commands using Cobra.
//
// Available commands:
//   - run: Resolve settings and run Playwright tests
//   - config: Print the resolved settings and where each came from
//   - init: Write a run.config template
//   - history: List previous sessions
//   - version: Show pwrun version information
//
// Every run flag can also be given through a PWRUN_* environment variable.
package cmd
