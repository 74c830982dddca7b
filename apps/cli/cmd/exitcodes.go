package cmd

// Exit codes for the pwrun CLI
const (
	// ExitSuccess indicates the runner exited with status 0
	ExitSuccess = 0

	// ExitTestFailure indicates the runner exited with a non-zero status
	ExitTestFailure = 1

	// ExitError indicates pwrun itself failed: bad configuration, TestRail
	// errors or a runner that could not be started
	ExitError = 1
)
