package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command is one external process invocation
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return strings.Join(parts, " ")
}

// Executor runs a command to completion and returns its exit status.
// A non-zero status is not an error; errors mean the command could not run.
type Executor interface {
	Run(ctx context.Context, cmd Command) (int, error)
}

// ExecExecutor runs commands with os/exec, streaming their output
type ExecExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecExecutor returns an executor attached to the process's stdout and stderr
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e *ExecExecutor) Run(ctx context.Context, cmd Command) (int, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	c.Stdin = os.Stdin
	c.Stdout = e.Stdout
	c.Stderr = e.Stderr

	err := c.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// killed by a signal
		return 1, nil
	}
	return -1, fmt.Errorf("cannot run %s: %w", cmd.Name, err)
}
