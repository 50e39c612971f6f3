package clippy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Failure categories for running the child. A Runner wraps one of these
// together with the underlying cause, so callers match with errors.Is.
var (
	// ErrSpawn means the child could not be started, e.g. cargo is not on PATH.
	ErrSpawn = errors.New("starting clippy")
	// ErrWait means the child started but waiting for its exit failed.
	ErrWait = errors.New("waiting for clippy")
)

// Runner executes a command line and reports the child's exit code.
// A non-zero exit is a result, not an error; errors mean the child could not
// be started or waited on.
type Runner interface {
	Run(ctx context.Context, argv []string) (int, error)
}

// ExecRunner runs commands as child processes sharing the given streams.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's own stdio.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run starts argv and blocks until it exits.
func (r *ExecRunner) Run(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("%w: empty command", ErrSpawn)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("%w: %w", ErrWait, err)
	}
	return 0, nil
}
