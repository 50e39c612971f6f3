package clippy

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/sofmeright/cargo-lints/src/config"
)

// ExitError reports that clippy ran and exited non-zero.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("clippy exited with status %d", e.Code)
}

// Clippy invokes `cargo clippy` with lint levels from a config.
type Clippy struct {
	Cargo   string
	Runner  Runner
	Verbose bool
	Stderr  io.Writer
}

// New returns a Clippy running the cargo binary named by $CARGO (set by
// cargo for external subcommands), falling back to cargo on PATH.
func New(verbose bool) *Clippy {
	cargo := os.Getenv("CARGO")
	if cargo == "" {
		cargo = "cargo"
	}
	return &Clippy{
		Cargo:   cargo,
		Runner:  NewExecRunner(),
		Verbose: verbose,
		Stderr:  os.Stderr,
	}
}

// Argv builds the full command line: the user's arguments go to cargo
// clippy and the lint flags follow the separator so they reach the driver.
// When the user already passed driver flags after their own "--", the lint
// flags are placed ahead of them, letting the user's flags take precedence.
func (c *Clippy) Argv(lints *config.Lints, passthrough []string) []string {
	flags := lints.Flags()
	cargoArgs, driverArgs := passthrough, []string(nil)
	if i := slices.Index(passthrough, "--"); i >= 0 {
		cargoArgs, driverArgs = passthrough[:i], passthrough[i+1:]
	}

	argv := make([]string, 0, 3+len(passthrough)+len(flags))
	argv = append(argv, c.Cargo, "clippy")
	argv = append(argv, cargoArgs...)
	argv = append(argv, "--")
	argv = append(argv, flags...)
	argv = append(argv, driverArgs...)
	return argv
}

// Run executes clippy and waits for it. A non-zero exit is returned as
// *ExitError.
func (c *Clippy) Run(ctx context.Context, lints *config.Lints, passthrough []string) error {
	argv := c.Argv(lints, passthrough)

	if c.Verbose {
		fmt.Fprintf(c.Stderr, "exec: %s\n", strings.Join(argv, " "))
	}

	code, err := c.Runner.Run(ctx, argv)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
