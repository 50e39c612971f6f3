package main

import (
	"errors"
	"os"

	"github.com/sofmeright/cargo-lints/src/cli/cmd"
	"github.com/sofmeright/cargo-lints/src/clippy"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		// Clippy's own failure: pass its status through.
		var exitErr *clippy.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
