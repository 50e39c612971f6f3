package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sofmeright/cargo-lints/src/clippy"
	"github.com/sofmeright/cargo-lints/src/config"
)

// hostSubcommand is the name cargo passes as the first argument when it runs
// us as `cargo lints ...`.
const hostSubcommand = "lints"

// ErrUnknownSubcommand means cargo invoked the binary under another name.
var ErrUnknownSubcommand = errors.New("unknown cargo subcommand")

var (
	lintsFile string
	verbose   bool
	lints     *config.Lints

	// rawArgs is the command line after host handling, kept for commands
	// that parse their own arguments.
	rawArgs []string
)

var rootCmd = &cobra.Command{
	Use:   "cargo-lints",
	Short: "Apply lints.toml lint levels to cargo clippy",
	Long: `cargo-lints keeps clippy lint levels in a lints.toml file.

The file is looked up from the working directory upwards and holds three
lists of lint names: deny, warn and allow. "cargo lints clippy" runs clippy
with those levels, "cargo lints fmt" keeps the file sorted.

When cargo runs it as "cargo lints", the first argument must be "lints".
That check applies only when $CARGO is set without $CARGO_MANIFEST_DIR:
shells started from "cargo run" or build scripts carry both, and there the
binary behaves as if run directly.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Only format and show load here; clippy parses its own flags and
		// loads afterwards, the rest never read the config.
		switch cmd.Name() {
		case "format", "show":
			return loadLints(cmd)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&lintsFile, "lints-file", "", "config file (default: nearest lints.toml, or $CARGO_LINTS_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadLints resolves the config from --lints-file, $CARGO_LINTS_FILE or
// discovery, in that order.
func loadLints(cmd *cobra.Command) error {
	path := lintsFile
	if path == "" {
		path = os.Getenv("CARGO_LINTS_FILE")
	}

	var err error
	lints, err = config.Resolve(path)
	if err != nil {
		return fmt.Errorf("loading lints: %w", err)
	}

	if verbose {
		if p, ok := lints.Source.Path(); ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "config: %s\n", p)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "config: no %s found, using empty config\n", config.FileName)
		}
	}
	return nil
}

// hostArgs strips the subcommand name cargo inserts for external
// subcommands: `cargo lints fmt` runs `cargo-lints lints fmt`.
func hostArgs(args []string, underCargo bool) ([]string, error) {
	if len(args) > 0 && args[0] == hostSubcommand {
		return args[1:], nil
	}
	if underCargo {
		got := ""
		if len(args) > 0 {
			got = args[0]
		}
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrUnknownSubcommand, hostSubcommand, got)
	}
	return args, nil
}

// invokedByCargo reports whether we run as a cargo external subcommand.
// cargo exports CARGO to subcommands, but also to everything started by
// cargo run and build scripts, which additionally get CARGO_MANIFEST_DIR.
func invokedByCargo(getenv func(string) string) bool {
	return getenv("CARGO") != "" && getenv("CARGO_MANIFEST_DIR") == ""
}

// Execute runs the root command with the given arguments (without the
// program name). A clippy run that exits non-zero is returned as
// *clippy.ExitError and is not reported again.
func Execute(args []string) error {
	args, err := hostArgs(args, invokedByCargo(os.Getenv))
	if err == nil {
		if args == nil {
			// cobra falls back to os.Args for nil
			args = []string{}
		}
		rawArgs = args
		rootCmd.SetArgs(args)
		err = rootCmd.Execute()
	}
	if err != nil {
		var exitErr *clippy.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		}
		return err
	}
	return nil
}
