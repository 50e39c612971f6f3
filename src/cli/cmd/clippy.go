package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sofmeright/cargo-lints/src/clippy"
)

var clippyCmd = &cobra.Command{
	Use:   "clippy [args...]",
	Short: "Run cargo clippy with the configured lint levels",
	Long: `Run cargo clippy with every argument passed through unchanged, followed by
"--" and the lint flags from lints.toml: -D for deny, -W for warn, -A for
allow, in that order.

Flags for cargo-lints itself go before "clippy"; --lints-file is also
accepted anywhere after it. Clippy's exit status becomes ours.`,
	DisableFlagParsing: true,
	RunE:               runClippy,
}

// newClippy is replaced in tests to capture the command line.
var newClippy = clippy.New

func init() {
	rootCmd.AddCommand(clippyCmd)
}

func runClippy(cmd *cobra.Command, args []string) error {
	// Flag parsing is off for this command, so root flags given before the
	// subcommand arrive mixed into args. Split them off the raw command line.
	own, passthrough := splitAtSubcommand(rawArgs, cmd.Name())
	if err := cmd.Root().PersistentFlags().Parse(own); err != nil {
		return err
	}

	passthrough, file, err := takeLintsFile(passthrough)
	if err != nil {
		return err
	}
	if file != "" {
		lintsFile = file
	}

	if err := loadLints(cmd); err != nil {
		return err
	}

	c := newClippy(verbose)
	c.Stderr = cmd.ErrOrStderr()
	return c.Run(cmd.Context(), lints, passthrough)
}

// splitAtSubcommand returns the arguments before the first occurrence of
// name that is not a flag value, and everything after it.
func splitAtSubcommand(args []string, name string) (before, after []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == name {
			return args[:i], args[i+1:]
		}
		if args[i] == "--lints-file" {
			i++ // skip the value
		}
	}
	return nil, args
}

// takeLintsFile removes --lints-file from a passthrough list. The flag is
// ours alone; cargo and clippy never see it.
func takeLintsFile(args []string) (rest []string, file string, err error) {
	rest = make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			// everything after the separator belongs to clippy-driver
			return append(rest, args[i:]...), file, nil
		case arg == "--lints-file":
			if i+1 >= len(args) {
				return nil, "", fmt.Errorf("flag needs an argument: --lints-file")
			}
			file = args[i+1]
			i++
		case strings.HasPrefix(arg, "--lints-file="):
			file = strings.TrimPrefix(arg, "--lints-file=")
		default:
			rest = append(rest, arg)
		}
	}
	return rest, file, nil
}
