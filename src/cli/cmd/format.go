package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrNotFormatted is returned by `format --check` for an unsorted file.
var ErrNotFormatted = errors.New("lints file is not formatted")

var formatCheck bool

var formatCmd = &cobra.Command{
	Use:     "format",
	Aliases: []string{"fmt"},
	Short:   "Sort lints.toml in place",
	Long: `Sort the deny, allow and warn lists of lints.toml and rewrite the file
in canonical form. Entries are never merged or removed.

With --check the file is left untouched and the command fails when it is
not already formatted.`,
	Args: cobra.NoArgs,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().BoolVar(&formatCheck, "check", false, "only check formatting, do not write")

	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	path, _ := lints.Source.Path()

	if formatCheck {
		ok, err := lints.Formatted()
		if err != nil {
			return fmt.Errorf("checking lints: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s (run cargo lints fmt)", ErrNotFormatted, path)
		}
		return nil
	}

	if err := lints.Format(); err != nil {
		return fmt.Errorf("formatting lints: %w", err)
	}
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "format: wrote %s\n", path)
	}
	return nil
}
