package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sofmeright/cargo-lints/src/config"
)

var initHere bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty lints.toml",
	Long: `Create an empty lints.toml at the root of the git repository containing
the working directory, so every crate in the workspace picks it up.
Outside a repository, or with --here, it is created in the working directory.
An existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initHere, "here", false, "create the file in the working directory")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	if !initHere {
		dir, err = config.WorkspaceRoot(dir)
		if err != nil {
			return err
		}
	}

	l, err := config.Init(dir)
	if err != nil {
		return fmt.Errorf("creating lints file: %w", err)
	}

	path, _ := l.Source.Path()
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
