package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sofmeright/cargo-lints/src/config"
	"github.com/sofmeright/cargo-lints/src/output"
)

var (
	showOutput string
	showFlags  bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective lint configuration",
	Long: `Print the lint configuration clippy would run with.

--output selects text (default), toml, yaml or json. --flags prints only the
arguments passed to clippy after "--".`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "text", "output format: text, toml, yaml or json")
	showCmd.Flags().BoolVar(&showFlags, "flags", false, "print only the generated clippy flags")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if showFlags {
		fmt.Fprintln(w, strings.Join(lints.Flags(), " "))
		return nil
	}

	switch showOutput {
	case "text", "":
		renderLints(w, lints, output.UseColor(w))
	case "toml":
		data, err := lints.Marshal()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(lints); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(lints); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %q (want text, toml, yaml or json)", showOutput)
	}
	return nil
}

// renderLints writes the framed human-readable report, levels in the order
// clippy receives them.
func renderLints(w io.Writer, l *config.Lints, color bool) {
	sec := output.NewSection(w, "Lints", color)

	source := output.Dimmed("none, using empty config", color)
	if p, ok := l.Source.Path(); ok {
		source = p
	}
	sec.Row("%-8s%s", "file", source)
	sec.Separator()

	levels := []struct {
		name  string
		lints []string
	}{
		{"deny", l.Deny},
		{"warn", l.Warn},
		{"allow", l.Allow},
	}
	for _, lvl := range levels {
		for _, name := range lvl.lints {
			sec.Row("%s  %s", output.LevelTag(lvl.name, color), name)
		}
	}
	if l.Len() == 0 {
		sec.Row("%s", output.Dimmed("no lints configured", color))
	}

	sec.Separator()
	sec.Row("%s lints: %d deny, %d warn, %d allow",
		output.Bold(fmt.Sprint(l.Len()), color), len(l.Deny), len(l.Warn), len(l.Allow))
	sec.Close()
}
