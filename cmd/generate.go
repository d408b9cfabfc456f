package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pilotgen/pilotgen/internal/config"
	"github.com/pilotgen/pilotgen/internal/generator"
)

var (
	generateGroups []string
	generateDryRun bool
	generateOutput string
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"g", "gen"},
	Short:   "Render all artifacts from the project configuration",
	Long: `Render every template against the project configuration and write the
resulting artifacts under the output directory.

Examples:
  pilotgen generate                          # Render everything
  pilotgen generate --group claude           # Only Claude artifacts
  pilotgen generate --group copilot --group issue-template
  pilotgen generate --dry-run                # Render and validate, write nothing
  pilotgen generate -o ./build               # Write under ./build`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Var(newGroupsValue(&generateGroups), "group",
		"restrict generation to artifact groups (copilot, claude, issue-template)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false,
		"render and validate without writing files")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "",
		"output directory (overrides configuration)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if generateOutput != "" {
		cfg.Output.Dir = generateOutput
	}

	gen := generator.New(cfg, generator.WithLogger(newLogger()))
	result, err := gen.Generate(cmd.Context(), generator.Request{
		Groups: generateGroups,
		DryRun: generateDryRun,
	})
	if err != nil {
		return err
	}

	printGenerateSummary(result)

	if failed := result.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d artifacts failed", len(failed), len(result.Artifacts))
	}
	return nil
}

func printGenerateSummary(result *generator.Result) {
	for _, a := range result.Artifacts {
		switch {
		case a.Err != nil:
			fmt.Fprintf(os.Stderr, "  FAIL %s: %v\n", a.OutputPath, a.Err)
		case a.Written:
			fmt.Printf("  wrote %s (%d bytes)\n", a.OutputPath, len(a.Content))
		default:
			fmt.Printf("  ok %s (%d bytes, not written)\n", a.OutputPath, len(a.Content))
		}
		for _, d := range a.Diagnostics {
			fmt.Fprintf(os.Stderr, "    warning: %s\n", d.String())
		}
	}

	if n := result.DiagnosticCount(); n > 0 {
		fmt.Fprintf(os.Stderr, "%d diagnostic(s) reported\n", n)
	}
	fmt.Printf("%d artifact(s) processed\n", len(result.Artifacts))
}
