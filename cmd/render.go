package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pilotgen/pilotgen/internal/config"
	"github.com/pilotgen/pilotgen/internal/generator"
)

var renderCmd = &cobra.Command{
	Use:     "render <template>",
	Aliases: []string{"r"},
	Short:   "Render a single template to stdout",
	Long: `Render one registered template against the project configuration and
print the result to stdout. Diagnostics go to stderr, so the output can be
piped or redirected cleanly.

Examples:
  pilotgen render copilot-instructions
  pilotgen render CLAUDE > CLAUDE.md`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gen := generator.New(cfg, generator.WithLogger(newLogger()))
	output, diags, err := gen.RenderTemplate(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d.String())
	}
	fmt.Print(output)
	return nil
}
