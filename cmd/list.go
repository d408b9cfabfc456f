package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pilotgen/pilotgen/internal/config"
	"github.com/pilotgen/pilotgen/internal/generator"
	"github.com/pilotgen/pilotgen/internal/registry"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l", "ls"},
	Short:   "List discovered templates",
	Long: `List every discovered template with its artifact path and group.

Examples:
  pilotgen list                   # Table output
  pilotgen list -f json           # JSON output
  pilotgen list -f yaml           # YAML output`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table",
		"output format (table, json, yaml)")
}

// templateListing is one row of list output.
type templateListing struct {
	Name       string `json:"name" yaml:"name"`
	OutputPath string `json:"output_path" yaml:"output_path"`
	Group      string `json:"group" yaml:"group"`
	Source     string `json:"source" yaml:"source"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gen := generator.New(cfg, generator.WithLogger(newLogger()))
	if err := gen.LoadTemplates(cmd.Context()); err != nil {
		return err
	}

	listings := collectListings(gen.Registry().All())
	switch listFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(listings)
	case "table":
		printListingTable(listings)
		return nil
	default:
		return fmt.Errorf("invalid format %q, must be one of: table, json, yaml", listFormat)
	}
}

func collectListings(entries []*registry.Entry) []templateListing {
	listings := make([]templateListing, 0, len(entries))
	for _, entry := range entries {
		source := entry.Info.FilePath
		if entry.Info.Embedded {
			source = "(embedded)"
		}
		listings = append(listings, templateListing{
			Name:       entry.Info.Name,
			OutputPath: entry.Info.OutputPath,
			Group:      entry.Info.Group,
			Source:     source,
		})
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Name < listings[j].Name })
	return listings
}

func printListingTable(listings []templateListing) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tOUTPUT\tGROUP\tSOURCE")
	for _, l := range listings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Name, l.OutputPath, l.Group, l.Source)
	}
	w.Flush()
	fmt.Printf("\n%d template(s)\n", len(listings))
}
