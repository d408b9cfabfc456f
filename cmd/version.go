package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pilotgen/pilotgen/internal/version"
)

var versionDetailed bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		if versionDetailed {
			fmt.Println(version.GetDetailedVersion())
			return
		}
		fmt.Printf("pilotgen %s\n", version.GetShortVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false,
		"include commit, build time, and platform")
}
