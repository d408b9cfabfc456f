package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pilotgen/pilotgen/internal/scaffolding"
)

var (
	initName        string
	initDescription string
	initBackend     string
	initFrontend    string
	initTemplates   bool
	initInteractive bool
	initForce       bool
)

var initCmd = &cobra.Command{
	Use:     "init [dir]",
	Aliases: []string{"i"},
	Short:   "Set up a project configuration",
	Long: `Create a starter project configuration document, and optionally copy the
built-in templates into templates/ for customization.

Examples:
  pilotgen init --name myproject --backend rust
  pilotgen init --interactive               # Guided setup
  pilotgen init ./service --name svc --templates`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initName, "name", "", "project name")
	initCmd.Flags().StringVar(&initDescription, "description", "", "project description")
	initCmd.Flags().StringVar(&initBackend, "backend", "rust",
		"backend language (rust, python, node, go)")
	initCmd.Flags().StringVar(&initFrontend, "frontend", "none",
		"frontend framework (none, react, vue, angular)")
	initCmd.Flags().BoolVar(&initTemplates, "templates", false,
		"copy the built-in templates into templates/")
	initCmd.Flags().BoolVar(&initInteractive, "interactive", false,
		"answer prompts instead of passing flags")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	var opts scaffolding.Options
	if initInteractive {
		var err error
		opts, err = scaffolding.RunWizard(cmd.Context(), scaffolding.NewSurveyDriver(), dir)
		if err != nil {
			return err
		}
	} else {
		opts = scaffolding.Options{
			Dir:               dir,
			ProjectName:       initName,
			Description:       initDescription,
			BackendLanguage:   initBackend,
			FrontendFramework: initFrontend,
			CopyTemplates:     initTemplates,
		}
	}
	opts.Force = initForce

	scaffolder := scaffolding.NewProjectScaffolder(newLogger())
	if err := scaffolder.CreateProject(cmd.Context(), opts); err != nil {
		return err
	}

	fmt.Printf("Project %q initialized in %s\n", opts.ProjectName, dir)
	fmt.Println("Next: review project-config.yml, then run `pilotgen generate`")
	return nil
}
