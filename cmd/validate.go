package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	yamlv2 "gopkg.in/yaml.v2"

	"github.com/pilotgen/pilotgen/internal/config"
	"github.com/pilotgen/pilotgen/internal/generator"
)

var validateOutputs bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate templates and the project configuration",
	Long: `Check that every template parses, the project configuration loads, and
(with --outputs) that previously generated artifacts on disk are intact.

The report is printed as YAML so it can be consumed by CI.

Examples:
  pilotgen validate
  pilotgen validate --outputs`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateOutputs, "outputs", false,
		"also verify generated artifacts on disk")
}

// validationReport is the CI-facing validate output.
type validationReport struct {
	Timestamp time.Time         `yaml:"timestamp"`
	Status    string            `yaml:"status"`
	Templates int               `yaml:"templates"`
	Checks    []validationCheck `yaml:"checks"`
}

type validationCheck struct {
	Name    string `yaml:"name"`
	Status  string `yaml:"status"`
	Message string `yaml:"message,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	report := validationReport{
		Timestamp: time.Now().UTC(),
		Status:    "ok",
	}
	fail := func(name, message string) {
		report.Status = "error"
		report.Checks = append(report.Checks, validationCheck{
			Name: name, Status: "error", Message: message,
		})
	}
	ok := func(name, message string) {
		report.Checks = append(report.Checks, validationCheck{
			Name: name, Status: "ok", Message: message,
		})
	}

	gen := generator.New(cfg, generator.WithLogger(newLogger()))

	// Template discovery surfaces parse failures for every broken template
	// at once.
	if err := gen.LoadTemplates(cmd.Context()); err != nil {
		fail("templates", err.Error())
	} else {
		ok("templates", fmt.Sprintf("%d template(s) parsed", gen.Registry().Count()))
	}
	report.Templates = gen.Registry().Count()

	if _, err := gen.LoadContext(cmd.Context()); err != nil {
		fail("project-config", err.Error())
	} else {
		ok("project-config", cfg.Project.ConfigFile)
	}

	if validateOutputs {
		issues := generator.VerifyOutputs(cfg.Output.Dir, gen.Registry().All())
		if len(issues) == 0 {
			ok("outputs", fmt.Sprintf("%d artifact(s) verified", gen.Registry().Count()))
		}
		for _, issue := range issues {
			fail("outputs", issue.String())
		}
	}

	if err := yamlv2.NewEncoder(os.Stdout).Encode(report); err != nil {
		return err
	}
	if report.Status != "ok" {
		return fmt.Errorf("validation failed")
	}
	return nil
}
