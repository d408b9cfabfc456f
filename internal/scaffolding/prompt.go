package scaffolding

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pilotgen/pilotgen/internal/errors"
)

// PromptDriver abstracts the interactive prompts so the wizard can be tested
// without a terminal.
type PromptDriver interface {
	Input(ctx context.Context, message, defaultValue string) (string, error)
	Confirm(ctx context.Context, message string, defaultValue bool) (bool, error)
	Select(ctx context.Context, message string, options []string) (string, error)
}

// NewSurveyDriver returns the terminal-backed prompt driver.
func NewSurveyDriver() PromptDriver {
	return &surveyDriver{}
}

type surveyDriver struct{}

func (d *surveyDriver) Input(ctx context.Context, message, defaultValue string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{Message: message, Default: defaultValue}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, message string, defaultValue bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{Message: message, Default: defaultValue}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Select(ctx context.Context, message string, options []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Select{Message: message, Options: options}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if err == terminal.InterruptErr {
		return errors.NewValidationError("PROMPT_INTERRUPTED", "setup cancelled")
	}
	return err
}

var backendChoices = []string{"rust", "python", "node", "go"}
var frontendChoices = []string{"none", "react", "vue", "angular"}

var titleCaser = cases.Title(language.English)

// displayName renders a choice for prompt text, e.g. "rust" -> "Rust".
func displayName(choice string) string {
	return titleCaser.String(choice)
}

// choiceValue maps a displayed option back to its config value.
func choiceValue(display string) string {
	return strings.ToLower(display)
}

func displayNames(choices []string) []string {
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = displayName(c)
	}
	return names
}

// RunWizard walks the user through project setup and returns the collected
// options. dir is where the project will be scaffolded.
func RunWizard(ctx context.Context, driver PromptDriver, dir string) (Options, error) {
	opts := Options{Dir: dir}

	name, err := driver.Input(ctx, "Project name:", "")
	if err != nil {
		return opts, err
	}
	if strings.TrimSpace(name) == "" {
		return opts, errors.NewValidationError("MISSING_PROJECT_NAME", "project name is required")
	}
	opts.ProjectName = strings.TrimSpace(name)

	if opts.Description, err = driver.Input(ctx, "Short description:", ""); err != nil {
		return opts, err
	}

	backend, err := driver.Select(ctx,
		fmt.Sprintf("Backend language for %s:", opts.ProjectName),
		displayNames(backendChoices))
	if err != nil {
		return opts, err
	}
	opts.BackendLanguage = choiceValue(backend)

	frontend, err := driver.Select(ctx, "Frontend framework:", displayNames(frontendChoices))
	if err != nil {
		return opts, err
	}
	opts.FrontendFramework = choiceValue(frontend)

	if opts.CopyTemplates, err = driver.Confirm(ctx,
		"Copy the built-in templates into templates/ for customization?", true); err != nil {
		return opts, err
	}

	return opts, nil
}
