// Package scaffolding sets up a new project for artifact generation: it
// writes a starter project configuration document and can seed a local
// templates directory from the embedded pack for customization.
package scaffolding

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pilotgen/pilotgen/internal/errors"
	"github.com/pilotgen/pilotgen/internal/logging"
	"github.com/pilotgen/pilotgen/internal/templatepack"
)

// Options describes the project to scaffold.
type Options struct {
	// Dir is the directory to scaffold into.
	Dir string
	// ConfigFile is the project configuration file name to create.
	ConfigFile  string
	ProjectName string
	Description string
	// BackendLanguage is one of rust, python, node, go.
	BackendLanguage string
	// FrontendFramework is one of none, react, vue, angular.
	FrontendFramework string
	// CopyTemplates seeds a local templates/ directory from the embedded
	// pack so the project can customize artifacts.
	CopyTemplates bool
	// Force overwrites files that already exist.
	Force bool
}

// ProjectScaffolder creates starter files for a new project.
type ProjectScaffolder struct {
	logger logging.Logger
}

// NewProjectScaffolder creates a scaffolder.
func NewProjectScaffolder(logger logging.Logger) *ProjectScaffolder {
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	return &ProjectScaffolder{logger: logger.WithComponent("scaffolding")}
}

// CreateProject writes the starter project configuration and, when requested,
// copies the embedded template pack into templates/ under opts.Dir.
func (s *ProjectScaffolder) CreateProject(ctx context.Context, opts Options) error {
	if opts.ProjectName == "" {
		return errors.NewValidationError("MISSING_PROJECT_NAME", "project name is required")
	}
	if opts.ConfigFile == "" {
		opts.ConfigFile = "project-config.yml"
	}

	configPath := filepath.Join(opts.Dir, opts.ConfigFile)
	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return errors.NewValidationError("CONFIG_EXISTS",
			fmt.Sprintf("%s already exists (use --force to overwrite)", configPath))
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return errors.NewIOError("SCAFFOLD_DIR_CREATE", "failed to create project directory", err)
	}

	content := starterConfig(opts)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return errors.NewIOError("CONFIG_WRITE", "failed to write project configuration", err)
	}
	s.logger.Info(ctx, "wrote project configuration", "path", configPath)

	if opts.CopyTemplates {
		if err := s.copyTemplatePack(ctx, filepath.Join(opts.Dir, "templates"), opts.Force); err != nil {
			return err
		}
	}
	return nil
}

// copyTemplatePack materializes the embedded pack on disk so templates can be
// edited. Existing files are preserved unless force is set.
func (s *ProjectScaffolder) copyTemplatePack(ctx context.Context, dir string, force bool) error {
	fsys := templatepack.FS()
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		target := filepath.Join(dir, filepath.FromSlash(path))
		if _, statErr := os.Stat(target); statErr == nil && !force {
			s.logger.Debug(ctx, "template already exists, skipping", "path", target)
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return err
		}
		s.logger.Debug(ctx, "template copied", "path", target)
		return nil
	})
	if err != nil {
		return errors.NewIOError("TEMPLATE_COPY", "failed to copy template pack", err)
	}
	s.logger.Info(ctx, "template pack copied", "dir", dir)
	return nil
}

// starterConfig renders the project configuration document. It is assembled
// as text rather than marshalled so section order and comments survive.
func starterConfig(opts Options) string {
	description := opts.Description
	if description == "" {
		description = "TODO: describe the project"
	}

	content := fmt.Sprintf(`# Project configuration for pilotgen.
# Values here flatten into UPPERCASE template keys: project.name -> PROJECT_NAME.
project:
  name: %s
  description: %s

stack:
  backend:
    language: %s
`, yamlScalar(opts.ProjectName), yamlScalar(description), backendOrDefault(opts.BackendLanguage))

	if opts.FrontendFramework != "" && opts.FrontendFramework != "none" {
		content += fmt.Sprintf(`  frontend:
    language: typescript
    framework: %s
`, opts.FrontendFramework)
	}

	content += `
architecture:
  pattern: clean-architecture
  principles:
    - separation of concerns
    - explicit dependencies

quality:
  test_coverage_threshold: 90

target_users: []
value_propositions: []
`
	return content
}

func backendOrDefault(lang string) string {
	if lang == "" {
		return "rust"
	}
	return lang
}

// yamlScalar quotes a value when it could be misread as YAML syntax.
func yamlScalar(s string) string {
	for _, r := range s {
		switch r {
		case ':', '#', '{', '}', '[', ']', ',', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
			return fmt.Sprintf("%q", s)
		}
	}
	return s
}
