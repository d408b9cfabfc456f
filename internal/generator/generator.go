// Package generator orchestrates a generation run: it loads the project
// configuration document, derives the rendering context, renders every
// registered template, and writes the resulting artifacts atomically under
// the output directory.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/natefinch/atomic"

	"github.com/pilotgen/pilotgen/internal/config"
	"github.com/pilotgen/pilotgen/internal/configtree"
	"github.com/pilotgen/pilotgen/internal/discovery"
	"github.com/pilotgen/pilotgen/internal/engine"
	"github.com/pilotgen/pilotgen/internal/errors"
	"github.com/pilotgen/pilotgen/internal/logging"
	"github.com/pilotgen/pilotgen/internal/registry"
	"github.com/pilotgen/pilotgen/internal/templatepack"
)

// Generator drives batch artifact generation.
type Generator struct {
	cfg      *config.Config
	registry *registry.TemplateRegistry
	renderer *engine.Renderer
	logger   logging.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRegistry supplies a pre-populated registry instead of letting the
// generator discover templates itself.
func WithRegistry(reg *registry.TemplateRegistry) Option {
	return func(g *Generator) { g.registry = reg }
}

// WithLogger supplies the logger; defaults to a text logger at info level.
func WithLogger(logger logging.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// New creates a Generator for the given tool configuration.
func New(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:      cfg,
		registry: registry.NewTemplateRegistry(),
		renderer: &engine.Renderer{MaxDepth: cfg.Engine.MaxDepth},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logging.NewLogger(logging.DefaultConfig()).WithComponent("generator")
	}
	return g
}

// Registry exposes the generator's template registry, for watch mode and the
// preview server.
func (g *Generator) Registry() *registry.TemplateRegistry {
	return g.registry
}

// LoadTemplates populates the registry from the templates directory, falling
// back to the embedded pack when the directory is absent and embedded use is
// enabled.
func (g *Generator) LoadTemplates(ctx context.Context) error {
	scanner := discovery.NewTemplateScanner(
		g.registry,
		g.cfg.Templates.Suffix,
		g.cfg.Templates.ExcludePatterns,
		g.logger,
	)

	dir := g.cfg.Templates.Dir
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		if err := scanner.ScanDirectory(ctx, dir); err != nil {
			return err
		}
		if g.registry.Count() > 0 {
			return nil
		}
	}

	if !g.cfg.Templates.UseEmbedded {
		return errors.NewConfigError("NO_TEMPLATES",
			fmt.Sprintf("no templates found in %q and embedded pack disabled", dir))
	}

	g.logger.Debug(ctx, "using embedded template pack", "templates_dir", dir)
	return scanner.ScanFS(ctx, templatepack.FS())
}

// LoadContext loads the project configuration document, merges any stack
// config_ref documents, and derives the rendering context.
func (g *Generator) LoadContext(ctx context.Context) (configtree.Value, error) {
	path := g.cfg.Project.ConfigFile
	project, err := configtree.LoadFile(path)
	if err != nil {
		return configtree.Undefined(), err
	}

	var stackConfigs []configtree.Value
	for _, ref := range StackConfigRefs(project, path) {
		extra, err := configtree.LoadFile(ref)
		if err != nil {
			g.logger.Warn(ctx, err, "skipping unreadable stack config", "path", ref)
			continue
		}
		stackConfigs = append(stackConfigs, extra)
	}

	return PrepareContext(project, stackConfigs...), nil
}

// Request selects what a generation run produces.
type Request struct {
	// Groups restricts generation to the named artifact groups
	// ("copilot", "claude", "issue-template"); empty means all.
	Groups []string
	// DryRun renders and validates but writes nothing.
	DryRun bool
}

// Artifact is the outcome of rendering one template.
type Artifact struct {
	Template    string
	OutputPath  string
	Content     []byte
	Diagnostics []engine.Diagnostic
	Written     bool
	Err         error
}

// Result collects per-artifact outcomes for a generation run.
type Result struct {
	Artifacts []Artifact
}

// Failed returns the artifacts that could not be produced.
func (r *Result) Failed() []Artifact {
	var failed []Artifact
	for _, a := range r.Artifacts {
		if a.Err != nil {
			failed = append(failed, a)
		}
	}
	return failed
}

// DiagnosticCount totals non-fatal rendering diagnostics across artifacts.
func (r *Result) DiagnosticCount() int {
	n := 0
	for _, a := range r.Artifacts {
		n += len(a.Diagnostics)
	}
	return n
}

// Generate renders every selected template against the prepared context and
// writes the artifacts. A fatal error in one template is recorded on its
// artifact and does not stop the run; Generate returns an error only when the
// run itself cannot proceed.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if g.registry.Count() == 0 {
		if err := g.LoadTemplates(ctx); err != nil {
			return nil, err
		}
	}

	root, err := g.LoadContext(ctx)
	if err != nil {
		return nil, err
	}

	entries := g.registry.All()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Info.OutputPath < entries[j].Info.OutputPath
	})

	result := &Result{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !groupSelected(req.Groups, entry.Info.Group) {
			continue
		}
		result.Artifacts = append(result.Artifacts, g.generateOne(ctx, entry, root, req.DryRun))
	}
	return result, nil
}

func (g *Generator) generateOne(ctx context.Context, entry *registry.Entry, root configtree.Value, dryRun bool) Artifact {
	artifact := Artifact{
		Template:   entry.Info.Name,
		OutputPath: entry.Info.OutputPath,
	}

	output, diags, err := g.renderer.Render(entry.Template, root)
	artifact.Diagnostics = diags
	if err != nil {
		artifact.Err = err
		g.logger.Error(ctx, err, "template failed to render", "template", entry.Info.Name)
		return artifact
	}
	artifact.Content = []byte(output)

	for _, d := range diags {
		g.logger.Warn(ctx, nil, "rendering diagnostic",
			"template", entry.Info.Name, "detail", d.String())
	}

	if err := ValidateArtifact(entry.Info.OutputPath, artifact.Content); err != nil {
		artifact.Err = err
		g.logger.Error(ctx, err, "generated artifact failed validation",
			"template", entry.Info.Name, "output", entry.Info.OutputPath)
		return artifact
	}

	if dryRun {
		return artifact
	}

	if err := g.write(entry.Info.OutputPath, artifact.Content); err != nil {
		artifact.Err = err
		g.logger.Error(ctx, err, "failed to write artifact", "output", entry.Info.OutputPath)
		return artifact
	}
	artifact.Written = true
	g.logger.Info(ctx, "wrote artifact",
		"output", entry.Info.OutputPath, "bytes", len(artifact.Content))
	return artifact
}

// write places the artifact under the output directory, creating parent
// directories and replacing the file atomically so a crashed run never
// leaves a half-written artifact.
func (g *Generator) write(outputPath string, content []byte) error {
	target := filepath.Join(g.cfg.Output.Dir, outputPath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.NewIOError("OUTPUT_DIR_CREATE",
			fmt.Sprintf("failed to create directory for %q", outputPath), err)
	}
	if err := atomic.WriteFile(target, bytes.NewReader(content)); err != nil {
		return errors.NewIOError("ARTIFACT_WRITE",
			fmt.Sprintf("failed to write %q", outputPath), err)
	}
	return nil
}

// RenderTemplate renders a single registered template by name, for the render
// command and the preview server.
func (g *Generator) RenderTemplate(ctx context.Context, name string) (string, []engine.Diagnostic, error) {
	if g.registry.Count() == 0 {
		if err := g.LoadTemplates(ctx); err != nil {
			return "", nil, err
		}
	}
	entry, ok := g.registry.Get(name)
	if !ok {
		return "", nil, errors.NewRenderError("TEMPLATE_NOT_FOUND",
			fmt.Sprintf("no template named %q", name))
	}
	root, err := g.LoadContext(ctx)
	if err != nil {
		return "", nil, err
	}
	return g.renderer.Render(entry.Template, root)
}

func groupSelected(groups []string, group string) bool {
	if len(groups) == 0 {
		return true
	}
	for _, g := range groups {
		if g == group {
			return true
		}
	}
	return false
}
