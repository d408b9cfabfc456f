// Package discovery walks a template tree, parses each template file, and
// registers the results in a template registry. The tree's layout mirrors the
// output layout: "a/b/name.template.md" renders to "a/b/name.md" under the
// output directory. Files that fail to parse are reported but do not stop
// discovery of the remaining templates.
package discovery

import (
	"context"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pilotgen/pilotgen/internal/engine"
	"github.com/pilotgen/pilotgen/internal/logging"
	"github.com/pilotgen/pilotgen/internal/registry"
	"github.com/pilotgen/pilotgen/internal/types"
)

// TemplateScanner discovers template files and keeps a registry in sync.
type TemplateScanner struct {
	registry *registry.TemplateRegistry
	suffix   string
	exclude  []string
	logger   logging.Logger
}

// NewTemplateScanner creates a scanner feeding the given registry. suffix is
// the marker substring in template file names (e.g. ".template"); files
// without it are ignored.
func NewTemplateScanner(reg *registry.TemplateRegistry, suffix string, exclude []string, logger logging.Logger) *TemplateScanner {
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	return &TemplateScanner{
		registry: reg,
		suffix:   suffix,
		exclude:  exclude,
		logger:   logger.WithComponent("discovery"),
	}
}

// GetRegistry returns the registry this scanner feeds.
func (s *TemplateScanner) GetRegistry() *registry.TemplateRegistry {
	return s.registry
}

// ScanDirectory discovers and registers every template under dir on disk.
func (s *TemplateScanner) ScanDirectory(ctx context.Context, dir string) error {
	return s.scan(ctx, os.DirFS(dir), dir, false)
}

// ScanFS discovers and registers every template in an embedded or otherwise
// virtual filesystem.
func (s *TemplateScanner) ScanFS(ctx context.Context, fsys fs.FS) error {
	return s.scan(ctx, fsys, "", true)
}

// scan walks fsys. Parse failures are collected and returned joined so one
// broken template does not hide the others.
func (s *TemplateScanner) scan(ctx context.Context, fsys fs.FS, dir string, embedded bool) error {
	var failures []string

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && s.excluded(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.Contains(d.Name(), s.suffix) || s.excluded(d.Name()) {
			return nil
		}
		if err := s.scanFile(ctx, fsys, path, dir, embedded); err != nil {
			s.logger.Warn(ctx, err, "template skipped", "path", path)
			failures = append(failures, fmt.Sprintf("%s: %v", path, err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("discovery: walk templates: %w", err)
	}

	if len(failures) > 0 {
		return fmt.Errorf("discovery: %d template(s) failed to parse:\n%s",
			len(failures), strings.Join(failures, "\n"))
	}
	return nil
}

func (s *TemplateScanner) scanFile(ctx context.Context, fsys fs.FS, path, dir string, embedded bool) error {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("discovery: read %s: %w", path, err)
	}

	name := TemplateName(path)
	tmpl, err := engine.Parse(name, string(content))
	if err != nil {
		return err
	}

	info := &types.TemplateInfo{
		Name:       name,
		OutputPath: OutputPath(path, s.suffix),
		Group:      GroupFor(path),
		Hash:       fmt.Sprintf("%x", crc32.ChecksumIEEE(content)),
		Embedded:   embedded,
	}
	if !embedded {
		info.FilePath = filepath.Join(dir, filepath.FromSlash(path))
		if stat, statErr := fs.Stat(fsys, path); statErr == nil {
			info.LastMod = stat.ModTime()
		}
	}

	s.registry.Register(info, tmpl)
	s.logger.Debug(ctx, "template registered", "name", name, "output", info.OutputPath)
	return nil
}

func (s *TemplateScanner) excluded(name string) bool {
	for _, pattern := range s.exclude {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// TemplateName derives the registry name from a template path:
// ".github/copilot-instructions.template.md" becomes "copilot-instructions".
func TemplateName(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	if idx := strings.Index(base, "."); idx > 0 {
		return base[:idx]
	}
	return base
}

// OutputPath strips the template suffix marker from a slash-separated
// relative path, so ".claude/commands/review.template.md" renders to
// ".claude/commands/review.md".
func OutputPath(rel, suffix string) string {
	return filepath.FromSlash(strings.Replace(rel, suffix, "", 1))
}

// GroupFor classifies a template path for the artifact selection flags.
func GroupFor(path string) string {
	lower := strings.ToLower(filepath.ToSlash(path))
	switch {
	case strings.Contains(lower, "claude"):
		return "claude"
	case strings.Contains(lower, "issue"):
		return "issue-template"
	default:
		return "copilot"
	}
}
