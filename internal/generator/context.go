package generator

import (
	"path/filepath"
	"strings"

	"github.com/pilotgen/pilotgen/internal/configtree"
)

// Sections kept whole during flattening: templates iterate or descend into
// these rather than reading flattened keys.
var unflattenedSections = map[string]bool{
	"stack":    true,
	"timeline": true,
	"users":    true,
}

// Keys templates iterate over; they default to empty sequences so loops render
// to nothing instead of tripping missing-variable handling on every project.
var iterationKeys = []string{
	"TARGET_USERS",
	"VALUE_PROPOSITIONS",
	"TIMELINE_PHASES",
	"PERFORMANCE_TARGETS",
}

// contextBuilder accumulates mapping entries with overwrite and
// set-if-absent semantics before freezing into an immutable Value.
type contextBuilder struct {
	entries []configtree.Entry
	seen    map[string]bool
}

func newContextBuilder() *contextBuilder {
	return &contextBuilder{seen: make(map[string]bool)}
}

func (b *contextBuilder) set(key string, v configtree.Value) {
	b.entries = append(b.entries, configtree.Entry{Key: key, Value: v})
	b.seen[key] = true
}

func (b *contextBuilder) setDefault(key string, v configtree.Value) {
	if b.seen[key] {
		return
	}
	b.set(key, v)
}

func (b *contextBuilder) build() configtree.Value {
	return configtree.Mapping(b.entries...)
}

// PrepareContext derives the rendering context from a project configuration
// tree. Sections are flattened into UPPERCASE underscore-joined keys
// (project.name becomes PROJECT_NAME), stack-detection flags are added, and
// template-facing defaults are filled in.
//
// stackConfigs are extra mappings loaded from stack config_ref documents;
// their top-level entries merge into the context under their own keys.
func PrepareContext(project configtree.Value, stackConfigs ...configtree.Value) configtree.Value {
	b := newContextBuilder()

	flatten(b, project, "")

	backendLang := stringAt(project, "stack", "backend", "language")
	frontendLang := stringAt(project, "stack", "frontend", "language")
	frontendFramework := stringAt(project, "stack", "frontend", "framework")

	b.set("RUST_BACKEND", configtree.Bool(backendLang == "rust"))
	b.set("PYTHON_BACKEND", configtree.Bool(backendLang == "python"))
	b.set("NODE_BACKEND", configtree.Bool(backendLang == "node" || backendLang == "nodejs"))
	b.set("REACT_FRONTEND", configtree.Bool(frontendLang == "typescript" && frontendFramework == "react"))
	b.set("VUE_FRONTEND", configtree.Bool(frontendFramework == "vue"))
	b.set("ANGULAR_FRONTEND", configtree.Bool(frontendFramework == "angular"))
	b.set("NODE_FRONTEND", configtree.Bool(frontendLang == "javascript" || frontendLang == "typescript"))

	for _, extra := range stackConfigs {
		if extra.Kind() != configtree.KindMapping {
			continue
		}
		for _, key := range extra.Keys() {
			v, _ := extra.Get(key)
			b.set(key, v)
		}
	}

	formatSpecialFields(b, project)

	for _, key := range iterationKeys {
		b.setDefault(key, configtree.Sequence())
	}

	applyDefaults(b, project, backendLang)

	return b.build()
}

// flatten walks mapping sections recursively, joining key paths with "_" and
// uppercasing them. Sections in unflattenedSections and all non-mapping
// values are stored whole under their flattened key.
func flatten(b *contextBuilder, section configtree.Value, prefix string) {
	if section.Kind() != configtree.KindMapping {
		return
	}
	for _, key := range section.Keys() {
		value, _ := section.Get(key)
		contextKey := strings.ToUpper(key)
		if prefix != "" {
			contextKey = prefix + "_" + strings.ToUpper(key)
		}
		if value.Kind() == configtree.KindMapping && !unflattenedSections[key] {
			flatten(b, value, contextKey)
			continue
		}
		b.set(contextKey, value)
	}
}

// formatSpecialFields reshapes structured fields templates consume as text.
func formatSpecialFields(b *contextBuilder, project configtree.Value) {
	// architecture.principles renders inline, comma-separated.
	if principles := valueAt(project, "architecture", "principles"); principles.Kind() == configtree.KindSequence {
		parts := make([]string, 0, principles.Len())
		for _, p := range principles.Elems() {
			if p.IsScalar() {
				parts = append(parts, p.StringForm())
			}
		}
		b.set("PRINCIPLES", configtree.String(strings.Join(parts, ", ")))
	}

	// timeline.phases feeds the TIMELINE_PHASES iteration key.
	if phases := valueAt(project, "timeline", "phases"); phases.Kind() == configtree.KindSequence {
		b.set("TIMELINE_PHASES", phases)
	}
}

// applyDefaults fills template-facing keys that projects rarely specify.
func applyDefaults(b *contextBuilder, project configtree.Value, backendLang string) {
	rust := backendLang == "rust"

	coverage := valueAt(project, "quality", "test_coverage_threshold")
	if coverage.IsUndefined() {
		coverage = configtree.Int(90)
	}
	b.setDefault("TEST_COVERAGE", coverage)

	pattern := stringAt(project, "architecture", "pattern")
	if pattern == "" {
		pattern = "clean-architecture"
	}
	b.setDefault("ARCHITECTURE_PATTERN", configtree.String(pattern))

	primary := backendLang
	if primary == "" {
		primary = "rust"
	}
	b.setDefault("PRIMARY_LANGUAGE", configtree.String(primary))

	b.setDefault("COMPONENT_TYPE", configtree.String(pick(rust, "struct/function", "class/function")))
	b.setDefault("INTERFACE_PATTERN", configtree.String(pick(rust, "traits", "interfaces")))

	b.setDefault("BUILD_COMMAND", configtree.String(pick(rust, "cargo check", "npm run build")))
	b.setDefault("TEST_COMMAND", configtree.String(pick(rust, "cargo test", "npm test")))
	b.setDefault("BENCHMARK_COMMAND", configtree.String(pick(rust, "cargo bench", "npm run bench")))
	b.setDefault("COVERAGE_COMMAND", configtree.String(pick(rust, "cargo tarpaulin", "npm run coverage")))
	b.setDefault("FORMAT_COMMAND", configtree.String(pick(rust, "cargo fmt", "npm run format")))
	b.setDefault("LINT_COMMAND", configtree.String(pick(rust, "cargo clippy", "npm run lint")))

	b.setDefault("PRD_DOCUMENT_PATH", pathDefault(b, "PRD_REFERENCE", "docs/prd.md"))
	b.setDefault("TECHNICAL_SPEC_PATH", pathDefault(b, "TECHNICAL_SPEC_REFERENCE", "docs/technical-spec.md"))
	b.setDefault("ARCHITECTURE_LAYERS_OPTIONS", configtree.String("entities/use_cases/adapters/frameworks"))
	b.setDefault("EXAMPLE_SOURCE_PATH", configtree.String("src/feature"))
	b.setDefault("EXAMPLE_TEST_PATH", configtree.String("tests/feature"))
	b.setDefault("EXAMPLE_BENCH_PATH", configtree.String("benches/feature"))
}

// pathDefault prefers a reference key the project already set.
func pathDefault(b *contextBuilder, refKey, fallback string) configtree.Value {
	if b.seen[refKey] {
		// Find the latest value for refKey; last write wins.
		for i := len(b.entries) - 1; i >= 0; i-- {
			if b.entries[i].Key == refKey {
				return b.entries[i].Value
			}
		}
	}
	return configtree.String(fallback)
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func valueAt(v configtree.Value, path ...string) configtree.Value {
	current := v
	for _, key := range path {
		next, ok := current.Get(key)
		if !ok {
			return configtree.Undefined()
		}
		current = next
	}
	return current
}

func stringAt(v configtree.Value, path ...string) string {
	val := valueAt(v, path...)
	if val.Kind() != configtree.KindString {
		return ""
	}
	return val.Str()
}

// StackConfigRefs returns the config_ref paths named under stack.backend and
// stack.frontend, resolved relative to the directory of the project
// configuration file.
func StackConfigRefs(project configtree.Value, projectConfigPath string) []string {
	baseDir := filepath.Dir(projectConfigPath)
	var refs []string
	for _, side := range []string{"backend", "frontend"} {
		ref := stringAt(project, "stack", side, "config_ref")
		if ref == "" {
			continue
		}
		if !filepath.IsAbs(ref) {
			ref = filepath.Join(baseDir, ref)
		}
		refs = append(refs, ref)
	}
	return refs
}
