package generator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotgen/pilotgen/internal/configtree"
)

func projectFromYAML(t *testing.T, src string) configtree.Value {
	t.Helper()
	v, err := configtree.FromYAML([]byte(src))
	require.NoError(t, err)
	return v
}

func get(t *testing.T, ctx configtree.Value, key string) configtree.Value {
	t.Helper()
	v, ok := ctx.Get(key)
	require.True(t, ok, "context key %q missing", key)
	return v
}

func TestPrepareContextFlattensSections(t *testing.T) {
	project := projectFromYAML(t, `
project:
  name: demo
  description: a demo project
quality:
  linting:
    strict: true
`)
	ctx := PrepareContext(project)

	assert.Equal(t, "demo", get(t, ctx, "PROJECT_NAME").Str())
	assert.Equal(t, "a demo project", get(t, ctx, "PROJECT_DESCRIPTION").Str())
	assert.True(t, get(t, ctx, "QUALITY_LINTING_STRICT").BoolVal())
}

func TestPrepareContextKeepsStackNested(t *testing.T) {
	project := projectFromYAML(t, `
stack:
  backend:
    language: rust
    framework: axum
`)
	ctx := PrepareContext(project)

	stack := get(t, ctx, "STACK")
	require.Equal(t, configtree.KindMapping, stack.Kind())
	backend, ok := stack.Get("backend")
	require.True(t, ok)
	lang, ok := backend.Get("language")
	require.True(t, ok)
	assert.Equal(t, "rust", lang.Str())

	_, flattened := ctx.Get("STACK_BACKEND_LANGUAGE")
	assert.False(t, flattened, "stack section must not be flattened")
}

func TestPrepareContextStackFlags(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		truthy []string
		falsy  []string
	}{
		{
			name: "rust backend react frontend",
			yaml: `
stack:
  backend:
    language: rust
  frontend:
    language: typescript
    framework: react
`,
			truthy: []string{"RUST_BACKEND", "REACT_FRONTEND", "NODE_FRONTEND"},
			falsy:  []string{"PYTHON_BACKEND", "NODE_BACKEND", "VUE_FRONTEND", "ANGULAR_FRONTEND"},
		},
		{
			name: "python backend vue frontend",
			yaml: `
stack:
  backend:
    language: python
  frontend:
    language: javascript
    framework: vue
`,
			truthy: []string{"PYTHON_BACKEND", "VUE_FRONTEND", "NODE_FRONTEND"},
			falsy:  []string{"RUST_BACKEND", "REACT_FRONTEND", "ANGULAR_FRONTEND"},
		},
		{
			name:   "no stack at all",
			yaml:   `project: {name: bare}`,
			truthy: nil,
			falsy:  []string{"RUST_BACKEND", "PYTHON_BACKEND", "NODE_BACKEND", "REACT_FRONTEND", "NODE_FRONTEND"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := PrepareContext(projectFromYAML(t, tt.yaml))
			for _, key := range tt.truthy {
				assert.True(t, get(t, ctx, key).BoolVal(), "%s should be true", key)
			}
			for _, key := range tt.falsy {
				assert.False(t, get(t, ctx, key).BoolVal(), "%s should be false", key)
			}
		})
	}
}

func TestPrepareContextJoinsPrinciples(t *testing.T) {
	project := projectFromYAML(t, `
architecture:
  principles:
    - separation of concerns
    - dependency inversion
`)
	ctx := PrepareContext(project)
	assert.Equal(t, "separation of concerns, dependency inversion",
		get(t, ctx, "PRINCIPLES").Str())
}

func TestPrepareContextIterationKeyDefaults(t *testing.T) {
	ctx := PrepareContext(projectFromYAML(t, `project: {name: demo}`))

	for _, key := range []string{"TARGET_USERS", "VALUE_PROPOSITIONS", "TIMELINE_PHASES", "PERFORMANCE_TARGETS"} {
		v := get(t, ctx, key)
		assert.Equal(t, configtree.KindSequence, v.Kind(), key)
		assert.Zero(t, v.Len(), key)
	}
}

func TestPrepareContextTimelinePhases(t *testing.T) {
	project := projectFromYAML(t, `
timeline:
  phases:
    - name: mvp
    - name: launch
`)
	ctx := PrepareContext(project)
	phases := get(t, ctx, "TIMELINE_PHASES")
	require.Equal(t, configtree.KindSequence, phases.Kind())
	assert.Equal(t, 2, phases.Len())
}

func TestPrepareContextDefaults(t *testing.T) {
	t.Run("rust stack", func(t *testing.T) {
		ctx := PrepareContext(projectFromYAML(t, `
stack:
  backend:
    language: rust
`))
		assert.Equal(t, "90", get(t, ctx, "TEST_COVERAGE").StringForm())
		assert.Equal(t, "clean-architecture", get(t, ctx, "ARCHITECTURE_PATTERN").Str())
		assert.Equal(t, "rust", get(t, ctx, "PRIMARY_LANGUAGE").Str())
		assert.Equal(t, "struct/function", get(t, ctx, "COMPONENT_TYPE").Str())
		assert.Equal(t, "traits", get(t, ctx, "INTERFACE_PATTERN").Str())
		assert.Equal(t, "cargo test", get(t, ctx, "TEST_COMMAND").Str())
		assert.Equal(t, "cargo clippy", get(t, ctx, "LINT_COMMAND").Str())
	})

	t.Run("node stack", func(t *testing.T) {
		ctx := PrepareContext(projectFromYAML(t, `
stack:
  backend:
    language: node
`))
		assert.Equal(t, "class/function", get(t, ctx, "COMPONENT_TYPE").Str())
		assert.Equal(t, "interfaces", get(t, ctx, "INTERFACE_PATTERN").Str())
		assert.Equal(t, "npm test", get(t, ctx, "TEST_COMMAND").Str())
	})

	t.Run("explicit values win over defaults", func(t *testing.T) {
		ctx := PrepareContext(projectFromYAML(t, `
quality:
  test_coverage_threshold: 75
architecture:
  pattern: hexagonal
`))
		assert.Equal(t, "75", get(t, ctx, "TEST_COVERAGE").StringForm())
		assert.Equal(t, "hexagonal", get(t, ctx, "ARCHITECTURE_PATTERN").Str())
	})
}

func TestPrepareContextMergesStackConfigs(t *testing.T) {
	project := projectFromYAML(t, `project: {name: demo}`)
	extra := projectFromYAML(t, `
BUILD_COMMAND: make build
CUSTOM_KEY: custom value
`)
	ctx := PrepareContext(project, extra)

	assert.Equal(t, "make build", get(t, ctx, "BUILD_COMMAND").Str())
	assert.Equal(t, "custom value", get(t, ctx, "CUSTOM_KEY").Str())
}

func TestStackConfigRefs(t *testing.T) {
	project := projectFromYAML(t, `
stack:
  backend:
    language: rust
    config_ref: configs/rust.yml
  frontend:
    framework: react
    config_ref: /abs/react.yml
`)
	refs := StackConfigRefs(project, filepath.Join("proj", "project-config.yml"))
	require.Len(t, refs, 2)
	assert.Equal(t, filepath.Join("proj", "configs", "rust.yml"), refs[0])
	assert.Equal(t, "/abs/react.yml", refs[1])
}

func TestStackConfigRefsNone(t *testing.T) {
	project := projectFromYAML(t, `project: {name: demo}`)
	assert.Empty(t, StackConfigRefs(project, "project-config.yml"))
}
