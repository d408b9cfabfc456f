package engine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotgen/pilotgen/internal/errors"
)

func TestParseFlatTemplate(t *testing.T) {
	tmpl, err := Parse("flat", "Hello {{NAME}}!")
	require.NoError(t, err)

	want := []Directive{
		Literal{Text: "Hello "},
		VariableRef{Path: "NAME", Offset: 6},
		Literal{Text: "!"},
	}
	if diff := cmp.Diff(want, tmpl.Nodes); diff != "" {
		t.Errorf("node mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNestedBlocks(t *testing.T) {
	tmpl, err := Parse("nested", "{{#each USERS}}{{#if ACTIVE}}{{NAME}}{{/if}}{{/each}}")
	require.NoError(t, err)

	require.Len(t, tmpl.Nodes, 1)
	loop, ok := tmpl.Nodes[0].(Loop)
	require.True(t, ok, "top node should be a Loop")
	assert.Equal(t, "USERS", loop.Path)

	require.Len(t, loop.Body, 1)
	cond, ok := loop.Body[0].(Conditional)
	require.True(t, ok, "loop body should hold a Conditional")
	assert.Equal(t, "ACTIVE", cond.Path)

	require.Len(t, cond.Body, 1)
	ref, ok := cond.Body[0].(VariableRef)
	require.True(t, ok)
	assert.Equal(t, "NAME", ref.Path)
}

func TestParseSiblingBlocks(t *testing.T) {
	tmpl, err := Parse("siblings", "{{#if A}}x{{/if}}{{#each B}}y{{/each}}")
	require.NoError(t, err)
	require.Len(t, tmpl.Nodes, 2)

	_, isCond := tmpl.Nodes[0].(Conditional)
	_, isLoop := tmpl.Nodes[1].(Loop)
	assert.True(t, isCond)
	assert.True(t, isLoop)
}

func TestParseUnclosedBlock(t *testing.T) {
	_, err := Parse("unclosed", "{{#if A}}x")
	require.Error(t, err)

	var pe *errors.PilotError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, errors.CodeUnclosedDirective, pe.Code)
	assert.Equal(t, "unclosed", pe.Template)
	assert.Equal(t, "A", pe.Path)
	assert.Contains(t, pe.Message, "if")
	assert.Contains(t, pe.Message, `"A"`)
}

func TestParseUnclosedNamesInnermostBlock(t *testing.T) {
	_, err := Parse("deep", "{{#if A}}{{#each B}}x{{/each}}")
	require.Error(t, err)

	var pe *errors.PilotError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "A", pe.Path)
}

func TestParseUnmatchedClose(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"close without open", "x{{/each}}"},
		{"close if without open", "{{/if}}"},
		{"kind mismatch if-each", "{{#if A}}{{/each}}"},
		{"kind mismatch each-if", "{{#each A}}{{/if}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("t", tt.input)
			require.Error(t, err)
			assert.Equal(t, errors.CodeUnmatchedClose, errors.CodeOf(err))
		})
	}
}

func TestParseScanErrorCarriesTemplateName(t *testing.T) {
	_, err := Parse("broken.md", "{{not valid}}")
	require.Error(t, err)

	var pe *errors.PilotError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "broken.md", pe.Template)
	assert.Equal(t, errors.CodeMalformedDirective, pe.Code)
}

func TestParseIdempotent(t *testing.T) {
	const input = "{{#each A}}{{this}}{{/each}} tail"
	first, err := Parse("t", input)
	require.NoError(t, err)
	second, err := Parse("t", input)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Nodes, second.Nodes); diff != "" {
		t.Errorf("parse not idempotent (-first +second):\n%s", diff)
	}
}

func TestParseDeeplyNestedWithinGuard(t *testing.T) {
	// The parser has no depth limit of its own; nesting is bounded only at
	// render time.
	depth := 100
	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteString("{{#if A}}")
	}
	for i := 0; i < depth; i++ {
		b.WriteString("{{/if}}")
	}
	_, err := Parse("deep", b.String())
	assert.NoError(t, err)
}
