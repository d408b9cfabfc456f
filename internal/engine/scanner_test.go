package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotgen/pilotgen/internal/errors"
)

func TestScannerPlainText(t *testing.T) {
	tokens, err := NewScanner("no directives here").Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenText, tokens[0].Kind)
	assert.Equal(t, "no directives here", tokens[0].Text)
	assert.Equal(t, 0, tokens[0].Offset)
}

func TestScannerEmptyInput(t *testing.T) {
	tokens, err := NewScanner("").Scan()
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestScannerDirectiveShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  TokenKind
		path  string
	}{
		{"variable", "{{NAME}}", TokenOpenVar, "NAME"},
		{"dotted variable", "{{project.name}}", TokenOpenVar, "project.name"},
		{"this", "{{this}}", TokenOpenVar, "this"},
		{"if", "{{#if SHOW}}", TokenOpenIf, "SHOW"},
		{"each", "{{#each ITEMS}}", TokenOpenEach, "ITEMS"},
		{"close if", "{{/if}}", TokenCloseIf, ""},
		{"close each", "{{/each}}", TokenCloseEach, ""},
		{"padded variable", "{{ NAME }}", TokenOpenVar, "NAME"},
		{"padded if", "{{ #if SHOW }}", TokenOpenIf, "SHOW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := NewScanner(tt.input).Scan()
			require.NoError(t, err)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.kind, tokens[0].Kind)
			assert.Equal(t, tt.path, tokens[0].Path)
		})
	}
}

func TestScannerMixedContent(t *testing.T) {
	tokens, err := NewScanner("Hello {{NAME}}!{{#if X}}y{{/if}}").Scan()
	require.NoError(t, err)

	kinds := make([]TokenKind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{
		TokenText, TokenOpenVar, TokenText, TokenOpenIf, TokenText, TokenCloseIf,
	}, kinds)

	assert.Equal(t, "Hello ", tokens[0].Text)
	assert.Equal(t, "NAME", tokens[1].Path)
	assert.Equal(t, 6, tokens[1].Offset)
	assert.Equal(t, "!", tokens[2].Text)
}

func TestScannerMalformedDirectives(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated", "text {{NAME"},
		{"empty", "{{}}"},
		{"spaces only", "{{   }}"},
		{"if without path", "{{#if}}"},
		{"each without path", "{{#each}}"},
		{"unknown keyword", "{{#unless X}}"},
		{"path with space", "{{TWO WORDS}}"},
		{"empty segment", "{{a..b}}"},
		{"trailing dot", "{{a.}}"},
		{"illegal rune", "{{na*me}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScanner(tt.input).Scan()
			require.Error(t, err)
			assert.Equal(t, errors.CodeMalformedDirective, errors.CodeOf(err))
		})
	}
}

func TestScannerMalformedOffset(t *testing.T) {
	_, err := NewScanner("abc\ndef {{bad path}}").Scan()
	require.Error(t, err)

	var pe *errors.PilotError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 8, pe.Offset)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, 5, pe.Column)
}

func TestScannerRestartable(t *testing.T) {
	const input = "{{A}} and {{B}}"
	first, err := NewScanner(input).Scan()
	require.NoError(t, err)
	second, err := NewScanner(input).Scan()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
