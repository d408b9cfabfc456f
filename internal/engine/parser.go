package engine

import (
	stderrors "errors"
	"fmt"

	"github.com/pilotgen/pilotgen/internal/errors"
)

// Directive is a node of the parsed template tree.
type Directive interface {
	directive()
}

// Literal is passthrough text.
type Literal struct {
	Text string
}

// VariableRef substitutes the value at a dotted path.
type VariableRef struct {
	Path   string
	Offset int
}

// Conditional renders its body when the path resolves to a truthy value.
// There is no else form.
type Conditional struct {
	Path   string
	Offset int
	Body   []Directive
}

// Loop renders its body once per element of the sequence at the path, with
// each element pushed as a new scope layer.
type Loop struct {
	Path   string
	Offset int
	Body   []Directive
}

func (Literal) directive()     {}
func (VariableRef) directive() {}
func (Conditional) directive() {}
func (Loop) directive()        {}

// Template is a parsed template: an ordered top-level directive sequence.
// It is immutable after Parse and safe to render concurrently; callers may
// cache and reuse it across many configuration trees.
type Template struct {
	Name  string
	Nodes []Directive

	// source retained for line/column derivation in render-time errors.
	source string
}

// blockKind distinguishes open frames during parsing.
type blockKind int

const (
	blockIf blockKind = iota
	blockEach
)

func (k blockKind) String() string {
	if k == blockEach {
		return "each"
	}
	return "if"
}

// frame is an open block whose body is still being collected.
type frame struct {
	kind   blockKind
	path   string
	offset int
	body   []Directive
}

// Parse scans and parses template text into a Template. All errors are fatal
// for this template only and carry the template name and location; a returned
// Template is always fully built.
func Parse(name, text string) (*Template, error) {
	scanner := NewScanner(text)

	// stack[0] is a synthetic root frame holding the top-level body.
	stack := []frame{{}}

	for {
		tok, ok, err := scanner.Next()
		if err != nil {
			var pe *errors.PilotError
			if stderrors.As(err, &pe) {
				return nil, pe.WithTemplate(name)
			}
			return nil, err
		}
		if !ok {
			break
		}

		top := &stack[len(stack)-1]
		switch tok.Kind {
		case TokenText:
			top.body = append(top.body, Literal{Text: tok.Text})

		case TokenOpenVar:
			top.body = append(top.body, VariableRef{Path: tok.Path, Offset: tok.Offset})

		case TokenOpenIf:
			stack = append(stack, frame{kind: blockIf, path: tok.Path, offset: tok.Offset})

		case TokenOpenEach:
			stack = append(stack, frame{kind: blockEach, path: tok.Path, offset: tok.Offset})

		case TokenCloseIf, TokenCloseEach:
			want := blockIf
			if tok.Kind == TokenCloseEach {
				want = blockEach
			}
			if len(stack) == 1 {
				return nil, unmatchedErr(name, text, want, tok.Offset)
			}
			open := stack[len(stack)-1]
			if open.kind != want {
				return nil, unmatchedErr(name, text, want, tok.Offset)
			}
			stack = stack[:len(stack)-1]
			parent := &stack[len(stack)-1]
			if open.kind == blockIf {
				parent.body = append(parent.body, Conditional{Path: open.path, Offset: open.offset, Body: open.body})
			} else {
				parent.body = append(parent.body, Loop{Path: open.path, Offset: open.offset, Body: open.body})
			}
		}
	}

	if len(stack) > 1 {
		open := stack[len(stack)-1]
		line, column := lineColumn(text, open.offset)
		return nil, errors.NewParseError(errors.CodeUnclosedDirective,
			fmt.Sprintf("unclosed #%s block for path %q", open.kind, open.path)).
			WithTemplate(name).
			WithPath(open.path).
			WithLocation(open.offset, line, column)
	}

	return &Template{Name: name, Nodes: stack[0].body, source: text}, nil
}

func unmatchedErr(name, text string, kind blockKind, offset int) error {
	line, column := lineColumn(text, offset)
	return errors.NewParseError(errors.CodeUnmatchedClose,
		fmt.Sprintf("close directive /%s has no matching open block", kind)).
		WithTemplate(name).
		WithLocation(offset, line, column)
}
