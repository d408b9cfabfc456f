package engine

import (
	"fmt"
	"strings"

	"github.com/pilotgen/pilotgen/internal/configtree"
	"github.com/pilotgen/pilotgen/internal/errors"
)

// DefaultMaxDepth bounds block nesting during rendering.
const DefaultMaxDepth = 64

// thisBinding is the identifier bound to scalar loop elements.
const thisBinding = "this"

// DiagnosticKind classifies non-fatal render anomalies.
type DiagnosticKind int

const (
	// MissingVariable marks a value-position path that resolved to undefined.
	MissingVariable DiagnosticKind = iota
	// TypeMismatch marks a container in value position, or a loop over a
	// non-sequence.
	TypeMismatch
)

// String returns the string representation of the DiagnosticKind.
func (k DiagnosticKind) String() string {
	switch k {
	case MissingVariable:
		return "missing_variable"
	case TypeMismatch:
		return "type_mismatch"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal, structured report accompanying render output.
type Diagnostic struct {
	Kind   DiagnosticKind
	Path   string
	Offset int
	Line   int
	Column int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s at %d:%d", d.Kind, d.Path, d.Line, d.Column)
}

// Renderer evaluates parsed templates against a configuration tree. The zero
// value is usable; MaxDepth defaults to DefaultMaxDepth. A Renderer holds no
// per-render state, so one instance may serve concurrent renders.
type Renderer struct {
	MaxDepth int
}

// Render walks the template against root and returns the output text plus
// accumulated diagnostics. Diagnostics never abort the render; the only fatal
// render error is tripping the nesting-depth guard.
func (r *Renderer) Render(t *Template, root configtree.Value) (string, []Diagnostic, error) {
	maxDepth := r.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	scope := configtree.NewScope(root)
	var out strings.Builder
	var diags []Diagnostic
	depth := 0

	// Explicit work stack instead of call-stack recursion so the depth guard
	// is enforced uniformly regardless of host stack limits.
	type workItem struct {
		node Directive

		enter     bool // increment depth, optionally push layer
		exit      bool // decrement depth, optionally pop layer
		withScope bool
		layer     configtree.Value
		path      string // offending path for depth errors
		offset    int
	}

	var stack []workItem
	pushNodes := func(nodes []Directive) {
		for i := len(nodes) - 1; i >= 0; i-- {
			stack = append(stack, workItem{node: nodes[i]})
		}
	}
	pushNodes(t.Nodes)

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.enter {
			depth++
			if depth > maxDepth {
				line, column := lineColumn(t.source, item.offset)
				return "", nil, errors.NewRenderError(errors.CodeNestingTooDeep,
					fmt.Sprintf("directive nesting exceeds %d levels at path %q", maxDepth, item.path)).
					WithTemplate(t.Name).
					WithPath(item.path).
					WithLocation(item.offset, line, column)
			}
			if item.withScope {
				scope.Push(item.layer)
			}
			continue
		}
		if item.exit {
			depth--
			if item.withScope {
				scope.Pop()
			}
			continue
		}

		switch node := item.node.(type) {
		case Literal:
			out.WriteString(node.Text)

		case VariableRef:
			value := scope.Resolve(node.Path)
			switch {
			case value.IsUndefined():
				diags = append(diags, r.diagnostic(t, MissingVariable, node.Path, node.Offset))
			case value.IsScalar():
				out.WriteString(value.StringForm())
			default:
				diags = append(diags, r.diagnostic(t, TypeMismatch, node.Path, node.Offset))
			}

		case Conditional:
			// Undefined is falsy here without a diagnostic: absent optional
			// flags are idiomatic in configuration files.
			if !scope.Resolve(node.Path).Truthy() {
				continue
			}
			stack = append(stack, workItem{exit: true})
			pushNodes(node.Body)
			stack = append(stack, workItem{enter: true, path: node.Path, offset: node.Offset})

		case Loop:
			value := scope.Resolve(node.Path)
			if value.IsUndefined() {
				// Absent list keys are skipped silently; only a present
				// non-sequence is a mismatch.
				continue
			}
			if value.Kind() != configtree.KindSequence {
				diags = append(diags, r.diagnostic(t, TypeMismatch, node.Path, node.Offset))
				continue
			}
			elems := value.Elems()
			for i := len(elems) - 1; i >= 0; i-- {
				stack = append(stack, workItem{exit: true, withScope: true})
				pushNodes(node.Body)
				stack = append(stack, workItem{
					enter:     true,
					withScope: true,
					layer:     iterationLayer(elems[i]),
					path:      node.Path,
					offset:    node.Offset,
				})
			}
		}
	}

	return out.String(), diags, nil
}

// iterationLayer turns a loop element into a scope layer. Mapping elements
// are the layer themselves, so their keys shadow same-named outer keys;
// anything else is bound to the "this" identifier.
func iterationLayer(elem configtree.Value) configtree.Value {
	if elem.Kind() == configtree.KindMapping {
		return elem
	}
	return configtree.Mapping(configtree.Entry{Key: thisBinding, Value: elem})
}

func (r *Renderer) diagnostic(t *Template, kind DiagnosticKind, path string, offset int) Diagnostic {
	line, column := lineColumn(t.source, offset)
	return Diagnostic{Kind: kind, Path: path, Offset: offset, Line: line, Column: column}
}

// Render parses nothing and mutates nothing on t; it is shorthand for a
// default Renderer.
func (t *Template) Render(root configtree.Value) (string, []Diagnostic, error) {
	var r Renderer
	return r.Render(t, root)
}
