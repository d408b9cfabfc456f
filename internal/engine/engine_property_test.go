//go:build property
// +build property

package engine

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/pilotgen/pilotgen/internal/configtree"
)

// TestEngineProperties tests invariant properties of the scanner, parser, and
// renderer.
func TestEngineProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property 1: directive-free text passes through unchanged regardless of
	// the configuration tree.
	properties.Property("passthrough identity", prop.ForAll(
		func(text string) bool {
			if strings.Contains(text, "{{") || strings.Contains(text, "}}") {
				return true // Skip inputs that contain delimiter characters
			}
			tmpl, err := Parse("prop", text)
			if err != nil {
				return false
			}
			out, diags, err := tmpl.Render(configtree.Mapping())
			return err == nil && len(diags) == 0 && out == text
		},
		gen.AnyString(),
	))

	// Property 2: substituting a defined variable yields exactly its value.
	properties.Property("substitution exactness", prop.ForAll(
		func(value string) bool {
			tmpl, err := Parse("prop", "{{KEY}}")
			if err != nil {
				return false
			}
			root := configtree.Mapping(configtree.Entry{Key: "KEY", Value: configtree.String(value)})
			out, diags, err := tmpl.Render(root)
			return err == nil && len(diags) == 0 && out == value
		},
		gen.AnyString(),
	))

	// Property 3: rendering is deterministic — the same template and tree
	// always produce identical output and diagnostics.
	properties.Property("render determinism", prop.ForAll(
		func(items []string) bool {
			tmpl, err := Parse("prop", "{{#each ITEMS}}{{this}};{{/each}}")
			if err != nil {
				return false
			}
			elems := make([]configtree.Value, 0, len(items))
			for _, item := range items {
				elems = append(elems, configtree.String(item))
			}
			root := configtree.Mapping(configtree.Entry{Key: "ITEMS", Value: configtree.Sequence(elems...)})

			out1, diags1, err1 := tmpl.Render(root)
			out2, diags2, err2 := tmpl.Render(root)
			if err1 != nil || err2 != nil {
				return false
			}
			return out1 == out2 && len(diags1) == len(diags2)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	// Property 4: loop output preserves sequence order and length.
	properties.Property("loop order preservation", prop.ForAll(
		func(items []string) bool {
			for _, item := range items {
				if item == "" || strings.ContainsAny(item, "{};") {
					return true // Skip ambiguous separators
				}
			}
			tmpl, err := Parse("prop", "{{#each ITEMS}}{{this}};{{/each}}")
			if err != nil {
				return false
			}
			elems := make([]configtree.Value, 0, len(items))
			for _, item := range items {
				elems = append(elems, configtree.String(item))
			}
			root := configtree.Mapping(configtree.Entry{Key: "ITEMS", Value: configtree.Sequence(elems...)})
			out, _, err := tmpl.Render(root)
			if err != nil {
				return false
			}
			want := ""
			for _, item := range items {
				want += item + ";"
			}
			return out == want
		},
		gen.SliceOf(gen.AlphaString()),
	))

	// Property 5: scanning never panics and either yields tokens or a
	// structured error, for arbitrary input.
	properties.Property("scanner totality", prop.ForAll(
		func(input string) bool {
			tokens, err := NewScanner(input).Scan()
			if err != nil {
				return true
			}
			// Reassembling literal runs and markers must cover the input length.
			total := 0
			for _, tok := range tokens {
				if tok.Kind == TokenText {
					total += len(tok.Text)
				}
			}
			return total <= len(input)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
