package engine

import (
	"testing"

	"github.com/pilotgen/pilotgen/internal/configtree"
)

// FuzzScanner exercises the scanner and parser with arbitrary template text.
// Both must either succeed or return a structured error; they must never
// panic or loop.
func FuzzScanner(f *testing.F) {
	f.Add("plain text")
	f.Add("{{NAME}}")
	f.Add("{{#if SHOW}}x{{/if}}")
	f.Add("{{#each ITEMS}}{{this}}{{/each}}")
	f.Add("{{#each A}}{{#if B}}{{C.D}}{{/if}}{{/each}}")
	f.Add("{{")
	f.Add("}}")
	f.Add("{{}}")
	f.Add("{{/if}}")
	f.Add("{{#if A}}")
	f.Add("a{{b}}c{{d}}e")

	f.Fuzz(func(t *testing.T, input string) {
		tmpl, err := Parse("fuzz", input)
		if err != nil {
			return
		}
		root := configtree.Mapping(
			configtree.Entry{Key: "NAME", Value: configtree.String("x")},
			configtree.Entry{Key: "ITEMS", Value: configtree.Sequence(configtree.Int(1))},
		)
		out, _, err := tmpl.Render(root)
		if err != nil {
			return
		}
		if len(out) > len(input)*2+64 {
			// A single-element loop cannot blow up output size; catch
			// accidental duplication bugs.
			t.Errorf("output grew unexpectedly: %d bytes from %d input bytes", len(out), len(input))
		}
	})
}
