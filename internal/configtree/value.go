// Package configtree provides the hierarchical value model that drives
// template rendering. A Value is an explicit tagged variant (string, number,
// bool, sequence, mapping, or undefined) so that resolver and renderer logic
// can pattern-match on value kinds instead of relying on runtime coercion.
//
// Values are immutable once constructed. Mappings remember insertion order so
// iteration over a mapping is deterministic, while key lookup stays O(1).
package configtree

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindUndefined covers both "key absent" and explicit nulls; the two are
	// indistinguishable to template code.
	KindUndefined Kind = iota
	KindString
	KindNumber
	KindBool
	KindSequence
	KindMapping
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is an immutable configuration tree node.
type Value struct {
	kind Kind

	str      string
	num      float64
	integral bool
	b        bool

	seq []Value

	keys    []string
	entries map[string]Value
}

// Undefined returns the undefined value. It is also the zero Value.
func Undefined() Value { return Value{} }

// String constructs a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number constructs a floating-point number value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int constructs an integral number value. It renders without a decimal
// point, matching the way YAML integers read in source documents.
func Int(i int64) Value { return Value{kind: KindNumber, num: float64(i), integral: true} }

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Sequence constructs a sequence value from the given elements.
func Sequence(elems ...Value) Value {
	return Value{kind: KindSequence, seq: elems}
}

// Entry is a single mapping key/value pair.
type Entry struct {
	Key   string
	Value Value
}

// Mapping constructs a mapping value. Duplicate keys keep the position of the
// first occurrence and the value of the last.
func Mapping(entries ...Entry) Value {
	v := Value{
		kind:    KindMapping,
		keys:    make([]string, 0, len(entries)),
		entries: make(map[string]Value, len(entries)),
	}
	for _, e := range entries {
		if _, exists := v.entries[e.Key]; !exists {
			v.keys = append(v.keys, e.Key)
		}
		v.entries[e.Key] = e.Value
	}
	return v
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether the value is undefined.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsScalar reports whether the value is a string, number, or bool.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindString, KindNumber, KindBool:
		return true
	default:
		return false
	}
}

// Str returns the string payload. Valid only for KindString.
func (v Value) Str() string { return v.str }

// Num returns the numeric payload. Valid only for KindNumber.
func (v Value) Num() float64 { return v.num }

// BoolVal returns the boolean payload. Valid only for KindBool.
func (v Value) BoolVal() bool { return v.b }

// Elems returns the sequence elements. Valid only for KindSequence.
func (v Value) Elems() []Value { return v.seq }

// Keys returns mapping keys in insertion order. Valid only for KindMapping.
func (v Value) Keys() []string { return v.keys }

// Get looks up a mapping key. Returns false for non-mappings or absent keys.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Undefined(), false
	}
	val, ok := v.entries[key]
	return val, ok
}

// Len returns element count for sequences and entry count for mappings,
// zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.keys)
	default:
		return 0
	}
}

// Truthy implements conditional semantics: false, numeric zero, the empty
// string, empty sequences, empty mappings, and undefined are falsy; every
// other value is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindUndefined:
		return false
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0
	case KindBool:
		return v.b
	case KindSequence:
		return len(v.seq) > 0
	case KindMapping:
		return len(v.keys) > 0
	default:
		return false
	}
}

// StringForm returns the canonical textual form of a scalar: strings
// verbatim, numbers in minimal decimal form, booleans as "true"/"false".
// Non-scalars return the empty string.
func (v Value) StringForm() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.integral {
			return strconv.FormatInt(int64(v.num), 10)
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// pathDelimiter separates segments of a dotted lookup path.
const pathDelimiter = "."

// SplitPath splits a dotted path into its ordered segments.
func SplitPath(path string) []string {
	return strings.Split(path, pathDelimiter)
}
