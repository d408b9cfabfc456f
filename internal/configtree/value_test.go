package configtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"zero value", Value{}, KindUndefined},
		{"undefined", Undefined(), KindUndefined},
		{"string", String("x"), KindString},
		{"number", Number(1.5), KindNumber},
		{"int", Int(3), KindNumber},
		{"bool", Bool(true), KindBool},
		{"sequence", Sequence(), KindSequence},
		{"mapping", Mapping(), KindMapping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.v.Kind())
		})
	}
}

func TestStringForm(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", String("hello"), "hello"},
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"float", Number(2.5), "2.5"},
		{"whole float", Number(3), "3"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"undefined", Undefined(), ""},
		{"sequence", Sequence(Int(1)), ""},
		{"mapping", Mapping(Entry{Key: "a", Value: Int(1)}), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.StringForm())
		})
	}
}

func TestTruthiness(t *testing.T) {
	assert.False(t, Undefined().Truthy())
	assert.False(t, Bool(false).Truthy())
	assert.False(t, Int(0).Truthy())
	assert.False(t, Number(0).Truthy())
	assert.False(t, String("").Truthy())
	assert.False(t, Sequence().Truthy())
	assert.False(t, Mapping().Truthy())

	assert.True(t, Bool(true).Truthy())
	assert.True(t, Int(-1).Truthy())
	assert.True(t, String(" ").Truthy())
	assert.True(t, Sequence(Bool(false)).Truthy())
	assert.True(t, Mapping(Entry{Key: "k", Value: Undefined()}).Truthy())
}

func TestMappingOrderAndLookup(t *testing.T) {
	m := Mapping(
		Entry{Key: "b", Value: Int(1)},
		Entry{Key: "a", Value: Int(2)},
		Entry{Key: "c", Value: Int(3)},
	)
	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "2", v.StringForm())

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestMappingDuplicateKeys(t *testing.T) {
	m := Mapping(
		Entry{Key: "a", Value: Int(1)},
		Entry{Key: "b", Value: Int(2)},
		Entry{Key: "a", Value: Int(3)},
	)
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, _ := m.Get("a")
	assert.Equal(t, "3", v.StringForm())
}

func TestGetOnNonMapping(t *testing.T) {
	for _, v := range []Value{Undefined(), String("x"), Int(1), Sequence(Int(1))} {
		_, ok := v.Get("key")
		assert.False(t, ok)
	}
}
