package configtree

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromYAML decodes a YAML document into a Value. Decoding goes through
// yaml.Node rather than map[string]any so mapping key order survives; the
// renderer iterates mappings in document order.
func FromYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Undefined(), fmt.Errorf("configtree: invalid YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Undefined(), nil
	}
	return fromNode(doc.Content[0])
}

// LoadFile reads and decodes a YAML file into a Value.
func LoadFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Undefined(), fmt.Errorf("configtree: read %s: %w", path, err)
	}
	v, err := FromYAML(data)
	if err != nil {
		return Undefined(), fmt.Errorf("configtree: %s: %w", path, err)
	}
	return v, nil
}

func fromNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return fromNode(node.Alias)

	case yaml.ScalarNode:
		return fromScalar(node)

	case yaml.SequenceNode:
		elems := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := fromNode(child)
			if err != nil {
				return Undefined(), err
			}
			elems = append(elems, v)
		}
		return Sequence(elems...), nil

	case yaml.MappingNode:
		entries := make([]Entry, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return Undefined(), fmt.Errorf("configtree: non-scalar mapping key at line %d", keyNode.Line)
			}
			v, err := fromNode(node.Content[i+1])
			if err != nil {
				return Undefined(), err
			}
			entries = append(entries, Entry{Key: keyNode.Value, Value: v})
		}
		return Mapping(entries...), nil

	default:
		return Undefined(), fmt.Errorf("configtree: unsupported YAML node kind %d at line %d", node.Kind, node.Line)
	}
}

func fromScalar(node *yaml.Node) (Value, error) {
	switch node.Tag {
	case "!!null":
		return Undefined(), nil
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			// YAML 1.1 spellings like "yes"/"off" reach here.
			var parsed bool
			if err := node.Decode(&parsed); err != nil {
				return Undefined(), fmt.Errorf("configtree: invalid bool %q at line %d", node.Value, node.Line)
			}
			return Bool(parsed), nil
		}
		return Bool(b), nil
	case "!!int":
		i, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return Undefined(), fmt.Errorf("configtree: invalid integer %q at line %d", node.Value, node.Line)
		}
		return Int(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return Undefined(), fmt.Errorf("configtree: invalid float %q at line %d", node.Value, node.Line)
		}
		return Number(f), nil
	default:
		return String(node.Value), nil
	}
}

// Merge returns a mapping containing base's entries overlaid with extra's.
// Keys unique to base keep their base position; keys from extra are appended
// or overwrite in place. Non-mapping inputs are returned as-is (extra wins
// when both are non-mappings).
func Merge(base, extra Value) Value {
	if base.Kind() != KindMapping {
		return extra
	}
	if extra.Kind() != KindMapping {
		return base
	}
	entries := make([]Entry, 0, base.Len()+extra.Len())
	for _, k := range base.Keys() {
		v, _ := base.Get(k)
		if ev, ok := extra.Get(k); ok {
			v = ev
		}
		entries = append(entries, Entry{Key: k, Value: v})
	}
	for _, k := range extra.Keys() {
		if _, ok := base.Get(k); ok {
			continue
		}
		v, _ := extra.Get(k)
		entries = append(entries, Entry{Key: k, Value: v})
	}
	return Mapping(entries...)
}
