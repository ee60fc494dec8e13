package pipeline

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one pattern/value pair of a GlobMap
type Entry[V any] struct {
	Pattern string
	Value   V
}

// GlobMap is an insertion-ordered mapping from glob pattern (or exact key)
// to a value. The zero value is an empty map ready to use.
type GlobMap[V any] struct {
	entries []Entry[V]
}

// NewGlobMap creates a GlobMap from entries, in order. A repeated pattern
// replaces the earlier value without moving it.
func NewGlobMap[V any](entries ...Entry[V]) GlobMap[V] {
	var m GlobMap[V]
	for _, e := range entries {
		m.Set(e.Pattern, e.Value)
	}
	return m
}

// Set stores value under pattern, keeping the position of an existing pattern
func (m *GlobMap[V]) Set(pattern string, value V) {
	for i := range m.entries {
		if m.entries[i].Pattern == pattern {
			m.entries[i].Value = value
			return
		}
	}
	m.entries = append(m.entries, Entry[V]{Pattern: pattern, Value: value})
}

// Get returns the value stored under the exact pattern
func (m GlobMap[V]) Get(pattern string) (V, bool) {
	for _, e := range m.entries {
		if e.Pattern == pattern {
			return e.Value, true
		}
	}
	var zero V
	return zero, false
}

// Has checks if pattern is declared
func (m GlobMap[V]) Has(pattern string) bool {
	_, ok := m.Get(pattern)
	return ok
}

// Len returns the number of declared patterns
func (m GlobMap[V]) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in declaration order
func (m GlobMap[V]) Entries() []Entry[V] {
	out := make([]Entry[V], len(m.entries))
	copy(out, m.entries)
	return out
}

// Clone returns a map with its own entries. A non-nil cloneValue copies
// each value as well, for values that hold references.
func (m GlobMap[V]) Clone(cloneValue func(V) V) GlobMap[V] {
	if m.entries == nil {
		return GlobMap[V]{}
	}
	out := GlobMap[V]{entries: make([]Entry[V], len(m.entries))}
	for i, e := range m.entries {
		if cloneValue != nil {
			e.Value = cloneValue(e.Value)
		}
		out.entries[i] = e
	}
	return out
}

// Patterns returns the declared patterns in order
func (m GlobMap[V]) Patterns() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Pattern
	}
	return out
}

// UnmarshalYAML decodes a YAML (or JSON) mapping, keeping key order.
// A pattern declared twice is an error.
func (m *GlobMap[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		m.entries = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of patterns", node.Line)
	}

	entries := make([]Entry[V], 0, len(node.Content)/2)
	seen := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if first, ok := seen[keyNode.Value]; ok {
			return fmt.Errorf("line %d: pattern %q already declared on line %d", keyNode.Line, keyNode.Value, first)
		}
		seen[keyNode.Value] = keyNode.Line
		var value V
		if err := valueNode.Decode(&value); err != nil {
			return fmt.Errorf("line %d: pattern %q: %w", valueNode.Line, keyNode.Value, err)
		}
		entries = append(entries, Entry[V]{Pattern: keyNode.Value, Value: value})
	}

	*m = NewGlobMap(entries...)
	return nil
}

// MarshalYAML encodes the map as a YAML mapping in declaration order
func (m GlobMap[V]) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m.entries {
		var valueNode yaml.Node
		if err := valueNode.Encode(e.Value); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", e.Pattern, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Pattern},
			&valueNode,
		)
	}
	return node, nil
}

// IsZero lets yaml omitempty drop empty maps
func (m GlobMap[V]) IsZero() bool {
	return len(m.entries) == 0
}
