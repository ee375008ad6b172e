// Package ordered provides an insertion-ordered map that decodes from YAML
// mapping nodes and keeps the source key order.
package ordered

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Map is a string keyed map that remembers insertion order.
// The zero value is an empty map ready to use.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// New returns a map holding the given key/value pairs in order.
// It panics on an odd number of arguments.
func New[V any](kv ...any) *Map[V] {
	if len(kv)%2 != 0 {
		panic("ordered: odd number of key/value arguments")
	}
	m := &Map[V]{}
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1].(V))
	}
	return m
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map[V]) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	var zero V
	if m == nil || m.values == nil {
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key exists.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. New keys are appended to the order,
// existing keys keep their position.
func (m *Map[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Range calls fn for each entry in order until fn returns false.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Clone returns a copy of the map. Values are copied with clone when it
// is not nil, and assigned as is otherwise.
func (m *Map[V]) Clone(clone func(V) V) *Map[V] {
	c := &Map[V]{}
	m.Range(func(k string, v V) bool {
		if clone != nil {
			v = clone(v)
		}
		c.Set(k, v)
		return true
	})
	return c
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Map[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d:%d: expected a mapping, got %s", node.Line, node.Column, kindName(node.Kind))
	}
	m.keys, m.values = nil, make(map[string]V, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		kn, vn := node.Content[i], node.Content[i+1]
		var key string
		if err := kn.Decode(&key); err != nil {
			return fmt.Errorf("line %d:%d: invalid key: %w", kn.Line, kn.Column, err)
		}
		if _, ok := m.values[key]; ok {
			return fmt.Errorf("line %d:%d: duplicate key %q", kn.Line, kn.Column, key)
		}
		var v V
		if err := vn.Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		m.Set(key, v)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler and keeps the key order.
func (m *Map[V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	var err error
	m.Range(func(k string, v V) bool {
		var vn yaml.Node
		if err = vn.Encode(v); err != nil {
			return false
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &vn)
		return true
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "mapping"
	}
}
