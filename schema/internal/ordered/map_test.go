package ordered

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMapOrder(t *testing.T) {
	var m Map[int]
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)
	m.Set("alpha", 4)

	require.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
	v, ok := m.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, 4, v)
	assert.False(t, m.Has("missing"))
}

func TestMapNil(t *testing.T) {
	var m *Map[string]
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	_, ok := m.Get("a")
	assert.False(t, ok)
	m.Range(func(string, string) bool {
		t.Fatal("unexpected entry")
		return true
	})
}

func TestMapClone(t *testing.T) {
	type item struct{ N int }
	m := New[*item]("a", &item{1}, "b", &item{2})
	c := m.Clone(func(v *item) *item {
		cp := *v
		return &cp
	})
	v, _ := c.Get("a")
	v.N = 100
	orig, _ := m.Get("a")
	assert.Equal(t, 1, orig.N)
	assert.Equal(t, []string{"a", "b"}, c.Keys())
}

func TestMapYAML(t *testing.T) {
	t.Run("Order", func(t *testing.T) {
		var doc struct {
			Items *Map[string] `yaml:"items"`
		}
		err := yaml.Unmarshal([]byte("items:\n  zulu: z\n  alpha: a\n  mike: m\n"), &doc)
		require.NoError(t, err)
		assert.Equal(t, []string{"zulu", "alpha", "mike"}, doc.Items.Keys())

		out, err := yaml.Marshal(doc)
		require.NoError(t, err)
		assert.Equal(t, "items:\n    zulu: z\n    alpha: a\n    mike: m\n", string(out))
	})

	t.Run("Duplicate", func(t *testing.T) {
		var m Map[string]
		err := yaml.Unmarshal([]byte("a: 1\nb: 2\na: 3\n"), &m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate key "a"`)
	})

	t.Run("NotMapping", func(t *testing.T) {
		var m Map[string]
		err := yaml.Unmarshal([]byte("- a\n- b\n"), &m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected a mapping, got sequence")
	})
}
