package edge

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/lmgen/schema/field"
	"github.com/syssam/lmgen/schema/internal/ordered"
)

// Cardinality is the closed set of relationship multiplicities.
type Cardinality string

// List of cardinalities.
const (
	// OneToMany is a required "one E has many T" relationship.
	OneToMany Cardinality = "1:N"
	// ZeroToOne is an optional reference from E to a single T.
	ZeroToOne Cardinality = "0:1"
	// ZeroToMany is "one E has many T" where T may exist without E.
	ZeroToMany Cardinality = "0:N"
	// OneToOne is a required reference from E to exactly one T.
	OneToOne Cardinality = "1:1"
	// ManyToMany is resolved through a synthesized join entity.
	ManyToMany Cardinality = "N:M"
)

// Cardinalities returns all known cardinalities.
func Cardinalities() []Cardinality {
	return []Cardinality{OneToOne, OneToMany, ZeroToOne, ZeroToMany, ManyToMany}
}

// Valid reports if c is a known cardinality.
func (c Cardinality) Valid() bool {
	switch c {
	case OneToOne, OneToMany, ZeroToOne, ZeroToMany, ManyToMany:
		return true
	}
	return false
}

// ParseCardinality returns the cardinality matching s.
func ParseCardinality(s string) (Cardinality, error) {
	if c := Cardinality(s); c.Valid() {
		return c, nil
	}
	names := make([]string, 0, 5)
	for _, c := range Cardinalities() {
		names = append(names, string(c))
	}
	return "", fmt.Errorf("must be one of %s", strings.Join(names, ", "))
}

// UnmarshalYAML implements yaml.Unmarshaler. The scalar text is kept as
// written, unknown values are reported by the validator.
func (c *Cardinality) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d:%d: cardinality must be a scalar", node.Line, node.Column)
	}
	*c = Cardinality(node.Value)
	return nil
}

// Relationship is a directed, cardinality-tagged link from its owning
// entity to a target entity.
type Relationship struct {
	Target      string            `yaml:"target"`
	Description string            `yaml:"description,omitempty"`
	Cardinality Cardinality       `yaml:"cardinality"`
	Attributes  *field.Attributes `yaml:"attributes,omitempty"`
}

// Clone returns a deep copy of the relationship.
func (r *Relationship) Clone() *Relationship {
	if r == nil {
		return nil
	}
	c := *r
	if r.Attributes != nil {
		c.Attributes = field.CloneAttributes(r.Attributes)
	}
	return &c
}

// Relationships is an insertion-ordered set of named relationships.
type Relationships = ordered.Map[*Relationship]

// NewRelationships returns an ordered relationship map from name/relationship pairs.
func NewRelationships(kv ...any) *Relationships {
	return ordered.New[*Relationship](kv...)
}
