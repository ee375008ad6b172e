package schema

import (
	"github.com/syssam/lmgen/schema/edge"
	"github.com/syssam/lmgen/schema/field"
	"github.com/syssam/lmgen/schema/internal/ordered"
)

// Model is a logical data model document.
type Model struct {
	SchemaVersion string    `yaml:"schema_version"`
	ModelName     string    `yaml:"model_name"`
	Description   string    `yaml:"description,omitempty"`
	Entities      *Entities `yaml:"entities"`
}

// Entity is a named record type of the model.
type Entity struct {
	Description   string              `yaml:"description,omitempty"`
	Attributes    *field.Attributes   `yaml:"attributes"`
	Relationships *edge.Relationships `yaml:"relationships,omitempty"`
}

// Entities is an insertion-ordered set of named entities.
type Entities = ordered.Map[*Entity]

// NewEntities returns an ordered entity map from name/entity pairs.
func NewEntities(kv ...any) *Entities {
	return ordered.New[*Entity](kv...)
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	c := &Entity{Description: e.Description}
	if e.Attributes != nil {
		c.Attributes = field.CloneAttributes(e.Attributes)
	} else {
		c.Attributes = field.NewAttributes()
	}
	if e.Relationships != nil {
		c.Relationships = e.Relationships.Clone((*edge.Relationship).Clone)
	}
	return c
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	c := *m
	if m.Entities != nil {
		c.Entities = m.Entities.Clone((*Entity).Clone)
	}
	return &c
}

// Entity returns the entity declared under name.
func (m *Model) Entity(name string) (*Entity, bool) {
	if m == nil || m.Entities == nil {
		return nil, false
	}
	return m.Entities.Get(name)
}
