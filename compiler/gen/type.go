package gen

import (
	"github.com/syssam/lmgen/schema"
	"github.com/syssam/lmgen/schema/field"
)

// The following types and their exported methods are used by the dialects
// to render a resolved model.
type (
	// Graph holds the resolved nodes of a logical model and the enums
	// derived from its attributes.
	Graph struct {
		*Config
		// Model is the source model. It is never mutated by the graph.
		Model *schema.Model
		// Nodes are the model types in emission order: the source entities
		// in declaration order, followed by the join types of N:M
		// relationships in creation order.
		Nodes []*Type
		// Enums are the enum types in emission order.
		Enums []*Enum
		nodes map[string]*Type
	}

	// Type represents one model of the generated schema.
	Type struct {
		// Name holds the entity name in the source model. For join types it
		// is the generated name.
		Name string
		// Ident holds the sanitized model identifier.
		Ident string
		// Description of the entity.
		Description string
		// Fields holds the attribute fields in declaration order, including
		// the attributes flattened from relationships.
		Fields []*Field
		// Edges holds the relation fields of this type in generation order.
		Edges []*Edge
		// Uniques holds the composite unique constraints of the type, as
		// lists of field identifiers.
		Uniques [][]string
		// Join indicates that the type was synthesized to resolve an N:M
		// relationship. JoinOf is the relationship edge owned by the source
		// entity.
		Join   bool
		JoinOf *Edge
		// entity is a private copy of the source entity. Flattened
		// relationship attributes are added to it, and recorded in
		// flattened with the relationship they come from.
		entity    *schema.Entity
		flattened map[string]string
	}

	// Field holds an attribute field of a type.
	Field struct {
		// Name is the attribute name in the source model.
		Name string
		// Ident is the sanitized field identifier.
		Ident string
		// Type is the effective attribute type. Enum attributes without
		// options are degraded to TypeString.
		Type field.Type
		// Attr is the source attribute.
		Attr *field.Attribute
		// Enum is set for enum attributes.
		Enum *Enum
		// Optional indicates that the field may hold no value.
		Optional bool
		// Unique is set for primary key attributes.
		Unique bool
		// Relationship names the relationship this attribute was flattened
		// from. Empty for attributes declared on the entity.
		Relationship string
	}

	// Edge is a relation field of a type. Every relationship of the source
	// model produces two edges, one on each participating type, sharing the
	// same relation name.
	Edge struct {
		// Name holds the field identifier of the edge.
		Name string
		// Type holds a reference to the type this edge is directed to.
		Type *Type
		// Owner holds the type the edge is declared on.
		Owner *Type
		// Relation is the relation name shared by both sides.
		Relation string
		// Rel is the relation type seen from the owner.
		Rel Rel
		// Unique indicates a single reference. Otherwise the edge is a list.
		Unique bool
		// Optional indicates that a unique edge may be empty.
		Optional bool
		// Inverse indicates that the edge was synthesized on the target side
		// of a relationship.
		Inverse bool
		// Ref points to the edge on the other side of the relation.
		Ref *Edge
		// FK is set on the side holding the foreign key.
		FK *ForeignKey
		// Relationship is the source relationship name and Cardinality its
		// cardinality.
		Relationship string
		Cardinality  string
		// Description of the source relationship.
		Description string
	}

	// ForeignKey holds the scalar field that stores the referenced id.
	ForeignKey struct {
		// Name of the foreign-key field.
		Name string
		// Optional indicates the key may be null.
		Optional bool
		// Unique indicates a one-to-one key.
		Unique bool
		// References is the referenced field of the target type.
		References string
	}

	// Enum holds an enum type derived from an enum attribute.
	Enum struct {
		// Name is the enum identifier.
		Name string
		// Owner is the type declaring the attribute and Field its name.
		Owner *Type
		Field string
		// Values in option order.
		Values []*EnumValue
		// Description of the attribute.
		Description string
	}

	// EnumValue is a member of an enum.
	EnumValue struct {
		// Name is the member identifier.
		Name string
		// Value is the option literal of the source model.
		Value string
	}
)

// Index maps type names to the edges generated for them, in generation
// order. It is the output of the relationship resolution and is consumed
// once by the graph.
type Index map[string][]*Edge

// System fields present on every generated model.
const (
	IDField        = "id"
	CreatedAtField = "createdAt"
	UpdatedAtField = "updatedAt"
	DeletedAtField = "deletedAt"
)

// SystemFields returns the system field identifiers in emission order.
func SystemFields() []string {
	return []string{IDField, CreatedAtField, UpdatedAtField, DeletedAtField}
}

var systemField = names(SystemFields()...)

// Type returns the type with the given source name.
func (g *Graph) Type(name string) (*Type, bool) {
	t, ok := g.nodes[name]
	return t, ok
}

// Enum returns the enum with the given identifier.
func (g *Graph) Enum(name string) (*Enum, bool) {
	for _, e := range g.Enums {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Field returns the attribute field with the given identifier.
func (t *Type) Field(ident string) (*Field, bool) {
	for _, f := range t.Fields {
		if f.Ident == ident {
			return f, true
		}
	}
	return nil, false
}

// Edge returns the edge with the given identifier.
func (t *Type) Edge(ident string) (*Edge, bool) {
	for _, e := range t.Edges {
		if e.Name == ident {
			return e, true
		}
	}
	return nil, false
}

// ForeignKeys returns the foreign keys held by the type in edge order.
func (t *Type) ForeignKeys() []*ForeignKey {
	var fks []*ForeignKey
	for _, e := range t.Edges {
		if e.FK != nil {
			fks = append(fks, e.FK)
		}
	}
	return fks
}

// Enums returns the enums declared by the type's fields.
func (t *Type) Enums() []*Enum {
	var enums []*Enum
	for _, f := range t.Fields {
		if f.Enum != nil {
			enums = append(enums, f.Enum)
		}
	}
	return enums
}

// Mapped reports if the member identifier differs from its literal, so the
// literal has to be mapped explicitly.
func (v *EnumValue) Mapped() bool { return v.Name != v.Value }
