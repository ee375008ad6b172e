package gen

import "strings"

// =============================================================================
// Edge methods
// =============================================================================

// M2M indicates if this edge is M2M edge.
func (e Edge) M2M() bool { return e.Rel == M2M }

// M2O indicates if this edge is M2O edge.
func (e Edge) M2O() bool { return e.Rel == M2O }

// O2M indicates if this edge is O2M edge.
func (e Edge) O2M() bool { return e.Rel == O2M }

// O2O indicates if this edge is O2O edge.
func (e Edge) O2O() bool { return e.Rel == O2O }

// List reports if the edge holds many references.
func (e Edge) List() bool { return !e.Unique }

// OwnFK indicates if the foreign-key of this edge resides in the owner type.
func (e Edge) OwnFK() bool { return e.FK != nil }

// StructField returns the exported struct member of the edge.
func (e Edge) StructField() string { return structField(e.Name) }

// StructField returns the exported struct member of the foreign key.
func (fk ForeignKey) StructField() string { return structField(fk.Name) }

// TypeName returns the exported Go type name of the model.
func (t *Type) TypeName() string { return strings.TrimSuffix(t.Ident, "_") }

// TypeName returns the exported Go type name of the enum.
func (e *Enum) TypeName() string { return strings.TrimSuffix(e.Name, "_") }

// Rel is a relation type of an edge.
type Rel int

// Relation types.
const (
	Unk Rel = iota // Unknown.
	O2O            // One to one / has one.
	O2M            // One to many / has many.
	M2O            // Many to one (inverse perspective for O2M).
	M2M            // Many to many.
)

// String returns the relation name.
func (r Rel) String() string {
	s := "Unknown"
	switch r {
	case O2O:
		s = "O2O"
	case O2M:
		s = "O2M"
	case M2O:
		s = "M2O"
	case M2M:
		s = "M2M"
	}
	return s
}
