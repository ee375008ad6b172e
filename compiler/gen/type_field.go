package gen

import "github.com/syssam/lmgen/schema/field"

// =============================================================================
// Field methods
// =============================================================================

// StructField returns the exported struct member of the field.
func (f *Field) StructField() string { return structField(f.Ident) }

// IsEnum reports if the field is typed by an enum.
func (f *Field) IsEnum() bool { return f.Enum != nil }

// IsTime reports if the field holds a timestamp or a date.
func (f *Field) IsTime() bool { return f.Type == field.TypeDate || f.Type == field.TypeDateTime }

// IsText reports if the field holds long text.
func (f *Field) IsText() bool { return f.Attr.Type == field.TypeText }

// IsDate reports if the field holds a date without time of day.
func (f *Field) IsDate() bool { return f.Attr.Type == field.TypeDate }

// IsFlattened reports if the field comes from relationship attributes.
func (f *Field) IsFlattened() bool { return f.Relationship != "" }

// Description returns the attribute description.
func (f *Field) Description() string { return f.Attr.Description }

// Note returns the attribute note.
func (f *Field) Note() string { return f.Attr.Note }

// Comment returns the description followed by the note, one per line.
func (f *Field) Comment() string {
	switch d, n := f.Description(), f.Note(); {
	case d == "":
		return n
	case n == "":
		return d
	default:
		return d + "\n" + n
	}
}
