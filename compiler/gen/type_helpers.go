package gen

import (
	"strings"
)

// =============================================================================
// Helper functions
// =============================================================================

// structField returns the exported Go name of a generated identifier. The
// "Id" suffix of foreign keys is written as an initialism.
//
//	datasetsProjectId => DatasetsProjectID
//	enum_             => Enum
func structField(ident string) string {
	s := Pascal(ident)
	if base, ok := strings.CutSuffix(s, "Id"); ok {
		return base + "ID"
	}
	return s
}

// fieldIdent returns the field identifier of an attribute or relationship.
// Names taken by the system fields get the reserved-word escape.
func fieldIdent(name string) string {
	id := SafeCamel(name)
	if _, ok := systemField[id]; ok {
		return id + "_"
	}
	return id
}

// edgeIdent returns the identifier of the forward edge of a relationship.
func edgeIdent(name string) string {
	return fieldIdent(name)
}
