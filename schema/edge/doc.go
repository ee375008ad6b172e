// Package edge defines relationships between entities of the logical model.
//
// A relationship is declared once, on its source entity. The compiler derives
// the inverse side:
//
//	1:N  E has many T, every T belongs to one E
//	0:N  E has many T, a T may exist without E
//	0:1  E optionally references one T
//	1:1  E references exactly one T
//	N:M  resolved through a synthesized join entity
//
// Relationship attributes ("edge properties") are flattened onto the entity
// that holds the foreign key, or onto the join entity for N:M.
package edge
