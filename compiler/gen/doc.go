// Package gen resolves logical models into a graph of types and renders the
// graph with pluggable dialects.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Logical model (schema.Model, loaded from YAML)
//	        ↓
//	   NewGraph (relationship, field and enum resolution)
//	        ↓
//	   Graph (Types, Edges, Enums)
//	        ↓
//	   Dialect (prisma, go, ...)
//	        ↓
//	   Writer (formatted output files)
//
// # Key Types
//
//   - Graph: the resolved nodes and enums of one model
//   - Type: a generated model, either a source entity or an N:M join type
//   - Field: an attribute of a type, flattened relationship attributes included
//   - Edge: one side of a relationship (O2O, O2M, M2O, M2M) and its foreign key
//   - Enum: an enum derived from an attribute's options
//   - Config: global configuration for generation
//
// # Relationships
//
// Every relationship yields two edges sharing a relation name. The foreign
// key lives on the target for 1:N and 0:N, and on the declaring entity for
// 0:1 and 1:1. N:M relationships are resolved through a join type named
// after the declaring entity and the relationship, holding required source
// and target references and a unique constraint over both.
//
// # Naming
//
// Identifiers are PascalCase for models and enums and camelCase for fields.
// Reserved words get a trailing underscore. Attributes named after a system
// field (id, createdAt, updatedAt, deletedAt) are escaped the same way.
// Names that end up generated twice in one scope are reported as
// lmgen.NamingCollisionError.
//
// # Error Handling
//
// Model errors use the taxonomy of the lmgen package:
//
//   - lmgen.StructuralError: malformed model
//   - lmgen.ReferentialError: relationship to a missing entity
//   - lmgen.NamingCollisionError: duplicate generated identifiers
//
// Generator errors are defined here:
//
//   - ConfigError: invalid option
//   - GenerationError: dialect or writer failure
//
// Example error handling:
//
//	g, err := gen.NewGraph(cfg, m)
//	switch {
//	case lmgen.IsReferential(err):
//		// fix the relationship target
//	case err != nil:
//		return err
//	}
//
// # Configuration
//
// Use functional options:
//
//	cfg, err := gen.NewConfig(
//		gen.WithDatasource("postgresql", "DATABASE_URL"),
//		gen.WithFeatures(gen.FeatureDocComments),
//		gen.WithInverseNaming(gen.InverseInflect),
//	)
//
// # Feature Flags
//
// Optional output is controlled by feature flags:
//
//   - FeatureDocComments: emit descriptions and notes as doc comments
//   - FeatureRelationshipRegistry: append the UserDefinedRelationship model
package gen
