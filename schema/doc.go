// Package schema holds the logical data model: a document of named entities,
// their typed attributes, and the cardinality-tagged relationships between
// them.
//
// The building blocks live in its subpackages:
//
//   - [field]: attribute types and attributes
//   - [edge]: cardinalities and relationships
//
// All maps of the model keep the key order of the source document. The
// order is observable: generated enums, models and fields follow it.
//
//	entities:
//	  User:
//	    description: A person using the system
//	    attributes:
//	      email: {type: String, required: true, primary_key: true}
//	    relationships:
//	      tasks: {target: Task, cardinality: "1:N"}
//	  Task:
//	    attributes:
//	      title: {type: String, required: true}
package schema
