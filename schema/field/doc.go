// Package field defines the attribute types of the logical model.
//
//	type: String    // short text
//	type: Text      // long text
//	type: Integer
//	type: Float
//	type: Boolean
//	type: Date      // calendar date without time
//	type: DateTime
//	type: Enum      // closed set of string options
//
// Unknown type names decode to TypeInvalid and keep the raw name in
// Attribute.RawType, so validation can report them with their location.
package field
