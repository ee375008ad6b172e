// Package lmgen holds the error taxonomy shared by the loader, the graph
// builder and the schema dialects.
package lmgen

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for the compilation phases.
var (
	// ErrStructural is returned when the logical model is malformed.
	ErrStructural = errors.New("lmgen: structural error")

	// ErrReferential is returned when a relationship targets an entity
	// that is not declared in the model.
	ErrReferential = errors.New("lmgen: referential integrity error")

	// ErrNamingCollision is returned when two generated identifiers resolve
	// to the same name in the same scope.
	ErrNamingCollision = errors.New("lmgen: naming collision")
)

// StructuralError represents a malformed node of the logical model.
type StructuralError struct {
	Path    string // Slash separated path of the offending node, e.g. /entities/User.
	Message string
	Cause   error
}

// Error returns the error string.
func (e *StructuralError) Error() string {
	var b strings.Builder
	b.WriteString("lmgen: structural error")
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *StructuralError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches StructuralError.
// This allows errors.Is(structErr, ErrStructural) to return true.
func (e *StructuralError) Is(err error) bool {
	return err == ErrStructural
}

// NewStructuralError returns a new StructuralError for the given path.
func NewStructuralError(path, message string) *StructuralError {
	return &StructuralError{Path: path, Message: message}
}

// IsStructural returns true if the error is a StructuralError.
func IsStructural(err error) bool {
	if err == nil {
		return false
	}
	var e *StructuralError
	return errors.As(err, &e) || errors.Is(err, ErrStructural)
}

// ReferentialError represents a relationship whose target does not exist.
type ReferentialError struct {
	Entity       string // Entity declaring the relationship.
	Relationship string // Relationship name.
	Target       string // Missing target entity.
}

// Error returns the error string.
func (e *ReferentialError) Error() string {
	return fmt.Sprintf("lmgen: broken link in [%s]: relationship %q targets missing entity %q", e.Entity, e.Relationship, e.Target)
}

// Is reports whether the target error matches ReferentialError.
func (e *ReferentialError) Is(err error) bool {
	return err == ErrReferential
}

// NewReferentialError returns a new ReferentialError.
func NewReferentialError(entity, relationship, target string) *ReferentialError {
	return &ReferentialError{Entity: entity, Relationship: relationship, Target: target}
}

// IsReferential returns true if the error is a ReferentialError.
func IsReferential(err error) bool {
	if err == nil {
		return false
	}
	var e *ReferentialError
	return errors.As(err, &e) || errors.Is(err, ErrReferential)
}

// NamingCollisionError represents two generated identifiers that resolve to
// the same name inside one scope (a model, an enum, the schema itself, or an
// output directory).
type NamingCollisionError struct {
	Scope   string   // Model, enum or directory holding the colliding names. Empty for the schema scope.
	Kind    string   // "model", "enum", "field", "enum value", "attribute" or "output file".
	Name    string   // The generated identifier.
	Sources []string // Source names that produced the identifier.
}

// Error returns the error string.
func (e *NamingCollisionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lmgen: %s %q", e.Kind, e.Name)
	if e.Scope != "" {
		fmt.Fprintf(&b, " in %s", e.Scope)
	}
	b.WriteString(" is generated more than once")
	if len(e.Sources) > 0 {
		fmt.Fprintf(&b, " (from %s)", strings.Join(e.Sources, ", "))
	}
	return b.String()
}

// Is reports whether the target error matches NamingCollisionError.
func (e *NamingCollisionError) Is(err error) bool {
	return err == ErrNamingCollision
}

// NewNamingCollisionError returns a new NamingCollisionError.
func NewNamingCollisionError(scope, kind, name string, sources ...string) *NamingCollisionError {
	return &NamingCollisionError{Scope: scope, Kind: kind, Name: name, Sources: sources}
}

// IsNamingCollision returns true if the error is a NamingCollisionError.
func IsNamingCollision(err error) bool {
	if err == nil {
		return false
	}
	var e *NamingCollisionError
	return errors.As(err, &e) || errors.Is(err, ErrNamingCollision)
}

// AggregateError represents multiple errors collected during validation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "lmgen: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("lmgen: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors, so errors.Is and errors.As
// inspect every one of them.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
