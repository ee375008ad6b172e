package load

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/lmgen"
	"github.com/syssam/lmgen/schema"
	"github.com/syssam/lmgen/schema/edge"
	"github.com/syssam/lmgen/schema/field"
)

// Result is the outcome of validating one model.
type Result struct {
	// File the model was loaded from, if any.
	File string
	// Errors holds the formatted findings that make the model invalid.
	Errors []string
	// Warnings holds findings that do not stop compilation.
	Warnings []string

	errs []error
}

// Valid reports whether the model has no errors.
func (r *Result) Valid() bool { return len(r.errs) == 0 }

// Err returns the findings as an *Error, or nil if the model is valid.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{File: r.File, Errs: r.errs}
}

// Add records err as a finding of the model. The members of an aggregate
// error are recorded one by one.
func (r *Result) Add(err error) {
	var agg *lmgen.AggregateError
	if errors.As(err, &agg) {
		for _, e := range agg.Errors {
			r.fail(e)
		}
		return
	}
	r.fail(err)
}

func (r *Result) fail(err error) {
	r.errs = append(r.errs, err)
	r.Errors = append(r.Errors, Message(err))
}

func (r *Result) failf(path, format string, args ...any) {
	r.fail(lmgen.NewStructuralError(path, fmt.Sprintf(format, args...)))
}

func (r *Result) warnf(path, format string, args ...any) {
	r.Warnings = append(r.Warnings, Message(lmgen.NewStructuralError(path, fmt.Sprintf(format, args...))))
}

// Validate checks the structure of the model and the referential integrity
// of its relationships. It never mutates the model.
func Validate(m *schema.Model) *Result {
	r := &Result{}
	if m == nil {
		r.failf("/", "must be object")
		return r
	}
	if m.SchemaVersion == "" {
		r.failf("/", "must have required property 'schema_version'")
	}
	if m.ModelName == "" {
		r.failf("/", "must have required property 'model_name'")
	}
	switch {
	case m.Entities == nil:
		r.failf("/", "must have required property 'entities'")
		return r
	case m.Entities.Len() == 0:
		r.failf("/entities", "must NOT have fewer than 1 properties")
		return r
	}
	m.Entities.Range(func(name string, e *schema.Entity) bool {
		validateEntity(r, name, e)
		return true
	})
	m.Entities.Range(func(name string, e *schema.Entity) bool {
		if e == nil {
			return true
		}
		e.Relationships.Range(func(rname string, rel *edge.Relationship) bool {
			if rel == nil || rel.Target == "" {
				return true
			}
			if _, ok := m.Entity(rel.Target); !ok {
				r.fail(lmgen.NewReferentialError(name, rname, rel.Target))
			}
			return true
		})
		return true
	})
	return r
}

func validateEntity(r *Result, name string, e *schema.Entity) {
	path := "/entities/" + name
	if e == nil {
		r.failf(path, "must be object")
		return
	}
	if e.Attributes == nil {
		r.failf(path, "must have required property 'attributes'")
	} else {
		validateAttributes(r, path+"/attributes", e.Attributes)
		var pks []string
		e.Attributes.Range(func(aname string, a *field.Attribute) bool {
			if a != nil && a.PrimaryKey {
				pks = append(pks, aname)
			}
			return true
		})
		if len(pks) > 1 {
			r.failf(path+"/attributes", "must have at most one primary_key attribute (found %s)", strings.Join(pks, ", "))
		}
	}
	e.Relationships.Range(func(rname string, rel *edge.Relationship) bool {
		validateRelationship(r, path+"/relationships/"+rname, rel)
		return true
	})
}

func validateAttributes(r *Result, path string, attrs *field.Attributes) {
	attrs.Range(func(name string, a *field.Attribute) bool {
		apath := path + "/" + name
		switch {
		case a == nil:
			r.failf(apath, "must be object")
		case a.RawType == "":
			r.failf(apath, "must have required property 'type'")
		case !a.Type.Valid():
			r.failf(apath+"/type", "must be equal to one of the allowed values: %s", strings.Join(field.TypeNames(), ", "))
		case a.Type == field.TypeEnum && len(a.Options) == 0:
			r.warnf(apath+"/options", "enum attribute has no options; emitted as String")
		}
		return true
	})
}

func validateRelationship(r *Result, path string, rel *edge.Relationship) {
	if rel == nil {
		r.failf(path, "must be object")
		return
	}
	if rel.Target == "" {
		r.failf(path, "must have required property 'target'")
	}
	switch {
	case rel.Cardinality == "":
		r.failf(path, "must have required property 'cardinality'")
	case !rel.Cardinality.Valid():
		names := make([]string, 0, 5)
		for _, c := range edge.Cardinalities() {
			names = append(names, string(c))
		}
		r.failf(path+"/cardinality", "must be equal to one of the allowed values: %s", strings.Join(names, ", "))
	}
	if rel.Attributes != nil {
		validateAttributes(r, path+"/attributes", rel.Attributes)
	}
}
