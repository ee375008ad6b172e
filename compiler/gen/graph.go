package gen

import (
	"fmt"

	"github.com/syssam/lmgen"
	"github.com/syssam/lmgen/schema"
	"github.com/syssam/lmgen/schema/edge"
	"github.com/syssam/lmgen/schema/field"
)

// RegistryModel is the name of the model appended by
// FeatureRelationshipRegistry.
const RegistryModel = "UserDefinedRelationship"

// NewGraph creates a new Graph for the given model.
//
// Building runs in phases: precondition checks, relationship resolution,
// field and enum resolution, and name collision checks. The source model is
// cloned first and never mutated, so building the same model twice yields
// identical graphs.
func NewGraph(c *Config, m *schema.Model) (*Graph, error) {
	if c == nil {
		c = &Config{Package: DefaultPackage}
	}
	if m == nil || m.Entities.Len() == 0 {
		return nil, lmgen.NewStructuralError("/entities", "model has no entities")
	}
	if err := check(m); err != nil {
		return nil, err
	}
	g := &Graph{Config: c, Model: m, nodes: make(map[string]*Type)}
	if err := g.addTypes(m.Clone()); err != nil {
		return nil, err
	}
	idx, joins, err := g.resolveRelations()
	if err != nil {
		return nil, err
	}
	for _, j := range joins {
		g.Nodes = append(g.Nodes, j)
		g.nodes[j.Name] = j
	}
	for _, t := range g.Nodes {
		t.Edges = idx[t.Name]
	}
	for _, t := range g.Nodes {
		if err := t.buildFields(); err != nil {
			return nil, err
		}
	}
	for _, t := range g.Nodes {
		if err := g.resolveEnums(t); err != nil {
			return nil, err
		}
	}
	if err := g.checkNames(); err != nil {
		return nil, err
	}
	return g, nil
}

// MustNewGraph is like NewGraph but panics on error.
func MustNewGraph(c *Config, m *schema.Model) *Graph {
	g, err := NewGraph(c, m)
	if err != nil {
		panic(err)
	}
	return g
}

// check reports structural and referential problems that make the model
// impossible to resolve. All problems are collected.
func check(m *schema.Model) error {
	var errs []error
	m.Entities.Range(func(name string, e *schema.Entity) bool {
		path := "/entities/" + name
		if e == nil {
			errs = append(errs, lmgen.NewStructuralError(path, "must be object"))
			return true
		}
		errs = append(errs, checkAttributes(path+"/attributes", e.Attributes)...)
		var pks []string
		e.Attributes.Range(func(aname string, a *field.Attribute) bool {
			if a != nil && a.PrimaryKey {
				pks = append(pks, aname)
			}
			return true
		})
		if len(pks) > 1 {
			errs = append(errs, lmgen.NewStructuralError(path+"/attributes", fmt.Sprintf("more than one primary key: %v", pks)))
		}
		e.Relationships.Range(func(rname string, r *edge.Relationship) bool {
			rpath := path + "/relationships/" + rname
			switch {
			case r == nil:
				errs = append(errs, lmgen.NewStructuralError(rpath, "must be object"))
				return true
			case !ValidIdentifier(edgeIdent(rname)):
				errs = append(errs, lmgen.NewStructuralError(rpath, fmt.Sprintf("relationship name %q does not produce a valid identifier", rname)))
			case !r.Cardinality.Valid():
				errs = append(errs, lmgen.NewStructuralError(rpath+"/cardinality", fmt.Sprintf("unknown cardinality %q", r.Cardinality)))
			}
			if _, ok := m.Entity(r.Target); !ok {
				errs = append(errs, lmgen.NewReferentialError(name, rname, r.Target))
			}
			errs = append(errs, checkAttributes(rpath+"/attributes", r.Attributes)...)
			return true
		})
		return true
	})
	return lmgen.NewAggregateError(errs...)
}

func checkAttributes(path string, attrs *field.Attributes) []error {
	var errs []error
	attrs.Range(func(name string, a *field.Attribute) bool {
		switch {
		case a == nil:
			errs = append(errs, lmgen.NewStructuralError(path+"/"+name, "must be object"))
		case !a.Type.Valid():
			errs = append(errs, lmgen.NewStructuralError(path+"/"+name+"/type", fmt.Sprintf("unknown attribute type %q", a.RawType)))
		}
		return true
	})
	return errs
}

// addTypes creates a type for every entity of the cloned model.
func (g *Graph) addTypes(m *schema.Model) error {
	var (
		errs   []error
		idents = make(map[string]string)
	)
	m.Entities.Range(func(name string, e *schema.Entity) bool {
		ident := SafePascal(name)
		switch prev, ok := idents[ident]; {
		case !ValidIdentifier(ident):
			errs = append(errs, lmgen.NewStructuralError("/entities/"+name, fmt.Sprintf("entity name %q does not produce a valid identifier", name)))
		case ok:
			errs = append(errs, lmgen.NewNamingCollisionError("", "model", ident, prev, name))
		default:
			idents[ident] = name
			t := &Type{Name: name, Ident: ident, Description: e.Description, entity: e}
			g.Nodes = append(g.Nodes, t)
			g.nodes[name] = t
		}
		return true
	})
	return lmgen.NewAggregateError(errs...)
}

// buildFields creates the attribute fields of the type, including the
// attributes flattened from relationships.
func (t *Type) buildFields() error {
	var err error
	t.entity.Attributes.Range(func(name string, a *field.Attribute) bool {
		ident := fieldIdent(name)
		if !ValidIdentifier(ident) {
			err = lmgen.NewStructuralError("/entities/"+t.Name+"/attributes/"+name, fmt.Sprintf("attribute name %q does not produce a valid identifier", name))
			return false
		}
		f := &Field{
			Name:         name,
			Ident:        ident,
			Type:         a.Type,
			Attr:         a,
			Optional:     a.IsOptional(),
			Unique:       a.PrimaryKey,
			Relationship: t.flattened[name],
		}
		if a.Type == field.TypeEnum && !a.HasOptions() {
			f.Type = field.TypeString
		}
		t.Fields = append(t.Fields, f)
		return true
	})
	return err
}

// checkNames reports generated identifiers that are used twice within the
// same scope: models and enums share the schema scope, fields are scoped
// by their model.
func (g *Graph) checkNames() error {
	global := make(map[string]string)
	for _, t := range g.Nodes {
		global[t.Ident] = "model " + t.Name
	}
	if g.featureEnabled(FeatureRelationshipRegistry) {
		if prev, ok := global[RegistryModel]; ok {
			return lmgen.NewNamingCollisionError("", "model", RegistryModel, prev, "feature "+FeatureRelationshipRegistry.Name)
		}
		global[RegistryModel] = "feature " + FeatureRelationshipRegistry.Name
	}
	for _, e := range g.Enums {
		src := "enum of " + e.Owner.Name + "." + e.Field
		if prev, ok := global[e.Name]; ok {
			return lmgen.NewNamingCollisionError("", "enum", e.Name, prev, src)
		}
		global[e.Name] = src
	}
	for _, t := range g.Nodes {
		seen := make(map[string]string)
		add := func(ident, src string) error {
			if prev, ok := seen[ident]; ok {
				return lmgen.NewNamingCollisionError(t.Ident, "field", ident, prev, src)
			}
			seen[ident] = src
			return nil
		}
		for _, s := range SystemFields() {
			seen[s] = "system field " + s
		}
		for _, f := range t.Fields {
			if err := add(f.Ident, "attribute "+f.Name); err != nil {
				return err
			}
		}
		for _, e := range t.Edges {
			if e.FK != nil {
				if err := add(e.FK.Name, "foreign key of relationship "+e.Relationship); err != nil {
					return err
				}
			}
			if err := add(e.Name, "relationship "+e.Relationship); err != nil {
				return err
			}
		}
	}
	return nil
}
