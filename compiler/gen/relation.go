package gen

import (
	"github.com/syssam/lmgen"
	"github.com/syssam/lmgen/schema"
	"github.com/syssam/lmgen/schema/edge"
	"github.com/syssam/lmgen/schema/field"
)

// Join type edge names and their foreign keys.
const (
	joinSource = "source"
	joinTarget = "target"
)

// resolveRelations derives both sides of every relationship of the source
// types, flattens relationship attributes onto their owning types and
// synthesizes the join types of N:M relationships. Relationships are
// visited in declaration order, and the returned index keeps that order
// per type. Targets and cardinalities must have been checked before.
func (g *Graph) resolveRelations() (Index, []*Type, error) {
	var (
		idx    = make(Index)
		joins  []*Type
		idents = make(map[string]string, len(g.Nodes))
	)
	for _, t := range g.Nodes {
		idents[t.Ident] = t.Name
	}
	for _, t := range g.Nodes {
		var err error
		t.entity.Relationships.Range(func(name string, r *edge.Relationship) bool {
			target := g.nodes[r.Target]
			switch r.Cardinality {
			case edge.OneToMany, edge.ZeroToMany:
				err = g.hasMany(idx, t, target, name, r)
			case edge.ZeroToOne, edge.OneToOne:
				err = g.hasOne(idx, t, target, name, r)
			case edge.ManyToMany:
				var j *Type
				if j, err = g.manyToMany(idx, t, target, name, r); err == nil {
					if prev, ok := idents[j.Ident]; ok {
						err = lmgen.NewNamingCollisionError("", "model", j.Ident, prev, "join of "+t.Name+"."+name)
						break
					}
					idents[j.Ident] = j.Name
					joins = append(joins, j)
				}
			}
			return err == nil
		})
		if err != nil {
			return nil, nil, err
		}
	}
	return idx, joins, nil
}

// hasMany resolves 1:N and 0:N relationships. The target holds the
// foreign key, required for 1:N and optional for 0:N.
func (g *Graph) hasMany(idx Index, t, target *Type, name string, r *edge.Relationship) error {
	optional := r.Cardinality == edge.ZeroToMany
	back := backName(t, name)
	fwd := &Edge{
		Name:         edgeIdent(name),
		Type:         target,
		Owner:        t,
		Relation:     Pascal(name),
		Rel:          O2M,
		Relationship: name,
		Cardinality:  string(r.Cardinality),
		Description:  r.Description,
	}
	inv := &Edge{
		Name:         back,
		Type:         t,
		Owner:        target,
		Relation:     fwd.Relation,
		Rel:          M2O,
		Unique:       true,
		Optional:     optional,
		Inverse:      true,
		FK:           &ForeignKey{Name: back + "Id", Optional: optional, References: IDField},
		Relationship: name,
		Cardinality:  fwd.Cardinality,
		Description:  r.Description,
	}
	fwd.Ref, inv.Ref = inv, fwd
	idx[t.Name] = append(idx[t.Name], fwd)
	idx[target.Name] = append(idx[target.Name], inv)
	return flatten(target, name, r.Attributes)
}

// hasOne resolves 0:1 and 1:1 relationships. The declaring type holds the
// foreign key. For 0:1 the target gets a list of back references, for 1:1
// a single optional one.
func (g *Graph) hasOne(idx Index, t, target *Type, name string, r *edge.Relationship) error {
	required := r.Cardinality == edge.OneToOne
	fname := edgeIdent(name)
	fwd := &Edge{
		Name:         fname,
		Type:         target,
		Owner:        t,
		Relation:     Pascal(name),
		Rel:          M2O,
		Unique:       true,
		Optional:     !required,
		FK:           &ForeignKey{Name: fname + "Id", Optional: !required, Unique: required, References: IDField},
		Relationship: name,
		Cardinality:  string(r.Cardinality),
		Description:  r.Description,
	}
	inv := &Edge{
		Type:         t,
		Owner:        target,
		Relation:     fwd.Relation,
		Rel:          O2M,
		Inverse:      true,
		Relationship: name,
		Cardinality:  fwd.Cardinality,
		Description:  r.Description,
	}
	if required {
		fwd.Rel = O2O
		inv.Name, inv.Rel, inv.Unique, inv.Optional = backName(t, name), O2O, true, true
	} else {
		inv.Name = g.pluralize(backName(t, name))
	}
	fwd.Ref, inv.Ref = inv, fwd
	idx[t.Name] = append(idx[t.Name], fwd)
	idx[target.Name] = append(idx[target.Name], inv)
	return flatten(t, name, r.Attributes)
}

// manyToMany resolves an N:M relationship through a new join type holding
// a required reference to each side and a unique constraint on the pair.
func (g *Graph) manyToMany(idx Index, t, target *Type, name string, r *edge.Relationship) (*Type, error) {
	jname := Pascal(t.Name) + Pascal(name)
	j := &Type{
		Name:        jname,
		Ident:       SafePascal(jname),
		Description: r.Description,
		Join:        true,
		Uniques:     [][]string{{joinSource + "Id", joinTarget + "Id"}},
		entity:      &schema.Entity{Attributes: field.NewAttributes()},
	}
	rel := Pascal(name)
	fwd := &Edge{
		Name:         edgeIdent(name),
		Type:         j,
		Owner:        t,
		Relation:     rel,
		Rel:          M2M,
		Relationship: name,
		Cardinality:  string(r.Cardinality),
		Description:  r.Description,
	}
	src := &Edge{
		Name:         joinSource,
		Type:         t,
		Owner:        j,
		Relation:     rel,
		Rel:          M2O,
		Unique:       true,
		Inverse:      true,
		FK:           &ForeignKey{Name: joinSource + "Id", References: IDField},
		Relationship: name,
		Cardinality:  fwd.Cardinality,
	}
	inv := &Edge{
		Name:         g.pluralize(backName(t, name)),
		Type:         j,
		Owner:        target,
		Relation:     rel + "Inverse",
		Rel:          M2M,
		Inverse:      true,
		Relationship: name,
		Cardinality:  fwd.Cardinality,
		Description:  r.Description,
	}
	dst := &Edge{
		Name:         joinTarget,
		Type:         target,
		Owner:        j,
		Relation:     inv.Relation,
		Rel:          M2O,
		Unique:       true,
		Inverse:      true,
		FK:           &ForeignKey{Name: joinTarget + "Id", References: IDField},
		Relationship: name,
		Cardinality:  fwd.Cardinality,
	}
	fwd.Ref, src.Ref = src, fwd
	inv.Ref, dst.Ref = dst, inv
	j.JoinOf = fwd
	idx[t.Name] = append(idx[t.Name], fwd)
	idx[j.Name] = append(idx[j.Name], src, dst)
	idx[target.Name] = append(idx[target.Name], inv)
	if err := flatten(j, name, r.Attributes); err != nil {
		return nil, err
	}
	return j, nil
}

// backName returns the name of the field generated on the target side of
// relationship name declared on t.
func backName(t *Type, name string) string {
	return SafeCamel(name) + t.Ident
}

// flatten appends the relationship attributes to the owner's attributes.
// An attribute name that already exists on the owner is a collision.
func flatten(owner *Type, rel string, attrs *field.Attributes) error {
	var err error
	attrs.Range(func(name string, a *field.Attribute) bool {
		if owner.entity.Attributes.Has(name) {
			err = lmgen.NewNamingCollisionError(owner.Name, "attribute", name, "attribute "+name, "relationship "+rel)
			return false
		}
		owner.entity.Attributes.Set(name, a)
		if owner.flattened == nil {
			owner.flattened = make(map[string]string)
		}
		owner.flattened[name] = rel
		return true
	})
	return err
}
