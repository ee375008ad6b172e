// Package golang renders resolved logical models as Go source: one struct
// per model and one string type per enum.
package golang

import (
	"bytes"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/lmgen/compiler/gen"
	"github.com/syssam/lmgen/schema/field"
)

// Header is the first comment of every generated file.
const Header = "Code generated by lmgen. DO NOT EDIT."

// Dialect implements gen.Dialect for Go model structs.
type Dialect struct{}

// New returns the Go dialect.
func New() *Dialect { return &Dialect{} }

// Name returns the dialect name.
func (*Dialect) Name() string { return "go" }

// Ext returns the file suffix of generated Go files.
func (*Dialect) Ext() string { return "_models.go" }

// Generate renders the graph as a Go file.
func (*Dialect) Generate(g *gen.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewFile(g).Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewFile returns the jennifer file of the graph.
func NewFile(g *gen.Graph) *jen.File {
	out := g.Config.Output()
	pkg := out.Package
	if pkg == "" {
		pkg = gen.DefaultPackage
	}
	f := jen.NewFile(pkg)
	f.HeaderComment(Header)
	if out.Header != "" && out.Header != Header {
		f.HeaderComment(out.Header)
	}
	if g.Model.ModelName != "" {
		f.PackageComment("Package " + pkg + " holds the models of " + g.Model.ModelName + ".")
	}
	docs := g.FeatureEnabled(gen.FeatureDocComments.Name)
	for _, e := range g.Enums {
		genEnum(f, e, docs)
	}
	for _, t := range g.Nodes {
		genModel(f, t, docs)
	}
	return f
}

// genEnum generates the enum type, its constants and the IsValid method.
func genEnum(f *jen.File, e *gen.Enum, docs bool) {
	name := e.TypeName()
	f.Commentf("%s is the type of the %s field of %s.", name, e.Field, e.Owner.TypeName())
	if docs && e.Description != "" {
		comment(f.Group, e.Description)
	}
	f.Type().Id(name).String()

	consts := constNames(e)
	f.Commentf("%s values.", name)
	f.Const().DefsFunc(func(defs *jen.Group) {
		for i, v := range e.Values {
			defs.Id(consts[i]).Id(name).Op("=").Lit(v.Value)
		}
	})

	cases := make([]jen.Code, len(consts))
	for i, c := range consts {
		cases[i] = jen.Id(c)
	}
	f.Commentf("IsValid reports if the value is a member of %s.", name)
	f.Func().Params(jen.Id("e").Id(name)).Id("IsValid").Params().Bool().Block(
		jen.Switch(jen.Id("e")).Block(
			jen.Case(cases...).Block(jen.Return(jen.True())),
		),
		jen.Return(jen.False()),
	)

	f.Commentf("String implements the fmt.Stringer interface.")
	f.Func().Params(jen.Id("e").Id(name)).Id("String").Params().String().Block(
		jen.Return(jen.String().Call(jen.Id("e"))),
	)
}

// constNames returns the constant name of each enum member. Members whose
// names only differ by underscores or case fall back to the raw member name.
func constNames(e *gen.Enum) []string {
	var (
		names = make([]string, len(e.Values))
		used  = make(map[string]bool, len(e.Values))
	)
	for i, v := range e.Values {
		n := e.TypeName() + gen.Pascal(v.Name)
		if used[n] {
			n = e.TypeName() + "_" + v.Name
		}
		used[n] = true
		names[i] = n
	}
	return names
}

// genModel generates the struct of a model type.
func genModel(f *jen.File, t *gen.Type, docs bool) {
	name := t.TypeName()
	switch {
	case t.Join:
		f.Commentf("%s is the join entity of the %s relationship of %s.", name, t.JoinOf.Relationship, t.JoinOf.Owner.TypeName())
	default:
		f.Commentf("%s is the model entity for the %s schema.", name, t.Name)
	}
	if docs && t.Description != "" {
		comment(f.Group, t.Description)
	}
	names := newNames()
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		group.Id(names.add("ID")).String().Tag(tags(gen.IDField, false))
		group.Id(names.add("CreatedAt")).Qual("time", "Time").Tag(tags(gen.CreatedAtField, false))
		group.Id(names.add("UpdatedAt")).Qual("time", "Time").Tag(tags(gen.UpdatedAtField, false))
		group.Id(names.add("DeletedAt")).Op("*").Qual("time", "Time").Tag(tags(gen.DeletedAtField, true))

		for _, fd := range t.Fields {
			if docs {
				if c := fd.Comment(); c != "" {
					comment(group, c)
				}
			}
			group.Id(names.add(fd.StructField())).Add(goType(fd)).Tag(tags(fd.Ident, fd.Optional))
		}

		for _, fk := range t.ForeignKeys() {
			typ := jen.String()
			if fk.Optional {
				typ = jen.Op("*").String()
			}
			group.Id(names.add(fk.StructField())).Add(typ).Tag(tags(fk.Name, fk.Optional))
		}

		if len(t.Edges) > 0 {
			group.Line()
		}
		for _, e := range t.Edges {
			if docs && !e.Inverse && e.Description != "" {
				comment(group, e.Description)
			}
			typ := jen.Op("*").Id(e.Type.TypeName())
			if e.List() {
				typ = jen.Index().Op("*").Id(e.Type.TypeName())
			}
			group.Id(names.add(e.StructField())).Add(typ).Tag(tags(e.Name, true))
		}
	})
}

// goType returns the Go type of an attribute field.
func goType(fd *gen.Field) *jen.Statement {
	var typ *jen.Statement
	switch {
	case fd.Enum != nil:
		typ = jen.Id(fd.Enum.TypeName())
	case fd.IsTime():
		typ = jen.Qual("time", "Time")
	case fd.Type == field.TypeInteger:
		typ = jen.Int64()
	case fd.Type == field.TypeFloat:
		typ = jen.Float64()
	case fd.Type == field.TypeBoolean:
		typ = jen.Bool()
	default:
		typ = jen.String()
	}
	if fd.Optional {
		return jen.Op("*").Add(typ)
	}
	return typ
}

func tags(name string, omitempty bool) map[string]string {
	if omitempty {
		name += ",omitempty"
	}
	return map[string]string{"json": name}
}

// structNames keeps struct member names unique. A name taken by an earlier
// member gets a trailing underscore.
type structNames map[string]bool

func newNames() structNames { return make(structNames) }

func (s structNames) add(name string) string {
	for s[name] {
		name += "_"
	}
	s[name] = true
	return name
}

// comment adds text to the group, one line comment per line.
func comment(group *jen.Group, text string) {
	for _, l := range strings.Split(strings.TrimSpace(text), "\n") {
		group.Comment(strings.TrimSpace(l))
	}
}
