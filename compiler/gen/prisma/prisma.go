// Package prisma renders resolved logical models as Prisma schema documents.
//
// A document is a sequence of blocks separated by one blank line:
//
//	// header
//	datasource db { ... }
//	generator client { ... }
//	enum <Name> { ... }
//	model <Name> { ... }
//
// The datasource and generator blocks are emitted only when configured.
package prisma

import (
	"strconv"
	"strings"

	"github.com/syssam/lmgen/compiler/gen"
	"github.com/syssam/lmgen/schema"
	"github.com/syssam/lmgen/schema/field"
)

// Dialect implements gen.Dialect for Prisma schemas.
type Dialect struct{}

// New returns the Prisma dialect.
func New() *Dialect { return &Dialect{} }

// Name returns the dialect name.
func (*Dialect) Name() string { return "prisma" }

// Ext returns the file suffix of Prisma documents.
func (*Dialect) Ext() string { return ".prisma" }

// Generate renders the graph.
func (*Dialect) Generate(g *gen.Graph) ([]byte, error) {
	return []byte(Render(g)), nil
}

// Builder compiles logical models into Prisma schema text. A Builder only
// holds configuration and can be reused for any number of models.
type Builder struct {
	config *gen.Config
}

// NewBuilder returns a builder configured with the given options.
func NewBuilder(opts ...gen.Option) (*Builder, error) {
	c, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Builder{config: c}, nil
}

// Config returns the builder configuration.
func (b *Builder) Config() *gen.Config { return b.config }

// Build resolves the model and renders its schema. Every call resolves the
// model from scratch.
func (b *Builder) Build(m *schema.Model) (string, error) {
	g, err := gen.NewGraph(b.config, m)
	if err != nil {
		return "", err
	}
	return Render(g), nil
}

// Render returns the schema document of the graph.
func Render(g *gen.Graph) string {
	var blocks []string
	if h := header(g); h != "" {
		blocks = append(blocks, h)
	}
	if g.Config.Datasource != nil {
		blocks = append(blocks, datasource(g.Config.Datasource))
	}
	if g.Config.Client != nil {
		blocks = append(blocks, client(g.Config.Client))
	}
	docs := g.FeatureEnabled(gen.FeatureDocComments.Name)
	for _, e := range g.Enums {
		blocks = append(blocks, ConvertEnum(e, docs))
	}
	for _, t := range g.Nodes {
		blocks = append(blocks, ConvertEntity(t, docs))
	}
	if g.FeatureEnabled(gen.FeatureRelationshipRegistry.Name) {
		blocks = append(blocks, registry())
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// header returns the comment block of the document: the configured header
// text followed by the model identification.
func header(g *gen.Graph) string {
	var lines []string
	if text := g.Config.Output().Header; text != "" {
		for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
			lines = append(lines, strings.TrimRight("// "+l, " "))
		}
	}
	if g.Model.ModelName != "" {
		lines = append(lines, "// Generated from Logical Model: "+g.Model.ModelName)
		if g.Model.SchemaVersion != "" {
			lines = append(lines, "// Schema version: "+g.Model.SchemaVersion)
		}
	}
	return strings.Join(lines, "\n")
}

func datasource(d *gen.Datasource) string {
	url := strconv.Quote(d.URL)
	if d.Env() {
		url = "env(" + url + ")"
	}
	return block("datasource db",
		"provider = "+strconv.Quote(d.Provider),
		"url = "+url,
	)
}

func client(c *gen.Client) string {
	provider := c.Provider
	if provider == "" {
		provider = gen.DefaultClientProvider
	}
	lines := []string{"provider = " + strconv.Quote(provider)}
	if c.Output != "" {
		lines = append(lines, "output = "+strconv.Quote(c.Output))
	}
	return block("generator client", lines...)
}

// ConvertEnum returns the enum block. Members whose identifier differs from
// the option literal are mapped back to the literal.
func ConvertEnum(e *gen.Enum, docs bool) string {
	var b strings.Builder
	if docs {
		comment(&b, "", e.Description)
	}
	b.WriteString("enum " + e.Name + " {\n")
	for _, v := range e.Values {
		b.WriteString(indent + v.Name)
		if v.Mapped() {
			b.WriteString(" @map(" + strconv.Quote(v.Value) + ")")
		}
		b.WriteByte('\n')
	}
	b.WriteString("}")
	return b.String()
}

// ConvertEntity returns the model block of the type: the system fields,
// the attribute fields, the relation fields and the block attributes.
func ConvertEntity(t *gen.Type, docs bool) string {
	var b strings.Builder
	if docs {
		comment(&b, "", t.Description)
	}
	b.WriteString("model " + t.Ident + " {\n")
	for _, l := range systemLines {
		b.WriteString(indent + l + "\n")
	}
	for _, f := range t.Fields {
		if docs {
			comment(&b, indent, f.Description(), f.Note())
		}
		b.WriteString(indent + AttributeLine(f) + "\n")
	}
	for _, e := range t.Edges {
		if docs && !e.Inverse {
			comment(&b, indent, e.Description)
		}
		for _, l := range EdgeLines(e) {
			b.WriteString(indent + l + "\n")
		}
	}
	if len(t.Uniques) > 0 {
		b.WriteByte('\n')
		for _, u := range t.Uniques {
			b.WriteString(indent + "@@unique([" + strings.Join(u, ", ") + "])\n")
		}
	}
	b.WriteString("}")
	return b.String()
}

// AttributeLine returns the declaration of an attribute field.
func AttributeLine(f *gen.Field) string {
	var b strings.Builder
	b.WriteString(f.Ident + " " + scalar(f))
	if f.Optional {
		b.WriteByte('?')
	}
	if f.Unique {
		b.WriteString(" @unique")
	}
	switch {
	case f.IsText():
		b.WriteString(" @db.Text")
	case f.IsDate():
		b.WriteString(" @db.Date")
	}
	return b.String()
}

// EdgeLines returns the declarations of a relation field: its foreign key,
// if the edge holds one, followed by the relation field itself.
func EdgeLines(e *gen.Edge) []string {
	var lines []string
	typ := e.Type.Ident
	switch {
	case !e.Unique:
		typ += "[]"
	case e.Optional:
		typ += "?"
	}
	rel := "@relation(" + strconv.Quote(e.Relation)
	if fk := e.FK; fk != nil {
		line := fk.Name + " String"
		if fk.Optional {
			line += "?"
		}
		if fk.Unique {
			line += " @unique"
		}
		lines = append(lines, line)
		rel += ", fields: [" + fk.Name + "], references: [" + fk.References + "]"
	}
	return append(lines, e.Name+" "+typ+" "+rel+")")
}

func scalar(f *gen.Field) string {
	if f.Enum != nil {
		return f.Enum.Name
	}
	switch f.Type {
	case field.TypeInteger:
		return "Int"
	case field.TypeFloat:
		return "Float"
	case field.TypeBoolean:
		return "Boolean"
	case field.TypeDate, field.TypeDateTime:
		return "DateTime"
	default:
		return "String"
	}
}

const indent = "  "

var systemLines = []string{
	gen.IDField + " String @id @default(uuid())",
	gen.CreatedAtField + " DateTime @default(now())",
	gen.UpdatedAtField + " DateTime @updatedAt",
	gen.DeletedAtField + " DateTime?",
}

// registry returns the model storing relationships defined at runtime.
func registry() string {
	var b strings.Builder
	b.WriteString("model " + gen.RegistryModel + " {\n")
	for _, l := range systemLines {
		b.WriteString(indent + l + "\n")
	}
	for _, l := range []string{
		"sourceId String",
		"sourceType String",
		"targetId String",
		"targetType String",
		"relationType String",
		"properties Json?",
		"",
		"@@index([sourceId])",
		"@@index([targetId])",
	} {
		if l == "" {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(indent + l + "\n")
	}
	b.WriteString("}")
	return b.String()
}

func block(head string, lines ...string) string {
	var b strings.Builder
	b.WriteString(head + " {\n")
	for _, l := range lines {
		b.WriteString(indent + l + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// comment writes the non-empty texts as documentation comments.
func comment(b *strings.Builder, prefix string, texts ...string) {
	for _, text := range texts {
		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		for _, l := range strings.Split(text, "\n") {
			b.WriteString(strings.TrimRight(prefix+"/// "+strings.TrimSpace(l), " ") + "\n")
		}
	}
}
