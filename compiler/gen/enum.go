package gen

import (
	"strconv"

	"github.com/syssam/lmgen"
)

// resolveEnums creates the enums of the type's enum fields, in field
// order. Fields must have been built before.
func (g *Graph) resolveEnums(t *Type) error {
	for _, f := range t.Fields {
		if !f.Attr.HasOptions() {
			continue
		}
		e := &Enum{
			Name:        SafePascal(t.Ident + Pascal(f.Name)),
			Owner:       t,
			Field:       f.Name,
			Description: f.Attr.Description,
		}
		used := make(map[string]struct{}, len(f.Attr.Options))
		for i, opt := range f.Attr.Options {
			name := EnumValueName(opt)
			if !ValidIdentifier(name) {
				name = "Option_" + strconv.Itoa(i+1)
			}
			if _, ok := used[name]; ok {
				alt := name + "_" + strconv.Itoa(i+1)
				if _, ok := used[alt]; ok {
					return lmgen.NewNamingCollisionError(e.Name, "enum value", alt, strconv.Quote(opt))
				}
				name = alt
			}
			used[name] = struct{}{}
			e.Values = append(e.Values, &EnumValue{Name: name, Value: opt})
		}
		f.Enum = e
		g.Enums = append(g.Enums, e)
	}
	return nil
}
