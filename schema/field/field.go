package field

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/lmgen/schema/internal/ordered"
)

// A Type represents an attribute type of the logical model.
type Type uint8

// List of attribute types.
const (
	TypeInvalid Type = iota
	TypeString
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeDate
	TypeDateTime
	TypeText
	TypeEnum
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:  "invalid",
	TypeString:   "String",
	TypeInteger:  "Integer",
	TypeFloat:    "Float",
	TypeBoolean:  "Boolean",
	TypeDate:     "Date",
	TypeDateTime: "DateTime",
	TypeText:     "Text",
	TypeEnum:     "Enum",
}

// String returns the string representation of a type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known attribute type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// ParseType returns the Type matching the given name.
func ParseType(s string) (Type, error) {
	for t := TypeString; t < endTypes; t++ {
		if typeNames[t] == s {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("must be one of %s", strings.Join(TypeNames(), ", "))
}

// TypeNames returns the names of all valid types.
func TypeNames() []string {
	return slices.Clone(typeNames[TypeString:endTypes])
}

// MarshalYAML implements yaml.Marshaler.
func (t Type) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	typ, err := ParseType(s)
	if err != nil {
		// Keep the raw value invalid so the validator reports it with its path.
		*t = TypeInvalid
		return nil
	}
	*t = typ
	return nil
}

// Attribute is a typed property of an entity or a relationship.
type Attribute struct {
	Type        Type     `yaml:"type"`
	Description string   `yaml:"description,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
	PrimaryKey  bool     `yaml:"primary_key,omitempty"`
	Options     []string `yaml:"options,omitempty"`
	Note        string   `yaml:"note,omitempty"`
	// RawType holds the type name as written in the source document.
	RawType string `yaml:"-"`
}

// UnmarshalYAML implements yaml.Unmarshaler. It records the raw type name
// besides the parsed one.
func (a *Attribute) UnmarshalYAML(node *yaml.Node) error {
	type plain Attribute
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*a = Attribute(p)
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "type" {
			a.RawType = node.Content[i+1].Value
		}
	}
	return nil
}

// Clone returns a deep copy of the attribute.
func (a *Attribute) Clone() *Attribute {
	if a == nil {
		return nil
	}
	c := *a
	c.Options = slices.Clone(a.Options)
	return &c
}

// IsOptional reports if the attribute may hold no value.
// Primary keys are always required.
func (a *Attribute) IsOptional() bool {
	return !a.Required && !a.PrimaryKey
}

// HasOptions reports if the attribute is an enum with at least one option.
func (a *Attribute) HasOptions() bool {
	return a.Type == TypeEnum && len(a.Options) > 0
}

// Attributes is an insertion-ordered set of named attributes.
type Attributes = ordered.Map[*Attribute]

// NewAttributes returns an ordered attribute map from name/attribute pairs.
func NewAttributes(kv ...any) *Attributes {
	return ordered.New[*Attribute](kv...)
}

// CloneAttributes returns a deep copy of the given attributes.
func CloneAttributes(attrs *Attributes) *Attributes {
	return attrs.Clone((*Attribute).Clone)
}
