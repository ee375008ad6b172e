package gen

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)

	identRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

	// enum value normalization steps, applied in order.
	enumSepRe     = regexp.MustCompile(`[\s\x{30fb}\x{3000}.\-]+`)
	enumInvalidRe = regexp.MustCompile(`[^A-Za-z0-9_]`)
	enumRunRe     = regexp.MustCompile(`_+`)
)

// reserved holds the lower-cased words that cannot be used as model, enum or
// field names in the generated schema: schema keywords, scalar type names and
// keywords of the languages the generated client is used from.
var reserved = names(
	"model", "enum", "type", "view", "datasource", "generator",
	"string", "int", "bigint", "float", "decimal", "boolean", "datetime",
	"json", "bytes", "unsupported",
	"interface", "class", "var", "let", "const", "if", "else", "function",
	"return", "import", "export", "from", "true", "false", "null",
	"undefined", "async", "await",
)

// IsReserved reports if name is a reserved word. The check ignores case.
func IsReserved(name string) bool {
	_, ok := reserved[strings.ToLower(name)]
	return ok
}

// ValidIdentifier reports if s matches the identifier grammar of the
// generated schema: a letter followed by letters, digits or underscores.
func ValidIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// words splits s into its ASCII alphanumeric runs. Every other rune is a
// word boundary and is dropped.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
}

// Pascal converts s to PascalCase. The first letter of every word is
// upper-cased, all other letters keep their case.
//
//	user_name  => UserName
//	created-by => CreatedBy
//	iPhone     => IPhone
func Pascal(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(upper.String(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}

// Camel converts s to camelCase, Pascal with a lower-cased first letter.
func Camel(s string) string {
	p := Pascal(s)
	if p == "" {
		return p
	}
	return lower.String(p[:1]) + p[1:]
}

// SafePascal returns Pascal(s) with a trailing underscore if the result is
// a reserved word.
func SafePascal(s string) string {
	return escape(Pascal(s))
}

// SafeCamel returns Camel(s) with a trailing underscore if the result is
// a reserved word.
func SafeCamel(s string) string {
	return escape(Camel(s))
}

func escape(s string) string {
	if IsReserved(s) {
		return s + "_"
	}
	return s
}

// EnumValueName normalizes an enum option into a candidate member name.
// Separators (whitespace, dots, dashes, U+30FB and U+3000) and invalid
// characters become underscores, runs of underscores are collapsed and
// leading or trailing ones are trimmed. The result may still be invalid,
// for example empty or starting with a digit.
func EnumValueName(s string) string {
	s = enumSepRe.ReplaceAllString(s, "_")
	s = enumInvalidRe.ReplaceAllString(s, "_")
	s = enumRunRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{})
	for i := range ids {
		m[ids[i]] = struct{}{}
	}
	return m
}
