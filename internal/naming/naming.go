// Package naming turns schema identifiers into target-language names:
// camel-casing, reserved-word escaping, accessor names and the per-group
// controller, API interface and service identifiers.
package naming

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// DefaultVendor is the composer vendor used for service identifiers.
const DefaultVendor = "swagger"

// reservedWords holds local variables used in generated API methods and the
// target language's keywords. Lookups are case-insensitive.
var reservedWords = []string{
	// locals of generated endpoint methods
	"resourcePath", "httpBody", "queryParams", "headerParams",
	"formParams", "_header_accept", "_tempBody",

	"__halt_compiler", "abstract", "and", "array", "as", "break", "callable", "case", "catch",
	"class", "clone", "const", "continue", "declare", "default", "die", "do", "echo", "else",
	"elseif", "empty", "enddeclare", "endfor", "endforeach", "endif", "endswitch", "endwhile",
	"eval", "exit", "extends", "final", "for", "foreach", "function", "global", "goto", "if",
	"implements", "include", "include_once", "instanceof", "insteadof", "interface", "isset",
	"list", "namespace", "new", "or", "print", "private", "protected", "public", "require",
	"require_once", "return", "static", "switch", "throw", "trait", "try", "unset", "use",
	"var", "while", "xor",
}

// Namer implements the naming rules. The zero value is not usable; use New.
type Namer struct {
	vendor   string
	reserved map[string]struct{}
	mappings map[string]string
}

// New returns a Namer for vendor. mappings overrides the "_" escape for
// specific reserved words.
func New(vendor string, mappings map[string]string) *Namer {
	if vendor == "" {
		vendor = DefaultVendor
	}
	n := &Namer{
		vendor:   vendor,
		reserved: make(map[string]struct{}, len(reservedWords)),
		mappings: make(map[string]string, len(mappings)),
	}
	for _, w := range reservedWords {
		n.reserved[strings.ToLower(w)] = struct{}{}
	}
	for k, v := range mappings {
		n.mappings[k] = v
	}
	return n
}

func (n *Namer) Vendor() string { return n.vendor }

func (n *Namer) IsReserved(name string) bool {
	_, ok := n.reserved[strings.ToLower(name)]
	return ok
}

// EscapeReservedWord returns the configured mapping for name, or name
// prefixed with an underscore.
func (n *Namer) EscapeReservedWord(name string) string {
	if m, ok := n.mappings[name]; ok {
		return m
	}
	return "_" + name
}

// VarName returns the camelCase variable name for a property or parameter.
func (n *Namer) VarName(name string) string {
	v := Camelize(name, true)
	if v == "" {
		return v
	}
	if n.IsReserved(v) {
		return n.EscapeReservedWord(v)
	}
	return v
}

func (n *Namer) Getter(name string) string { return "get" + Camelize(name, false) }

func (n *Namer) Setter(name string) string { return "set" + Camelize(name, false) }

func (n *Namer) ControllerName(prefix string) string {
	if prefix == "" {
		return "DefaultController"
	}
	return Camelize(prefix, false) + "Controller"
}

func (n *Namer) APIName(prefix string) string {
	if prefix == "" {
		return "DefaultApiInterface"
	}
	return Camelize(prefix, false) + "ApiInterface"
}

// ServiceID returns the container service identifier, "<vendor>.api.<prefix>".
func (n *Namer) ServiceID(prefix string) string {
	p := n.vendor + ".api."
	if prefix == "" {
		return p + "default"
	}
	return p + prefix
}

// EnumLiteral renders an enum value: numeric target types verbatim,
// everything else as an escaped double-quoted string.
func (n *Namer) EnumLiteral(value, datatype string) string {
	switch datatype {
	case "int", "double", "float":
		return value
	}
	return `"` + EscapeText(value) + `"`
}

// BooleanGetter rewrites a get-prefixed accessor into its is-prefixed form.
func BooleanGetter(getter string) string {
	if !strings.HasPrefix(getter, "get") {
		return getter
	}
	return "is" + strings.TrimPrefix(getter, "get")
}

// Camelize converts snake, kebab, dotted or slash separated names into
// UpperCamel (lowerFirst=false) or lowerCamel form.
func Camelize(s string, lowerFirst bool) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '.', ' ':
			return '_'
		}
		return r
	}, s)
	if lowerFirst {
		return strcase.ToLowerCamel(s)
	}
	return strcase.ToCamel(s)
}

var textEscaper = strings.NewReplacer(
	"\t", " ",
	"\n", " ",
	"\r", " ",
	`\`, `\\`,
	`"`, `\"`,
)

// EscapeText escapes backslashes and double quotes, flattens whitespace
// control characters and trims the result.
func EscapeText(s string) string {
	return strings.TrimSpace(textEscaper.Replace(s))
}
