package resolve

import (
	"strings"

	"github.com/cmmoran/apitypegen/internal/model"
)

// SimpleDateType is the documentation alias for date-only values.
const SimpleDateType = `\SimpleDate`

// EntityType renders the runtime entity tag of c. ArrayOf nests.
func EntityType(c Classification, reg *Registry) string {
	switch c.Kind {
	case ClassTimestamp:
		return "ENTITY_TIMESTAMP"
	case ClassDate:
		return "ENTITY_DATE"
	case ClassDecimal:
		return "ENTITY_DECIMAL"
	case ClassLanguage:
		return "ENTITY_LANG"
	case ClassString, ClassEnumString:
		return "ENTITY_STRING"
	case ClassIdentifier:
		return "ENTITY_ID"
	case ClassInteger, ClassEnumInteger:
		return "ENTITY_INTEGER"
	case ClassFloat:
		return "ENTITY_FLOAT"
	case ClassBoolean:
		return "ENTITY_BOOLEAN"
	case ClassArrayOf:
		if c.Elem == nil {
			return "ENTITY_ARRAY_OF(ENTITY_UNSUPPORTED)"
		}
		return "ENTITY_ARRAY_OF(" + EntityType(*c.Elem, reg) + ")"
	case ClassModel:
		return "ENTITY_REFERENCE(" + reg.QualifiedName(c.Model) + ")"
	default:
		return "ENTITY_UNSUPPORTED"
	}
}

// CommentType renders the documentation type of ref. Scalars use their
// target declaration, dates the SimpleDate alias, enums their backing
// primitive ("mixed" when it is neither string nor int), models and
// embedded types a qualified name. Containers get one "[]" suffix.
func CommentType(ref *model.TypeRef, isContainer bool, reg *Registry) string {
	c := Classify(ref, isContainer, reg).Innermost()

	var doc string
	switch {
	case c.Kind.IsScalar():
		doc = reg.Declaration(ref)
	case c.Kind == ClassDate:
		doc = SimpleDateType
	case c.Kind == ClassEnumString:
		doc = "string"
	case c.Kind == ClassEnumInteger:
		doc = "int"
	case c.Kind == ClassUnsupportedEnum:
		doc = "mixed"
	case c.Kind == ClassModel:
		doc = reg.QualifiedName(c.Model)
	default:
		doc = qualify(reg.Declaration(ref), reg)
	}

	if isContainer {
		doc += "[]"
	}
	return doc
}

// ReturnCommentType is CommentType for operation results; no result is void.
func ReturnCommentType(ret *model.TypeRef, reg *Registry) string {
	if ret == nil {
		return "void"
	}
	return CommentType(ret, ret.IsContainer(), reg)
}

func qualify(decl string, reg *Registry) string {
	if strings.HasPrefix(decl, `\`) || reg.IsLanguagePrimitive(decl) {
		return decl
	}
	return `\` + decl
}
