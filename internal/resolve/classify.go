package resolve

import (
	"github.com/cmmoran/apitypegen/internal/model"
)

// ClassKind is the resolved semantic kind of a type reference.
type ClassKind int

const (
	ClassUnsupported ClassKind = iota
	ClassTimestamp
	ClassDate
	ClassDecimal
	ClassLanguage
	ClassString
	ClassIdentifier
	ClassInteger
	ClassFloat
	ClassBoolean
	ClassArrayOf
	ClassEnumString
	ClassEnumInteger
	ClassUnsupportedEnum
	ClassModel
)

func (k ClassKind) String() string {
	switch k {
	case ClassTimestamp:
		return "timestamp"
	case ClassDate:
		return "date"
	case ClassDecimal:
		return "decimal"
	case ClassLanguage:
		return "language"
	case ClassString:
		return "string"
	case ClassIdentifier:
		return "identifier"
	case ClassInteger:
		return "integer"
	case ClassFloat:
		return "float"
	case ClassBoolean:
		return "boolean"
	case ClassArrayOf:
		return "array_of"
	case ClassEnumString:
		return "enum_string"
	case ClassEnumInteger:
		return "enum_integer"
	case ClassUnsupportedEnum:
		return "unsupported_enum"
	case ClassModel:
		return "model"
	default:
		return "unsupported"
	}
}

// IsScalar reports whether k renders as its own target declaration.
func (k ClassKind) IsScalar() bool {
	switch k {
	case ClassTimestamp, ClassDecimal, ClassLanguage, ClassString,
		ClassIdentifier, ClassInteger, ClassFloat, ClassBoolean:
		return true
	}
	return false
}

// Classification is a tagged variant: Elem is set for ClassArrayOf, Model
// for ClassModel.
type Classification struct {
	Kind  ClassKind
	Elem  *Classification
	Model string
}

func (c Classification) String() string {
	switch c.Kind {
	case ClassArrayOf:
		if c.Elem == nil {
			return "array_of(unsupported)"
		}
		return "array_of(" + c.Elem.String() + ")"
	case ClassModel:
		return "model(" + c.Model + ")"
	default:
		return c.Kind.String()
	}
}

// Innermost unwraps ArrayOf layers.
func (c Classification) Innermost() Classification {
	for c.Kind == ClassArrayOf && c.Elem != nil {
		c = *c.Elem
	}
	return c
}

// Classify decides the semantic kind of ref. Rules are tried in order and
// the first match wins:
//
//  1. datetime                → Timestamp
//  2. date                    → Date
//  3. string (uuid)           → Decimal / Language / String by format
//  4. integer (long)          → Identifier / Integer by format
//  5. float, double (number)  → Float
//  6. boolean                 → Boolean
//  7. isContainer             → ArrayOf(element)
//  8. model reference         → EnumString / EnumInteger / UnsupportedEnum / Model
//  9. anything else           → Unsupported
//
// Classify has no side effects and never fails; unknown input degrades to
// Unsupported.
func Classify(ref *model.TypeRef, isContainer bool, reg *Registry) Classification {
	return classify(ref, isContainer, reg, 0)
}

func classify(ref *model.TypeRef, isContainer bool, reg *Registry, depth int) Classification {
	if ref == nil || depth > maxContainerDepth {
		return Classification{Kind: ClassUnsupported}
	}

	if ref.Kind == model.KindPrimitive {
		switch ref.Primitive {
		case model.PrimitiveDateTime:
			return Classification{Kind: ClassTimestamp}
		case model.PrimitiveDate:
			return Classification{Kind: ClassDate}
		case model.PrimitiveString, model.PrimitiveUUID:
			switch ref.Format {
			case "decimal":
				return Classification{Kind: ClassDecimal}
			case "language":
				return Classification{Kind: ClassLanguage}
			}
			return Classification{Kind: ClassString}
		case model.PrimitiveInteger, model.PrimitiveLong:
			if ref.Format == "id" {
				return Classification{Kind: ClassIdentifier}
			}
			return Classification{Kind: ClassInteger}
		case model.PrimitiveFloat, model.PrimitiveDouble, model.PrimitiveNumber:
			return Classification{Kind: ClassFloat}
		case model.PrimitiveBoolean:
			return Classification{Kind: ClassBoolean}
		}
	}

	if isContainer {
		elem := ref
		if ref.Kind == model.KindContainer {
			elem = ref.Elem
		}
		inner := classify(elem, elem.IsContainer(), reg, depth+1)
		return Classification{Kind: ClassArrayOf, Elem: &inner}
	}

	if ref.Kind == model.KindReference && reg != nil {
		m, ok := reg.Lookup(ref.Name)
		if !ok {
			return Classification{Kind: ClassUnsupported}
		}
		if !m.IsEnum {
			return Classification{Kind: ClassModel, Model: ref.Name}
		}
		switch reg.enumTarget(m) {
		case "string":
			return Classification{Kind: ClassEnumString}
		case "int":
			return Classification{Kind: ClassEnumInteger}
		default:
			return Classification{Kind: ClassUnsupportedEnum}
		}
	}

	return Classification{Kind: ClassUnsupported}
}
