package model

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindInvalid   Kind = iota
	KindPrimitive      // boolean, integer, string, ...
	KindContainer      // array or map wrapper around Elem
	KindReference      // named model, resolved through the registry
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindContainer:
		return "container"
	case KindReference:
		return "reference"
	default:
		return "invalid"
	}
}

type ContainerKind int

const (
	ContainerArray ContainerKind = iota
	ContainerMap
)

func (c ContainerKind) String() string {
	if c == ContainerMap {
		return "map"
	}
	return "array"
}

// PrimitiveType is a wire type name as produced by the schema parser.
// Names outside the known set are kept verbatim.
type PrimitiveType string

const (
	PrimitiveBoolean  PrimitiveType = "boolean"
	PrimitiveInteger  PrimitiveType = "integer"
	PrimitiveLong     PrimitiveType = "long"
	PrimitiveFloat    PrimitiveType = "float"
	PrimitiveDouble   PrimitiveType = "double"
	PrimitiveNumber   PrimitiveType = "number"
	PrimitiveString   PrimitiveType = "string"
	PrimitiveByte     PrimitiveType = "byte"
	PrimitiveBinary   PrimitiveType = "binary"
	PrimitiveVoid     PrimitiveType = "void"
	PrimitiveArray    PrimitiveType = "array"
	PrimitiveObject   PrimitiveType = "object"
	PrimitiveMixed    PrimitiveType = "mixed"
	PrimitiveFile     PrimitiveType = "file"
	PrimitiveDate     PrimitiveType = "date"
	PrimitiveDateTime PrimitiveType = "datetime"
	PrimitiveUUID     PrimitiveType = "uuid"
)

// TypeRef is a typed reference appearing anywhere in the schema.
//
//	KindPrimitive: Primitive (+ optional Format, e.g. "decimal", "id")
//	KindContainer: Container + Elem
//	KindReference: Name of a model
type TypeRef struct {
	Kind      Kind          `json:"kind" yaml:"kind"`
	Primitive PrimitiveType `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Format    string        `json:"format,omitempty" yaml:"format,omitempty"`
	Container ContainerKind `json:"container,omitempty" yaml:"container,omitempty"`
	Elem      *TypeRef      `json:"elem,omitempty" yaml:"elem,omitempty"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
}

func Prim(p PrimitiveType) *TypeRef {
	return &TypeRef{Kind: KindPrimitive, Primitive: p}
}

func PrimFormat(p PrimitiveType, format string) *TypeRef {
	return &TypeRef{Kind: KindPrimitive, Primitive: p, Format: format}
}

func ArrayOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindContainer, Container: ContainerArray, Elem: elem}
}

func MapOf(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindContainer, Container: ContainerMap, Elem: elem}
}

func Ref(name string) *TypeRef {
	return &TypeRef{Kind: KindReference, Name: name}
}

func (t *TypeRef) IsContainer() bool {
	return t != nil && t.Kind == KindContainer
}

func (t *TypeRef) IsReference() bool {
	return t != nil && t.Kind == KindReference
}

// Is reports whether t is the primitive p.
func (t *TypeRef) Is(p PrimitiveType) bool {
	return t != nil && t.Kind == KindPrimitive && t.Primitive == p
}

// String renders t for logs and error messages, e.g. "array<map<Pet>>".
func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}
	var b strings.Builder
	t.write(&b, 0)
	return b.String()
}

func (t *TypeRef) write(b *strings.Builder, depth int) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	switch t.Kind {
	case KindPrimitive:
		b.WriteString(string(t.Primitive))
		if t.Format != "" {
			b.WriteString("(" + t.Format + ")")
		}
	case KindContainer:
		// string form only; cycles are reported by the reducer
		if depth > 16 {
			b.WriteString("...")
			return
		}
		b.WriteString(t.Container.String())
		b.WriteString("<")
		t.Elem.write(b, depth+1)
		b.WriteString(">")
	case KindReference:
		b.WriteString(t.Name)
	default:
		b.WriteString("invalid")
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (c ContainerKind) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "primitive":
		*k = KindPrimitive
	case "container":
		*k = KindContainer
	case "reference":
		*k = KindReference
	case "invalid", "":
		*k = KindInvalid
	default:
		return fmt.Errorf("unknown type kind %q", b)
	}
	return nil
}

func (c *ContainerKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "array", "":
		*c = ContainerArray
	case "map":
		*c = ContainerMap
	default:
		return fmt.Errorf("unknown container kind %q", b)
	}
	return nil
}
