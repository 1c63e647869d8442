package resolve

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/cmmoran/apitypegen/internal/model"
)

// DefaultModelPackage is the namespace segment model classes live in.
const DefaultModelPackage = "core"

// primitiveMapping maps wire type names to target-language primitives.
var primitiveMapping = map[model.PrimitiveType]string{
	model.PrimitiveInteger:  "int",
	model.PrimitiveLong:     "int",
	model.PrimitiveByte:     "int",
	model.PrimitiveNumber:   "float",
	model.PrimitiveFloat:    "float",
	model.PrimitiveDouble:   "double",
	model.PrimitiveString:   "string",
	model.PrimitiveBinary:   "string",
	model.PrimitiveUUID:     "string",
	model.PrimitiveBoolean:  "bool",
	model.PrimitiveDate:     `\DateTime`,
	model.PrimitiveDateTime: `\DateTime`,
	model.PrimitiveFile:     "UploadedFile",
	model.PrimitiveArray:    "array",
	model.PrimitiveObject:   "array",
	model.PrimitiveVoid:     "void",
	model.PrimitiveMixed:    "mixed",
	"map":                   "array",
	"list":                  "array",
}

var languagePrimitives = []string{
	"bool", "int", "double", "float", "string", "object", "mixed", "number", "void", "byte", "array",
}

// Registry is the run-scoped, read-only view of the schema's type system:
// the primitive mapping plus every model by name. Build it once per run and
// share it; it is never mutated after Build returns.
type Registry struct {
	modelPackage string
	primitives   map[model.PrimitiveType]string
	language     map[string]struct{}
	models       map[string]*model.Model
}

type RegistryOption func(*Registry)

// WithModelPackage sets the namespace used to qualify model names.
func WithModelPackage(pkg string) RegistryOption {
	return func(r *Registry) { r.modelPackage = strings.Trim(pkg, `\`) }
}

// Build indexes models by name in a single pass. A later model with the same
// name replaces the earlier one. Every reference reachable from model
// properties must resolve, otherwise a *MalformedSchemaError is returned.
func Build(models []*model.Model, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		modelPackage: DefaultModelPackage,
		primitives:   make(map[model.PrimitiveType]string, len(primitiveMapping)),
		language:     make(map[string]struct{}, len(languagePrimitives)),
		models:       make(map[string]*model.Model, len(models)),
	}
	for _, fn := range opts {
		fn(r)
	}
	for k, v := range primitiveMapping {
		r.primitives[k] = v
	}
	for _, p := range languagePrimitives {
		r.language[p] = struct{}{}
	}

	for _, m := range models {
		if m == nil {
			continue
		}
		if _, dup := r.models[m.Name]; dup {
			slog.Debug("duplicate model name, later definition wins", "model", m.Name)
		}
		r.models[m.Name] = m
	}

	for _, m := range models {
		if m == nil {
			continue
		}
		for _, prop := range m.Properties {
			if prop == nil {
				continue
			}
			if err := r.Validate(prop.Type); err != nil {
				return nil, at(err, "model "+m.Name+" property "+prop.Name)
			}
		}
	}

	return r, nil
}

// Validate checks that ref terminates and, when it reduces to a model
// reference, that the model is registered.
func (r *Registry) Validate(ref *model.TypeRef) error {
	elem, err := Reduce(ref)
	if err != nil {
		return err
	}
	if elem.IsReference() {
		if _, ok := r.models[elem.Name]; !ok {
			return &MalformedSchemaError{Ref: elem.Name, Reason: "dangling model reference"}
		}
	}
	return nil
}

// ValidateOperations runs Validate over every parameter and return type.
func (r *Registry) ValidateOperations(ops []*model.Operation) error {
	for _, op := range ops {
		if op == nil {
			continue
		}
		for _, param := range op.Parameters {
			if param == nil {
				continue
			}
			if err := r.Validate(param.Type); err != nil {
				return at(err, "operation "+op.OperationID+" parameter "+param.Name)
			}
		}
		if err := r.Validate(op.ReturnType); err != nil {
			return at(err, "operation "+op.OperationID+" return type")
		}
	}
	return nil
}

// Lookup returns the model registered under name.
func (r *Registry) Lookup(name string) (*model.Model, bool) {
	m, ok := r.models[name]
	return m, ok
}

func (r *Registry) Len() int { return len(r.models) }

func (r *Registry) ModelPackage() string { return r.modelPackage }

// TargetPrimitive returns the target-language name of a wire primitive.
func (r *Registry) TargetPrimitive(p model.PrimitiveType) (string, bool) {
	t, ok := r.primitives[p]
	return t, ok
}

func (r *Registry) IsLanguagePrimitive(name string) bool {
	_, ok := r.language[name]
	return ok
}

// LanguagePrimitives returns the target primitives in sorted order.
func (r *Registry) LanguagePrimitives() []string {
	out := make([]string, 0, len(r.language))
	for p := range r.language {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// QualifiedName returns the fully-qualified class name of a model.
func (r *Registry) QualifiedName(name string) string {
	if r.modelPackage == "" {
		return `\` + name
	}
	return `\` + r.modelPackage + `\` + name
}

// Declaration returns the target type declaration of ref's element type:
// mapped primitives, unmapped wire names verbatim, qualified model names.
func (r *Registry) Declaration(ref *model.TypeRef) string {
	elem := element(ref)
	if elem == nil {
		return "mixed"
	}
	switch elem.Kind {
	case model.KindPrimitive:
		if t, ok := r.primitives[elem.Primitive]; ok {
			return t
		}
		return string(elem.Primitive)
	case model.KindReference:
		return r.QualifiedName(elem.Name)
	default:
		return "mixed"
	}
}

// enumTarget is the target primitive backing an enum model, "" when the
// enum has no primitive underlying type.
func (r *Registry) enumTarget(m *model.Model) string {
	if m.EnumType == nil || m.EnumType.Kind != model.KindPrimitive {
		return ""
	}
	return r.primitives[m.EnumType.Primitive]
}
