// Package loader reads an OpenAPI 3 document and produces the schema
// descriptors the resolver annotates: models with their properties in
// declaration order, and operations with parameters, return types and auth
// methods.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/jinzhu/inflection"

	"github.com/cmmoran/apitypegen/internal/model"
	"github.com/cmmoran/apitypegen/internal/naming"
)

var ErrNoDocument = errors.New("no openapi document")

const (
	schemaRefPrefix    = "#/components/schemas/"
	parameterRefPrefix = "#/components/parameters/"
	mimeJSON           = "application/json"
)

var formMimes = []string{"multipart/form-data", "application/x-www-form-urlencoded"}

var pathTrim = strings.NewReplacer("{", "", "}", "")

type config struct {
	validate bool
}

type Option func(*config)

// WithoutValidation skips OpenAPI document validation after parsing.
func WithoutValidation() Option {
	return func(c *config) { c.validate = false }
}

// LoadFile reads and converts the document at path.
func LoadFile(ctx context.Context, path string, opts ...Option) (*model.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := Load(ctx, data, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// Load parses data as an OpenAPI 3 document (YAML or JSON) and converts it.
func Load(ctx context.Context, data []byte, opts ...Option) (*model.Schema, error) {
	cfg := config{validate: true}
	for _, fn := range opts {
		fn(&cfg)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoDocument
	}

	l := openapi3.NewLoader()
	l.Context = ctx
	doc, err := l.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	if cfg.validate {
		if err = doc.Validate(ctx); err != nil {
			return nil, fmt.Errorf("validate openapi document: %w", err)
		}
	}

	c := &converter{
		doc:    doc,
		order:  extractKeyOrder(data),
		inline: make(map[*openapi3.Schema]string),
		names:  make(map[string]struct{}),
	}
	return c.convert(), nil
}

type converter struct {
	doc    *openapi3.T
	order  *keyOrder
	models []*model.Model
	inline map[*openapi3.Schema]string
	names  map[string]struct{}
}

func (c *converter) convert() *model.Schema {
	var schemas openapi3.Schemas
	if c.doc.Components != nil {
		schemas = c.doc.Components.Schemas
	}
	for name := range schemas {
		c.names[name] = struct{}{}
	}
	for _, name := range orderedKeys(c.order.at("components", "schemas"), schemas) {
		c.componentModel(name, schemas[name])
	}

	var ops []*model.Operation
	if c.doc.Paths != nil {
		paths := c.doc.Paths.Map()
		for _, p := range orderedKeys(c.order.at("paths"), paths) {
			ops = append(ops, c.pathOperations(p, paths[p])...)
		}
	}

	return &model.Schema{Models: c.models, Operations: ops}
}

func (c *converter) componentModel(name string, sref *openapi3.SchemaRef) {
	if sref == nil || sref.Value == nil {
		slog.Debug("skipping empty component schema", "schema", name)
		return
	}
	s := sref.Value
	path := []string{"components", "schemas", name}

	if len(s.Enum) > 0 {
		c.models = append(c.models, &model.Model{
			Name:        name,
			Description: s.Description,
			IsEnum:      true,
			EnumType:    c.scalar(s),
			EnumValues:  enumValues(s.Enum),
		})
		return
	}

	m := &model.Model{Name: name, Description: s.Description}
	c.models = append(c.models, m)
	c.inline[s] = name
	c.fillProperties(m, s, path)
}

func (c *converter) inlineModel(s *openapi3.Schema, name string, path []string) string {
	if existing, ok := c.inline[s]; ok {
		return existing
	}
	unique := name
	for i := 2; ; i++ {
		if _, taken := c.names[unique]; !taken {
			break
		}
		unique = name + strconv.Itoa(i)
	}
	c.names[unique] = struct{}{}
	c.inline[s] = unique

	m := &model.Model{Name: unique, Description: s.Description}
	c.models = append(c.models, m)
	c.fillProperties(m, s, path)
	return unique
}

// fillProperties appends the properties of s, including those of its allOf
// members, to m. A later property with the same name replaces the earlier.
func (c *converter) fillProperties(m *model.Model, s *openapi3.Schema, path []string) {
	for i, member := range s.AllOf {
		if member == nil || member.Value == nil {
			continue
		}
		memberPath := sub(path, "allOf", strconv.Itoa(i))
		if strings.HasPrefix(member.Ref, schemaRefPrefix) {
			memberPath = []string{"components", "schemas", strings.TrimPrefix(member.Ref, schemaRefPrefix)}
		}
		c.fillProperties(m, member.Value, memberPath)
	}

	required := make(map[string]struct{}, len(s.Required))
	for _, r := range s.Required {
		required[r] = struct{}{}
	}

	for _, name := range orderedKeys(c.order.at(sub(path, "properties")...), s.Properties) {
		pref := s.Properties[name]
		ref := c.typeRef(pref, m.Name, name, sub(path, "properties", name))
		_, req := required[name]
		prop := &model.Property{
			Name:        name,
			Type:        ref,
			IsContainer: ref.IsContainer(),
			Default:     defaultOf(pref),
			Required:    req,
		}
		if pref != nil && pref.Value != nil {
			prop.Description = pref.Value.Description
		}

		replaced := false
		for i, existing := range m.Properties {
			if existing.Name == name {
				m.Properties[i] = prop
				replaced = true
				break
			}
		}
		if !replaced {
			m.Properties = append(m.Properties, prop)
		}
	}
}

// typeRef converts a schema reference. Inline objects become models named
// after their owner and the property they appear under.
func (c *converter) typeRef(sref *openapi3.SchemaRef, owner, prop string, path []string) *model.TypeRef {
	if sref == nil {
		return model.Prim(model.PrimitiveMixed)
	}
	if strings.HasPrefix(sref.Ref, schemaRefPrefix) {
		return model.Ref(strings.TrimPrefix(sref.Ref, schemaRefPrefix))
	}
	s := sref.Value
	if s == nil {
		return model.Prim(model.PrimitiveMixed)
	}

	switch schemaType(s) {
	case openapi3.TypeArray:
		return model.ArrayOf(c.typeRef(s.Items, owner, inflection.Singular(prop), sub(path, "items")))
	case openapi3.TypeObject, "":
		if len(s.Properties) > 0 || len(s.AllOf) > 0 {
			return model.Ref(c.inlineModel(s, owner+naming.Camelize(prop, false), path))
		}
		if ap := s.AdditionalProperties.Schema; ap != nil {
			return model.MapOf(c.typeRef(ap, owner, prop, sub(path, "additionalProperties")))
		}
		if schemaType(s) == "" {
			return model.Prim(model.PrimitiveMixed)
		}
		return model.Prim(model.PrimitiveObject)
	}
	return c.scalar(s)
}

// scalar maps a primitive schema and its format to a wire primitive.
func (c *converter) scalar(s *openapi3.Schema) *model.TypeRef {
	switch schemaType(s) {
	case openapi3.TypeString:
		switch s.Format {
		case "date":
			return model.Prim(model.PrimitiveDate)
		case "date-time":
			return model.Prim(model.PrimitiveDateTime)
		case "uuid":
			return model.Prim(model.PrimitiveUUID)
		case "binary":
			return model.Prim(model.PrimitiveFile)
		}
		return model.PrimFormat(model.PrimitiveString, s.Format)
	case openapi3.TypeInteger:
		if s.Format == "int64" {
			return model.Prim(model.PrimitiveLong)
		}
		return model.PrimFormat(model.PrimitiveInteger, s.Format)
	case openapi3.TypeNumber:
		switch s.Format {
		case "float":
			return model.Prim(model.PrimitiveFloat)
		case "double":
			return model.Prim(model.PrimitiveDouble)
		}
		return model.PrimFormat(model.PrimitiveNumber, s.Format)
	case openapi3.TypeBoolean:
		return model.Prim(model.PrimitiveBoolean)
	case openapi3.TypeArray:
		return model.Prim(model.PrimitiveArray)
	case openapi3.TypeObject:
		return model.Prim(model.PrimitiveObject)
	}
	return model.Prim(model.PrimitiveMixed)
}

func (c *converter) pathOperations(p string, item *openapi3.PathItem) []*model.Operation {
	if item == nil {
		return nil
	}
	byMethod := make(map[string]*openapi3.Operation)
	for method, op := range item.Operations() {
		byMethod[strings.ToLower(method)] = op
	}

	var out []*model.Operation
	for _, method := range orderedKeys(c.order.at("paths", p), byMethod) {
		out = append(out, c.operation(p, method, item, byMethod[method]))
	}
	return out
}

func (c *converter) operation(p, method string, item *openapi3.PathItem, op *openapi3.Operation) *model.Operation {
	id := op.OperationID
	if id == "" {
		id = naming.Camelize(method+"_"+pathTrim.Replace(p), true)
	}
	out := &model.Operation{
		OperationID: id,
		Method:      strings.ToUpper(method),
		Path:        p,
		PathPrefix:  pathPrefix(op, p),
	}
	owner := naming.Camelize(id, false)

	// path level parameters first, operation level ones override by name and location
	type paramKey struct{ name, in string }
	index := make(map[paramKey]int)
	add := func(param *model.Parameter) {
		k := paramKey{param.Name, param.In}
		if i, ok := index[k]; ok {
			out.Parameters[i] = param
			return
		}
		index[k] = len(out.Parameters)
		out.Parameters = append(out.Parameters, param)
	}
	for i, pref := range item.Parameters {
		if param := c.parameter(pref, owner, []string{"paths", p, "parameters", strconv.Itoa(i)}); param != nil {
			add(param)
		}
	}
	for i, pref := range op.Parameters {
		if param := c.parameter(pref, owner, []string{"paths", p, method, "parameters", strconv.Itoa(i)}); param != nil {
			add(param)
		}
	}
	for _, param := range c.bodyParameters(op, owner, []string{"paths", p, method, "requestBody", "content"}) {
		add(param)
	}

	out.ReturnType = c.returnType(op, owner, []string{"paths", p, method, "responses"})
	out.AuthMethods = c.authMethods(op)
	return out
}

func (c *converter) parameter(pref *openapi3.ParameterRef, owner string, path []string) *model.Parameter {
	if pref == nil || pref.Value == nil {
		return nil
	}
	if strings.HasPrefix(pref.Ref, parameterRefPrefix) {
		path = []string{"components", "parameters", strings.TrimPrefix(pref.Ref, parameterRefPrefix)}
	}
	pv := pref.Value
	if pv.Schema == nil {
		slog.Debug("skipping parameter without schema", "parameter", pv.Name)
		return nil
	}
	ref := c.typeRef(pv.Schema, owner, pv.Name, sub(path, "schema"))
	return &model.Parameter{
		Name:        pv.Name,
		In:          pv.In,
		Type:        ref,
		IsContainer: ref.IsContainer(),
		Default:     defaultOf(pv.Schema),
		Required:    pv.Required,
	}
}

// bodyParameters returns a single "body" parameter for JSON request bodies,
// or one "form" parameter per property for form bodies.
func (c *converter) bodyParameters(op *openapi3.Operation, owner string, path []string) []*model.Parameter {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	rb := op.RequestBody.Value

	if mt := rb.Content.Get(mimeJSON); mt != nil && mt.Schema != nil {
		ref := c.typeRef(mt.Schema, owner, "body", sub(path, mimeJSON, "schema"))
		return []*model.Parameter{{
			Name:        "body",
			In:          "body",
			Type:        ref,
			IsContainer: ref.IsContainer(),
			Required:    rb.Required,
		}}
	}

	for _, mime := range formMimes {
		mt := rb.Content.Get(mime)
		if mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
			continue
		}
		s := mt.Schema.Value
		schemaPath := sub(path, mime, "schema")
		required := make(map[string]struct{}, len(s.Required))
		for _, r := range s.Required {
			required[r] = struct{}{}
		}
		var out []*model.Parameter
		for _, name := range orderedKeys(c.order.at(sub(schemaPath, "properties")...), s.Properties) {
			pref := s.Properties[name]
			ref := c.typeRef(pref, owner, name, sub(schemaPath, "properties", name))
			_, req := required[name]
			out = append(out, &model.Parameter{
				Name:        name,
				In:          "form",
				Type:        ref,
				IsContainer: ref.IsContainer(),
				Default:     defaultOf(pref),
				Required:    req,
			})
		}
		return out
	}

	slog.Debug("request body has no supported content type", "operation", owner)
	return nil
}

// returnType takes the JSON schema of the first of the 200, 201 and default
// responses that has one.
func (c *converter) returnType(op *openapi3.Operation, owner string, path []string) *model.TypeRef {
	if op.Responses == nil {
		return nil
	}
	candidates := []struct {
		key  string
		resp *openapi3.ResponseRef
	}{
		{"200", op.Responses.Status(200)},
		{"201", op.Responses.Status(201)},
		{"default", op.Responses.Default()},
	}
	for _, cand := range candidates {
		if cand.resp == nil || cand.resp.Value == nil {
			continue
		}
		mt := cand.resp.Value.Content.Get(mimeJSON)
		if mt == nil || mt.Schema == nil {
			continue
		}
		return c.typeRef(mt.Schema, owner, "response", sub(path, cand.key, "content", mimeJSON, "schema"))
	}
	return nil
}

// authMethods resolves the operation's security requirements, falling back
// to the document's, against the declared security schemes.
func (c *converter) authMethods(op *openapi3.Operation) []*model.AuthMethod {
	reqs := c.doc.Security
	if op.Security != nil {
		reqs = *op.Security
	}
	var schemes openapi3.SecuritySchemes
	if c.doc.Components != nil {
		schemes = c.doc.Components.SecuritySchemes
	}

	var (
		out  []*model.AuthMethod
		seen = make(map[string]struct{})
	)
	for _, req := range reqs {
		names := make([]string, 0, len(req))
		for name := range req {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			ref, ok := schemes[name]
			if !ok || ref == nil || ref.Value == nil {
				slog.Debug("security requirement names an undeclared scheme", "scheme", name)
				continue
			}
			out = append(out, &model.AuthMethod{
				Name:         name,
				Type:         ref.Value.Type,
				In:           ref.Value.In,
				KeyParamName: ref.Value.Name,
				Scheme:       ref.Value.Scheme,
			})
		}
	}
	return out
}

// pathPrefix is the operation's first tag, else the first path segment.
func pathPrefix(op *openapi3.Operation, p string) string {
	if len(op.Tags) > 0 && op.Tags[0] != "" {
		return op.Tags[0]
	}
	for _, seg := range strings.Split(p, "/") {
		if seg != "" && !strings.HasPrefix(seg, "{") {
			return seg
		}
	}
	return ""
}

func schemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil || len(*s.Type) == 0 {
		return ""
	}
	return (*s.Type)[0]
}

func defaultOf(sref *openapi3.SchemaRef) *string {
	if sref == nil || sref.Value == nil || sref.Value.Default == nil {
		return nil
	}
	v := literal(sref.Value.Default)
	return &v
}

func enumValues(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, literal(v))
	}
	return out
}

// literal renders a decoded default or enum value. Numbers arrive as float64
// and are written without an exponent.
func literal(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}
