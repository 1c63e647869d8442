package resolve

import (
	"log/slog"

	"github.com/sourcegraph/conc/iter"

	"github.com/cmmoran/apitypegen/internal/model"
	"github.com/cmmoran/apitypegen/internal/naming"
)

// Namer is the naming collaborator consulted by the pipeline.
type Namer interface {
	VarName(name string) string
	Getter(name string) string
	Setter(name string) string
	ControllerName(prefix string) string
	APIName(prefix string) string
	ServiceID(prefix string) string
	EnumLiteral(value, datatype string) string
}

// Config selects the per-run policies.
type Config struct {
	LegacyTypeHintSupport bool
	ModelPackage          string
	Parallel              bool
}

// Pipeline attaches entity, comment and hint types to every parameter and
// property of a schema. It reads the registry and never writes it.
type Pipeline struct {
	registry *Registry
	policy   HintPolicy
	namer    Namer
	parallel bool
}

func NewPipeline(reg *Registry, namer Namer, cfg Config) *Pipeline {
	if namer == nil {
		namer = naming.New("", nil)
	}
	return &Pipeline{
		registry: reg,
		policy:   NewHintPolicy(cfg.LegacyTypeHintSupport),
		namer:    namer,
		parallel: cfg.Parallel,
	}
}

func (p *Pipeline) Registry() *Registry { return p.registry }

func (p *Pipeline) Policy() HintPolicy { return p.policy }

// Run builds the registry for s, validates every reference and annotates
// all models and operations. On error nothing in s has been modified.
func Run(s *model.Schema, namer Namer, cfg Config) (*Pipeline, error) {
	pkg := cfg.ModelPackage
	if pkg == "" {
		pkg = DefaultModelPackage
	}
	reg, err := Build(s.Models, WithModelPackage(pkg))
	if err != nil {
		return nil, err
	}
	if err = reg.ValidateOperations(s.Operations); err != nil {
		return nil, err
	}

	p := NewPipeline(reg, namer, cfg)
	p.AnnotateModels(s.Models)
	p.AnnotateOperations(s.Operations)

	slog.Debug("schema annotated",
		"models", len(s.Models),
		"operations", len(s.Operations),
		"legacy_type_hints", cfg.LegacyTypeHintSupport,
	)
	return p, nil
}

// AnnotateModels annotates every property of every model. Property order
// within a model is preserved.
func (p *Pipeline) AnnotateModels(models []*model.Model) {
	models = uniqueModels(models)
	if p.parallel {
		iter.ForEach(models, func(m **model.Model) { p.AnnotateModel(*m) })
		return
	}
	for _, m := range models {
		p.AnnotateModel(m)
	}
}

func (p *Pipeline) AnnotateModel(m *model.Model) {
	for _, prop := range m.Properties {
		if prop == nil {
			continue
		}
		p.AnnotateProperty(prop)
	}
	if m.IsEnum && m.EnumLiterals == nil && len(m.EnumValues) > 0 {
		datatype := p.registry.Declaration(m.EnumType)
		m.EnumLiterals = make([]string, 0, len(m.EnumValues))
		for _, v := range m.EnumValues {
			m.EnumLiterals = append(m.EnumLiterals, p.namer.EnumLiteral(v, datatype))
		}
	}
}

// AnnotateProperty annotates prop once; later calls are no-ops.
func (p *Pipeline) AnnotateProperty(prop *model.Property) {
	if prop.Annotated {
		return
	}
	if prop.VarName == "" {
		prop.VarName = p.namer.VarName(prop.Name)
	}
	if prop.Getter == "" {
		prop.Getter = p.namer.Getter(prop.Name)
	}
	if prop.Setter == "" {
		prop.Setter = p.namer.Setter(prop.Name)
	}

	c := Classify(prop.Type, prop.IsContainer, p.registry)
	prop.Annotation = p.annotation(c, prop.Type, prop.IsContainer)
	if c.Kind == ClassBoolean {
		prop.Getter = naming.BooleanGetter(prop.Getter)
	}
	if c.Innermost().Kind == ClassUnsupported {
		slog.Debug("property type degraded to unsupported",
			"property", prop.Name, "type", prop.Type.String())
	}
	prop.Annotated = true
}

// AnnotateParameter annotates param once; later calls are no-ops.
func (p *Pipeline) AnnotateParameter(param *model.Parameter) {
	if param.Annotated {
		return
	}
	if param.VarName == "" {
		param.VarName = p.namer.VarName(param.Name)
	}

	c := Classify(param.Type, param.IsContainer, p.registry)
	param.Annotation = p.annotation(c, param.Type, param.IsContainer)
	if c.Kind == ClassString && param.Default != nil && *param.Default != "" {
		quoted := "'" + *param.Default + "'"
		param.Default = &quoted
	}
	param.Annotated = true
}

func (p *Pipeline) annotation(c Classification, ref *model.TypeRef, isContainer bool) model.Annotation {
	return model.Annotation{
		EntityType:     EntityType(c, p.registry),
		CommentType:    CommentType(ref, isContainer, p.registry),
		HintType:       p.policy.Hint(ref, isContainer, p.registry),
		Classification: c.String(),
	}
}

type operationGroup struct {
	prefix string
	ops    []*model.Operation
}

// AnnotateOperations groups operations by path prefix, annotates their
// parameters and return types, and gives every operation of a group the
// group's controller, API and service names and merged auth methods.
func (p *Pipeline) AnnotateOperations(ops []*model.Operation) {
	groups := groupOperations(ops)
	if p.parallel {
		iter.ForEach(groups, func(g *operationGroup) { p.annotateGroup(g) })
		return
	}
	for i := range groups {
		p.annotateGroup(&groups[i])
	}
}

func (p *Pipeline) annotateGroup(g *operationGroup) {
	auth := mergeAuthMethods(g.ops)
	controller := p.namer.ControllerName(g.prefix)
	api := p.namer.APIName(g.prefix)
	service := p.namer.ServiceID(g.prefix)

	for _, op := range g.ops {
		for _, param := range op.Parameters {
			if param == nil {
				continue
			}
			p.AnnotateParameter(param)
		}
		op.ControllerName = controller
		op.APIName = api
		op.ServiceID = service
		op.GroupAuthMethods = append([]*model.AuthMethod(nil), auth...)
		if !op.Annotated {
			op.ReturnCommentType = ReturnCommentType(op.ReturnType, p.registry)
			if op.ReturnType != nil {
				op.ReturnHintType = p.policy.Hint(op.ReturnType, op.ReturnType.IsContainer(), p.registry)
			}
			op.Annotated = true
		}
	}
}

func groupOperations(ops []*model.Operation) []operationGroup {
	var (
		groups []operationGroup
		index  = make(map[string]int)
		seen   = make(map[*model.Operation]struct{}, len(ops))
	)
	for _, op := range ops {
		if op == nil {
			continue
		}
		if _, dup := seen[op]; dup {
			continue
		}
		seen[op] = struct{}{}
		i, ok := index[op.PathPrefix]
		if !ok {
			i = len(groups)
			index[op.PathPrefix] = i
			groups = append(groups, operationGroup{prefix: op.PathPrefix})
		}
		groups[i].ops = append(groups[i].ops, op)
	}
	return groups
}

// mergeAuthMethods unions the auth methods of ops by name, first seen wins.
func mergeAuthMethods(ops []*model.Operation) []*model.AuthMethod {
	var (
		out  []*model.AuthMethod
		seen = make(map[string]struct{})
	)
	for _, op := range ops {
		for _, am := range op.AuthMethods {
			if am == nil {
				continue
			}
			if _, ok := seen[am.Name]; ok {
				continue
			}
			seen[am.Name] = struct{}{}
			out = append(out, am)
		}
	}
	return out
}

func uniqueModels(models []*model.Model) []*model.Model {
	out := make([]*model.Model, 0, len(models))
	seen := make(map[*model.Model]struct{}, len(models))
	for _, m := range models {
		if m == nil {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
