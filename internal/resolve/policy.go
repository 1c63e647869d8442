package resolve

import (
	"github.com/cmmoran/apitypegen/internal/model"
)

var (
	// legacy runtimes can only declare array parameters natively
	legacyHintable = []string{"array"}
	fullHintable   = []string{"array", "bool", "float", "int", "string"}

	// defaultIncludes are referenced by their fully-qualified class name
	defaultIncludes = []string{`\DateTime`, "UploadedFile"}
)

// HintPolicy decides which declarations may be emitted as native type
// hints. It is fixed for a generation run.
type HintPolicy struct {
	legacy   bool
	hintable map[string]struct{}
	includes map[string]struct{}
}

// NewHintPolicy returns the policy for the legacy (array-only) or full
// hintable primitive set.
func NewHintPolicy(legacy bool) HintPolicy {
	set := fullHintable
	if legacy {
		set = legacyHintable
	}
	p := HintPolicy{
		legacy:   legacy,
		hintable: make(map[string]struct{}, len(set)),
		includes: make(map[string]struct{}, len(defaultIncludes)),
	}
	for _, s := range set {
		p.hintable[s] = struct{}{}
	}
	for _, s := range defaultIncludes {
		p.includes[s] = struct{}{}
	}
	return p
}

func (p HintPolicy) Legacy() bool { return p.legacy }

func (p HintPolicy) Hintable(decl string) bool {
	_, ok := p.hintable[decl]
	return ok
}

// Hint returns the native type hint for ref, or "" when none can be
// expressed. Containers hint as array, hintable primitives and default
// includes as themselves, model references by their simple name.
func (p HintPolicy) Hint(ref *model.TypeRef, isContainer bool, reg *Registry) string {
	if isContainer {
		return "array"
	}
	decl := reg.Declaration(ref)
	if p.Hintable(decl) {
		return decl
	}
	if _, ok := p.includes[decl]; ok {
		return decl
	}
	if elem := element(ref); elem.IsReference() {
		if _, ok := reg.Lookup(elem.Name); ok {
			return elem.Name
		}
	}
	return ""
}
