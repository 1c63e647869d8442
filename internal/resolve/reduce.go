package resolve

import (
	"fmt"

	"github.com/cmmoran/apitypegen/internal/model"
)

// maxContainerDepth bounds container nesting. Schema sources cannot nest
// this deep legally, so hitting it means the graph has a cycle.
const maxContainerDepth = 64

// Reduce strips array and map wrappers from ref until a primitive or a
// model reference is reached. Non-container refs are returned unchanged.
func Reduce(ref *model.TypeRef) (*model.TypeRef, error) {
	return reduce(ref, ref, 0)
}

func reduce(root, ref *model.TypeRef, depth int) (*model.TypeRef, error) {
	if ref == nil || ref.Kind != model.KindContainer {
		return ref, nil
	}
	if depth >= maxContainerDepth {
		return nil, &MalformedSchemaError{
			Ref:    root.String(),
			Reason: fmt.Sprintf("container nesting deeper than %d (cyclic element chain)", maxContainerDepth),
		}
	}
	if ref.Elem == nil {
		return nil, &MalformedSchemaError{
			Ref:    root.String(),
			Reason: "container without element type",
		}
	}
	return reduce(root, ref.Elem, depth+1)
}

// element is Reduce for refs that already passed validation; malformed
// chains yield nil.
func element(ref *model.TypeRef) *model.TypeRef {
	elem, err := Reduce(ref)
	if err != nil {
		return nil
	}
	return elem
}
