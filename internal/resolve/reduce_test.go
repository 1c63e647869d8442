package resolve

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/apitypegen/internal/model"
)

func nest(ref *model.TypeRef, depth int, wrap func(*model.TypeRef) *model.TypeRef) *model.TypeRef {
	for i := 0; i < depth; i++ {
		ref = wrap(ref)
	}
	return ref
}

func TestReduce_NestedContainers(t *testing.T) {
	for _, depth := range []int{0, 1, 2, 5, maxContainerDepth} {
		t.Run(fmt.Sprintf("depth=%d", depth), func(t *testing.T) {
			leaf := model.PrimFormat(model.PrimitiveString, "decimal")
			got, err := Reduce(nest(leaf, depth, model.ArrayOf))
			require.NoError(t, err)
			require.Same(t, leaf, got)
		})
	}
}

func TestReduce_MixedContainers(t *testing.T) {
	leaf := model.Ref("Pet")
	got, err := Reduce(model.ArrayOf(model.MapOf(model.ArrayOf(leaf))))
	require.NoError(t, err)
	require.Same(t, leaf, got)
}

func TestReduce_NonContainerUnchanged(t *testing.T) {
	for _, ref := range []*model.TypeRef{
		model.Prim(model.PrimitiveInteger),
		model.Ref("Pet"),
		nil,
	} {
		got, err := Reduce(ref)
		require.NoError(t, err)
		require.Same(t, ref, got)
	}
}

func TestReduce_Cycle(t *testing.T) {
	a := &model.TypeRef{Kind: model.KindContainer}
	b := model.MapOf(a)
	a.Elem = b

	_, err := Reduce(a)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMalformedSchema))

	var mse *MalformedSchemaError
	require.True(t, errors.As(err, &mse))
	require.Contains(t, mse.Reason, "cyclic")
}

func TestReduce_TooDeep(t *testing.T) {
	_, err := Reduce(nest(model.Prim(model.PrimitiveString), maxContainerDepth+1, model.ArrayOf))
	require.ErrorIs(t, err, ErrMalformedSchema)
}

func TestReduce_MissingElement(t *testing.T) {
	_, err := Reduce(model.ArrayOf(nil))
	require.ErrorIs(t, err, ErrMalformedSchema)
	require.ErrorContains(t, err, "container without element type")
}
