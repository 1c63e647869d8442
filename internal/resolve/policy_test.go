package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmmoran/apitypegen/internal/model"
)

func TestHintPolicy_Hint(t *testing.T) {
	reg := testRegistry(t)
	legacy := NewHintPolicy(true)
	full := NewHintPolicy(false)

	tests := []struct {
		name        string
		ref         *model.TypeRef
		isContainer bool
		wantLegacy  string
		wantFull    string
	}{
		{"float", model.Prim(model.PrimitiveFloat), false, "", "float"},
		{"double", model.Prim(model.PrimitiveDouble), false, "", ""},
		{"integer", model.Prim(model.PrimitiveInteger), false, "", "int"},
		{"boolean", model.Prim(model.PrimitiveBoolean), false, "", "bool"},
		{"string", model.Prim(model.PrimitiveString), false, "", "string"},
		{"datetime", model.Prim(model.PrimitiveDateTime), false, `\DateTime`, `\DateTime`},
		{"file", model.Prim(model.PrimitiveFile), false, "UploadedFile", "UploadedFile"},
		{"object", model.Prim(model.PrimitiveObject), false, "array", "array"},
		{"container", model.ArrayOf(model.Prim(model.PrimitiveFloat)), true, "array", "array"},
		{"model", model.Ref("Pet"), false, "Pet", "Pet"},
		{"enum", model.Ref("Status"), false, "Status", "Status"},
		{"unresolved", model.Ref("Ghost"), false, "", ""},
		{"mixed", nil, false, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantLegacy, legacy.Hint(tc.ref, tc.isContainer, reg), "legacy")
			assert.Equal(t, tc.wantFull, full.Hint(tc.ref, tc.isContainer, reg), "full")
		})
	}

	assert.True(t, legacy.Legacy())
	assert.False(t, legacy.Hintable("int"))
	assert.True(t, full.Hintable("int"))
}

func TestCommentType(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name        string
		ref         *model.TypeRef
		isContainer bool
		want        string
	}{
		{"integer", model.Prim(model.PrimitiveInteger), false, "int"},
		{"double", model.Prim(model.PrimitiveDouble), false, "double"},
		{"date", model.Prim(model.PrimitiveDate), false, SimpleDateType},
		{"date array", model.ArrayOf(model.Prim(model.PrimitiveDate)), true, SimpleDateType + "[]"},
		{"datetime", model.Prim(model.PrimitiveDateTime), false, `\DateTime`},
		{"enum string", model.Ref("Status"), false, "string"},
		{"enum integer", model.Ref("Priority"), false, "int"},
		{"enum float", model.Ref("Ratio"), false, "mixed"},
		{"model", model.Ref("Pet"), false, `\core\Pet`},
		{"nested model array", model.ArrayOf(model.ArrayOf(model.Ref("Pet"))), true, `\core\Pet[]`},
		{"file", model.Prim(model.PrimitiveFile), false, `\UploadedFile`},
		{"unknown primitive", model.Prim("geopoint"), false, `\geopoint`},
		{"object", model.Prim(model.PrimitiveObject), false, "array"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CommentType(tc.ref, tc.isContainer, reg))
		})
	}
}

func TestReturnCommentType(t *testing.T) {
	reg := testRegistry(t)
	assert.Equal(t, "void", ReturnCommentType(nil, reg))
	assert.Equal(t, `\core\Pet`, ReturnCommentType(model.Ref("Pet"), reg))
	assert.Equal(t, `\core\Pet[]`, ReturnCommentType(model.MapOf(model.Ref("Pet")), reg))
	assert.Equal(t, "string", ReturnCommentType(model.Ref("Status"), reg))
}

func TestEntityType(t *testing.T) {
	reg := testRegistry(t)
	assert.Equal(t, "ENTITY_ARRAY_OF(ENTITY_ARRAY_OF(ENTITY_INTEGER))",
		EntityType(Classify(model.ArrayOf(model.ArrayOf(model.Prim(model.PrimitiveInteger))), true, reg), reg))
	assert.Equal(t, `ENTITY_REFERENCE(\core\Pet)`, EntityType(Classify(model.Ref("Pet"), false, reg), reg))
	assert.Equal(t, "ENTITY_INTEGER", EntityType(Classify(model.Ref("Priority"), false, reg), reg))
	assert.Equal(t, "ENTITY_UNSUPPORTED", EntityType(Classification{}, reg))
}
