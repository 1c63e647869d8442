package codegen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/apitypegen/internal/model"
	"github.com/cmmoran/apitypegen/internal/resolve"
)

const petstore = "testdata/petstore.yaml"

func propertyAnnotation(t *testing.T, doc *Document, modelName, prop string) model.Annotation {
	t.Helper()
	for _, m := range doc.Models {
		if m.Name != modelName {
			continue
		}
		for _, p := range m.Properties {
			if p.Name == prop {
				return p.Annotation
			}
		}
	}
	t.Fatalf("property %s.%s not found", modelName, prop)
	return model.Annotation{}
}

func TestGenerate(ttt *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		check   func(t *testing.T, doc *Document)
		wantErr bool
	}{
		{
			name: "generate with defaults",
			opts: []Option{WithInFile(petstore)},
			check: func(t *testing.T, doc *Document) {
				assert.True(t, doc.HideGenerationTimestamp)
				assert.True(t, doc.LegacyTypeHintSupport)
				assert.Equal(t, "core", doc.ModelPackage)
				assert.Equal(t, `ENTITY_ARRAY_OF(ENTITY_ARRAY_OF(ENTITY_INTEGER))`,
					propertyAnnotation(t, doc, "Pet", "scores").EntityType)
				assert.Equal(t, `\core\Pet`, doc.Operations[0].ReturnCommentType)
				assert.Equal(t, "", doc.Operations[1].Parameters[0].Annotation.HintType)
			},
		},
		{
			name: "generate with full type hints",
			opts: []Option{WithInFile(petstore), WithLegacyTypeHintSupport(false)},
			check: func(t *testing.T, doc *Document) {
				assert.False(t, doc.LegacyTypeHintSupport)
				assert.Equal(t, "float", doc.Operations[1].Parameters[0].Annotation.HintType)
				assert.Equal(t, "bool", propertyAnnotation(t, doc, "Pet", "active").HintType)
			},
		},
		{
			name: "generate with modelPackage",
			opts: []Option{WithInFile(petstore), WithModelPackage(`\Acme\Model\`)},
			check: func(t *testing.T, doc *Document) {
				assert.Equal(t, `Acme\Model`, doc.ModelPackage)
				assert.Equal(t, `\Acme\Model\Pet[]`, doc.Operations[1].ReturnCommentType)
			},
		},
		{
			name: "generate with vendor",
			opts: []Option{WithInFile(petstore), WithVendorName("acme")},
			check: func(t *testing.T, doc *Document) {
				require.Len(t, doc.Groups, 2)
				assert.Equal(t, Group{
					PathPrefix:     "pet",
					ControllerName: "PetController",
					APIName:        "PetApiInterface",
					ServiceID:      "acme.api.pet",
					Operations:     []string{"addPet", "findPets"},
					AuthMethods: []*model.AuthMethod{
						{Name: "api_key", Type: "apiKey", In: "header", KeyParamName: "X-API-Key"},
						{Name: "petstore_auth", Type: "oauth2"},
					},
				}, doc.Groups[0])
				assert.Equal(t, "acme.api.store", doc.Groups[1].ServiceID)
			},
		},
		{
			name: "generate with reserved word mapping",
			opts: []Option{WithInFile(petstore), WithReservedWordMapping("list", "items")},
			check: func(t *testing.T, doc *Document) {
				assert.Equal(t, "items", doc.Operations[0].Parameters[0].VarName)
				assert.Equal(t, "'recent'", *doc.Operations[0].Parameters[0].Default)
			},
		},
		{
			name: "generate in parallel",
			opts: []Option{WithInFile(petstore), WithParallel(), WithHideGenerationTimestamp(false)},
			check: func(t *testing.T, doc *Document) {
				assert.False(t, doc.HideGenerationTimestamp)
				assert.Equal(t, "isActive", doc.Models[0].Properties[2].Getter)
			},
		},
		{
			name:    "generate with missing input",
			opts:    []Option{WithInFile("testdata/missing.yaml")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		ttt.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g, err := New(tt.opts...)
			require.NoError(t, err)

			err = g.Run(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			doc, err := g.Document()
			require.NoError(t, err)
			tt.check(t, doc)
		})
	}
}

func TestGenerator_DocumentBeforeAnnotate(t *testing.T) {
	g, err := New()
	require.NoError(t, err)
	_, err = g.Document()
	require.ErrorIs(t, err, ErrNotAnnotated)
	require.Error(t, g.Annotate())
}

func TestGenerator_MalformedSchema(t *testing.T) {
	g, err := New()
	require.NoError(t, err)
	g.SetSchema(&model.Schema{Models: []*model.Model{
		{Name: "Pet", Properties: []*model.Property{{Name: "owner", Type: model.Ref("Owner")}}},
	}})

	err = g.Annotate()
	require.ErrorIs(t, err, resolve.ErrMalformedSchema)
	assert.False(t, g.Schema.Models[0].Properties[0].Annotated)
}

func TestGenerator_GroupsByPathPrefix(t *testing.T) {
	g, err := New()
	require.NoError(t, err)
	g.SetSchema(&model.Schema{Operations: []*model.Operation{
		{OperationID: "one", PathPrefix: "pet-store", AuthMethods: []*model.AuthMethod{{Name: "a", Type: "apiKey"}}},
		{OperationID: "two", PathPrefix: "pet_store", AuthMethods: []*model.AuthMethod{{Name: "b", Type: "apiKey"}}},
	}})
	require.NoError(t, g.Annotate())

	doc, err := g.Document()
	require.NoError(t, err)
	require.Len(t, doc.Groups, 2)
	for i, op := range doc.Operations {
		grp := doc.Groups[i]
		assert.Equal(t, "PetStoreController", grp.ControllerName)
		assert.Equal(t, op.ServiceID, grp.ServiceID)
		assert.Equal(t, []string{op.OperationID}, grp.Operations)
		assert.Equal(t, op.GroupAuthMethods, grp.AuthMethods)
	}
	assert.Equal(t, "swagger.api.pet-store", doc.Groups[0].ServiceID)
	assert.Equal(t, "b", doc.Groups[1].AuthMethods[0].Name)
}

func TestGenerator_WriteFileRoundTrip(t *testing.T) {
	outDir := t.TempDir()
	g, err := New(WithInFile(petstore), WithOutDir(outDir), WithOutFile("pet.yaml"))
	require.NoError(t, err)
	require.NoError(t, g.Run(context.Background()))

	path, err := g.WriteFile()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outDir, "pet.yaml"), path)

	want, err := g.Document()
	require.NoError(t, err)
	got, err := ReadDocument(path)
	require.NoError(t, err)
	annotated := cmpopts.IgnoreFields(model.Property{}, "Annotated")
	annotatedParam := cmpopts.IgnoreFields(model.Parameter{}, "Annotated")
	annotatedOp := cmpopts.IgnoreFields(model.Operation{}, "Annotated")
	if diff := cmp.Diff(want, got, annotated, annotatedParam, annotatedOp); diff != "" {
		t.Fatalf("document round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{`"available"`, `"sold \"out\""`}, got.Models[1].EnumLiterals)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "hideGenerationTimestamp: true")
}

func TestGenerator_LoadData(t *testing.T) {
	data, err := os.ReadFile(petstore)
	require.NoError(t, err)

	g, err := New()
	require.NoError(t, err)
	require.NoError(t, g.LoadData(context.Background(), data))
	require.NoError(t, g.Annotate())

	var buf bytes.Buffer
	require.NoError(t, g.Render(&buf))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []any{"array", "bool", "byte", "double", "float", "int", "mixed", "number", "object", "string", "void"},
		decoded["languagePrimitives"])
}

func TestOptions_Normalize(t *testing.T) {
	o := &Options{ModelPackage: `\\`, OutDir: "./out"}
	o.Normalize()

	assert.Equal(t, resolve.DefaultModelPackage, o.ModelPackage)
	assert.Equal(t, "swagger", o.VendorName)
	assert.Equal(t, DefaultOutFile, o.OutFile)
	assert.True(t, filepath.IsAbs(o.OutDir))
	assert.True(t, filepath.IsAbs(o.InFile))
	assert.Equal(t, filepath.Join(o.OutDir, DefaultOutFile), o.OutPath())
}
