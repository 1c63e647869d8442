package codegen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cmmoran/apitypegen/internal/model"
)

// Document is the render-ready result of a generation run.
type Document struct {
	HideGenerationTimestamp bool               `json:"hideGenerationTimestamp" yaml:"hideGenerationTimestamp"`
	LegacyTypeHintSupport   bool               `json:"legacyTypeHintSupport" yaml:"legacyTypeHintSupport"`
	ModelPackage            string             `json:"modelPackage" yaml:"modelPackage"`
	VendorName              string             `json:"composerVendorName" yaml:"composerVendorName"`
	LanguagePrimitives      []string           `json:"languagePrimitives" yaml:"languagePrimitives"`
	Groups                  []Group            `json:"groups,omitempty" yaml:"groups,omitempty"`
	Models                  []*model.Model     `json:"models,omitempty" yaml:"models,omitempty"`
	Operations              []*model.Operation `json:"operations,omitempty" yaml:"operations,omitempty"`
}

// Group summarizes the operations sharing a path prefix.
type Group struct {
	PathPrefix     string              `json:"pathPrefix" yaml:"pathPrefix"`
	ControllerName string              `json:"controllerName" yaml:"controllerName"`
	APIName        string              `json:"apiName" yaml:"apiName"`
	ServiceID      string              `json:"serviceId" yaml:"serviceId"`
	Operations     []string            `json:"operations" yaml:"operations"`
	AuthMethods    []*model.AuthMethod `json:"authMethods,omitempty" yaml:"authMethods,omitempty"`
}

// groups collects annotated operations by path prefix, first seen first.
// Distinct prefixes may camelize to the same controller name.
func groups(ops []*model.Operation) []Group {
	var (
		out   []Group
		index = make(map[string]int)
	)
	for _, op := range ops {
		if op == nil {
			continue
		}
		i, ok := index[op.PathPrefix]
		if !ok {
			i = len(out)
			index[op.PathPrefix] = i
			out = append(out, Group{
				PathPrefix:     op.PathPrefix,
				ControllerName: op.ControllerName,
				APIName:        op.APIName,
				ServiceID:      op.ServiceID,
				AuthMethods:    op.GroupAuthMethods,
			})
		}
		out[i].Operations = append(out[i].Operations, op.OperationID)
	}
	return out
}

// ReadDocument decodes a rendered document from path.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	var doc Document
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document %s: %w", path, err)
	}
	return &doc, nil
}
