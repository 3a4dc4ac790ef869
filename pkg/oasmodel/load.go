package oasmodel

import (
	"context"
	"fmt"
	"io"

	"github.com/speakeasy-api/openapi/openapi"
)

// Load builds a model from a full OpenAPI document. Component schemas
// become the model's elements and the document's info version becomes the
// API version token; a root-level x-api-version extension overrides it.
// Reference-only components are skipped: the model owns structural shapes,
// not resolution of foreign documents.
func Load(ctx context.Context, r io.Reader) (*Model, error) {
	doc, validationErrs, err := openapi.Unmarshal(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	if len(validationErrs) > 0 {
		return nil, fmt.Errorf("OpenAPI validation failed: %v", validationErrs[0])
	}

	version := doc.Info.Version
	if doc.Extensions != nil {
		if node, ok := doc.Extensions.Get(ExtAPIVersion); ok && node != nil && node.Value != "" {
			version = node.Value
		}
	}

	m := New(version)
	if doc.Components == nil || doc.Components.Schemas == nil {
		return m, nil
	}
	for name, js := range doc.Components.Schemas.All() {
		schema := js.GetLeft()
		if schema == nil {
			continue
		}
		m.AddSchema(name, schema)
	}
	return m, nil
}
