package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/filtergraph/pkg/graph"
	"github.com/matzehuels/filtergraph/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, r graph.Report, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render.Render(ctx, r, format, render.Options{Detailed: opts.Detailed})
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
