// Package pipeline provides the configure pipeline shared by the CLI and the
// HTTP API.
//
// This package implements the complete parse → configure → render pipeline.
// By centralizing this logic, both entry points agree on defaults, cache keys
// and the shape of the resulting report.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode a TOML or JSON graph description
//  2. Configure: build the filter graph, negotiate formats, configure links
//     and snapshot the outcome as a [graph.Report]
//  3. Render: draw the report in the requested output formats
//
// Configure results are cached by description content and options, and
// archived when the [Runner] has a store.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "chain.toml",
//	    Formats: []string{"svg"},
//	})
//	if err != nil && result == nil {
//	    log.Fatal(err) // invalid description
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/filtergraph/pkg/cache"
	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/graph"
	"github.com/matzehuels/filtergraph/pkg/graphdesc"
	"github.com/matzehuels/filtergraph/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultFormat is the description encoding assumed when neither a format
// nor a file extension says otherwise.
const DefaultFormat = graphdesc.FormatTOML

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Parse options. Description takes precedence over Path.
	Description []byte
	Format      graphdesc.Format
	Path        string

	// Configure options. Non-zero values override the description's.
	ScaleOptions string
	MaxNodes     int
	Refresh      bool

	// Render options. No formats means no artifacts.
	Formats  []string
	Detailed bool

	// Runtime options
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Report is the configure outcome, successful or not.
	Report graph.Report

	// DescHash is the content hash of the canonical description.
	DescHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the report came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	LinkCount     int
	AutoInserted  int
	ParseTime     time.Duration
	ConfigureTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ReportHit bool // Whether the report came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	for _, f := range render.Formats {
		if f == format {
			return nil
		}
	}
	return fgerr.New(fgerr.ErrCodeInvalidArgs, "invalid format: %q (must be one of: svg, png, dot, json)", format)
}

// ValidateFormats checks that all output formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateDescriptionFormat checks that a description encoding is valid.
func ValidateDescriptionFormat(format graphdesc.Format) error {
	switch format {
	case graphdesc.FormatTOML, graphdesc.FormatJSON:
		return nil
	}
	return fgerr.New(fgerr.ErrCodeInvalidArgs, "invalid description format: %q (must be one of: toml, json)", format)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Description) == 0 && o.Path == "" {
		return fgerr.New(fgerr.ErrCodeInvalidInput, "description or path is required")
	}
	if o.Format == "" {
		if len(o.Description) == 0 {
			o.Format = graphdesc.DetectFormat(o.Path)
		} else {
			o.Format = DefaultFormat
		}
	}
	if err := ValidateDescriptionFormat(o.Format); err != nil {
		return err
	}
	if o.MaxNodes < 0 {
		return fgerr.New(fgerr.ErrCodeInvalidArgs, "max_nodes must be >= 0, got %d", o.MaxNodes)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ReportKeyOpts returns cache key options for the configure stage. filters
// are the registry's filter names, so registering a converter invalidates
// reports that failed for lack of one.
func (o *Options) ReportKeyOpts(filters []string) cache.ReportKeyOpts {
	return cache.ReportKeyOpts{
		ScaleOptions: o.ScaleOptions,
		MaxNodes:     o.MaxNodes,
		Filters:      filters,
	}
}
