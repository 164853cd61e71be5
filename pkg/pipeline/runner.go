package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/filtergraph/pkg/archive"
	"github.com/matzehuels/filtergraph/pkg/cache"
	"github.com/matzehuels/filtergraph/pkg/filtergraph"
	"github.com/matzehuels/filtergraph/pkg/filters"
	"github.com/matzehuels/filtergraph/pkg/graph"
	"github.com/matzehuels/filtergraph/pkg/graphdesc"
	"github.com/matzehuels/filtergraph/pkg/observability"
)

// cacheKeyType labels report entries in cache hook events.
const cacheKeyType = "report"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its backends - every Execute builds a
// fresh graph. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Store    archive.Store // nil disables archiving
	Registry *filtergraph.Registry
	Logger   *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The registry defaults to [filters.Default]; set Store to archive reports.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Registry: filters.Default(),
		Logger:   logger,
	}
}

// Execute runs the complete parse → configure → render pipeline with caching.
//
// A description that cannot be decoded or built yields a nil Result. When
// configuration itself fails, the Result still carries the failed report and
// its artifacts, and the returned error is the configure error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	desc, err := Parse(opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	hash, err := DescriptionHash(desc)
	if err != nil {
		return nil, fmt.Errorf("hash description: %w", err)
	}
	result.DescHash = hash
	result.Stats.ParseTime = time.Since(parseStart)

	r.Logger.Debug("parsed description",
		"name", desc.Name,
		"nodes", len(desc.Nodes),
		"links", len(desc.Links),
		"duration", result.Stats.ParseTime)

	// Stage 2: Configure
	configureStart := time.Now()
	report, hit, err := r.ConfigureWithCacheInfo(ctx, desc, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("configure: %w", err)
	}
	result.Report = report
	result.CacheInfo.ReportHit = hit
	result.Stats.ConfigureTime = time.Since(configureStart)
	result.Stats.NodeCount = len(report.Nodes)
	result.Stats.LinkCount = len(report.Links)
	result.Stats.AutoInserted = len(report.AutoInserted())

	if report.Configured {
		r.Logger.Info("configured graph",
			"nodes", result.Stats.NodeCount,
			"links", result.Stats.LinkCount,
			"auto_inserted", result.Stats.AutoInserted,
			"cached", hit,
			"duration", result.Stats.ConfigureTime)
	} else {
		r.Logger.Error("configure failed",
			"code", report.Error.Code,
			"node", report.Error.Node,
			"err", report.Error.Message)
	}

	if r.Store != nil {
		if err := r.Store.Put(ctx, &result.Report); err != nil {
			r.Logger.Warn("archive report", "id", result.Report.ID, "err", err)
		}
	}

	// Stage 3: Render
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, err := Render(ctx, result.Report, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)

		r.Logger.Debug("rendered outputs",
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}

	return result, result.Report.Err()
}

// ConfigureWithCacheInfo builds and configures the graph described by desc,
// returning the report and whether it came from cache. hash is the
// description's [DescriptionHash]. A configure failure is recorded in the
// report; the error return is reserved for descriptions that cannot be built.
func (r *Runner) ConfigureWithCacheInfo(ctx context.Context, desc *graphdesc.Description, hash string, opts Options) (graph.Report, bool, error) {
	r.applyLogger(&opts)

	cacheKey := r.Keyer.ReportKey(hash, opts.ReportKeyOpts(r.Registry.Names()))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.ReadReport(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKeyType)
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", cacheKey, "err", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	report, err := r.Configure(ctx, desc, opts)
	if err != nil {
		return graph.Report{}, false, err
	}

	// Cache the result
	if data, err := graph.MarshalReport(report); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLReport); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}

	return report, false, nil
}

// Configure builds the graph described by desc with opts' overrides applied,
// configures it and snapshots the outcome. The graph is destroyed before
// returning.
func (r *Runner) Configure(ctx context.Context, desc *graphdesc.Description, opts Options) (graph.Report, error) {
	r.applyLogger(&opts)

	d := *desc
	applyOverrides(&d, opts)

	g, err := graphdesc.Build(&d,
		filtergraph.WithRegistry(r.Registry),
		filtergraph.WithLogger(opts.Logger))
	if err != nil {
		return graph.Report{}, err
	}
	defer g.Destroy()

	cfgErr := g.Configure(ctx)

	report := graph.FromGraph(g)
	report.ID = archive.NewID()
	report.Name = d.Name
	report.CreatedAt = time.Now().UTC()
	report.Error = graph.FromError(cfgErr)
	return report, nil
}

// Report fetches an archived report by ID.
func (r *Runner) Report(ctx context.Context, id string) (graph.Report, error) {
	if r.Store == nil {
		return graph.Report{}, archive.ErrNotFound
	}
	return r.Store.Get(ctx, id)
}

// Reports lists archived reports, newest first.
func (r *Runner) Reports(ctx context.Context, limit int) ([]graph.Report, error) {
	if r.Store == nil {
		return nil, nil
	}
	return r.Store.List(ctx, limit)
}

// Close releases resources held by the runner (cache and archive).
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Store != nil {
		if serr := r.Store.Close(); err == nil {
			err = serr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
