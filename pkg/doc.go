// Package pkg provides the libraries behind filtergraph, a media filter graph
// builder and format negotiator.
//
// # Overview
//
// A filter graph is a set of filter instances (nodes) joined by links from an
// output pad to an input pad. Configuring a graph checks that every pad is
// connected, negotiates one pixel or sample format per link (inserting scale
// and resample converters where neighbours cannot agree) and derives each
// link's properties from its source.
//
// # Architecture
//
// The typical data flow:
//
//	TOML / JSON description
//	         ↓
//	    [graphdesc] package (decode + validate + build)
//	         ↓
//	    [filtergraph] package (validity → negotiation → link configuration)
//	         ↓
//	    [graph] package (report snapshot)
//	         ↓
//	    [render] package (DOT / SVG / PNG)
//
// [pipeline] runs these stages with caching ([cache]) and archiving
// ([archive]) for both the CLI and the HTTP API.
//
// # Quick Start
//
//	g := filtergraph.New(filtergraph.WithRegistry(filters.Default()))
//	defer g.Destroy()
//
//	g.CreateNodeByName("buffer", "in", "320:240:rgb24", nil)
//	g.CreateNodeByName("buffersink", "out", "yuv420p", nil)
//	g.Connect("in", 0, "out", 0)
//
//	if err := g.Configure(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	report := graph.FromGraph(g) // in -> scale -> out
//
// # Main Packages
//
// [filtergraph] - Graph construction, the filter registry, format
// negotiation and link configuration.
//
// [filters] - The built-in filter kinds: sources, sinks, pass-through,
// format restriction and the scale and resample converters.
//
// [media] - Media types, pixel and sample formats, and format sets.
//
// [graphdesc] - TOML and JSON graph descriptions.
//
// [graph] - Serialization of configure outcomes as reports.
//
// [render] - Graphviz renderings of reports.
//
// [errors] - Coded errors naming the node and pad at fault.
//
// [observability] - Hooks for graph, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include MongoDB tests
//
// [filtergraph]: https://pkg.go.dev/github.com/matzehuels/filtergraph/pkg/filtergraph
// [filters]: https://pkg.go.dev/github.com/matzehuels/filtergraph/pkg/filters
// [media]: https://pkg.go.dev/github.com/matzehuels/filtergraph/pkg/media
// [graphdesc]: https://pkg.go.dev/github.com/matzehuels/filtergraph/pkg/graphdesc
// [graph]: https://pkg.go.dev/github.com/matzehuels/filtergraph/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/filtergraph/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/filtergraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/filtergraph/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/filtergraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/filtergraph/pkg/cache
// [archive]: https://pkg.go.dev/github.com/matzehuels/filtergraph/pkg/archive
package pkg
