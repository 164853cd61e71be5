// Package filtergraph builds, validates and negotiates media filter graphs.
//
// A [Graph] owns [Node] values, each an instance of a [Filter] kind with a
// fixed set of typed input and output pads. [Connect] joins an output pad to
// an input pad of the same media type with a [Link]. Once the topology is
// complete, [Graph.Configure] runs three phases and either leaves the graph
// fully configured or returns the first error:
//
//  1. Validity: every pad of every node must hold a link (DISCONNECTED_PAD).
//  2. Negotiation: every link is resolved to exactly one format.
//  3. Link configuration: every link's runtime properties (dimensions,
//     sample rate, time base, buffer layout) are computed, walking upstream
//     from each sink.
//
// # Negotiation
//
// Negotiation has four phases:
//
//   - Query: each node enumerates its formats per pad ([FormatQuerier]);
//     slots it leaves empty receive every format of the pad's media type,
//     one set shared by all such pads of the node.
//   - Merge: each link's offered and accepted sets are intersected in the
//     source's preference order. When the intersection is empty, a "scale"
//     (video) or "resample" (audio) node from the graph's [Registry] is
//     spliced into the link and both new links are merged instead.
//   - Reduce: a format already forced on a node's input is propagated to
//     its same-typed output links wherever they still allow it, until a
//     full pass changes nothing.
//   - Pick: every link takes the first remaining candidate.
//
// # Example
//
//	g := filtergraph.New(filtergraph.WithRegistry(filters.Default()))
//	defer g.Destroy()
//
//	src, _ := g.CreateNodeByName("buffer", "in", "320:240:rgb24", nil)
//	dst, _ := g.CreateNodeByName("buffersink", "out", "yuv420p", nil)
//	if _, err := filtergraph.Connect(src, 0, dst, 0); err != nil {
//	    return err
//	}
//	if err := g.Configure(ctx); err != nil {
//	    return err
//	}
//	// g now holds "in", "out" and "auto-inserted scaler 0".
//
// Graphs are built and configured on one goroutine; nothing here is safe
// for concurrent use.
package filtergraph
