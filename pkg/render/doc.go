// Package render draws configure reports as node-link diagrams.
//
// # Overview
//
// [ToDOT] turns a [graph.Report] into Graphviz DOT source. Each node is a
// box labelled with its name and filter kind; each link is an arrow labelled
// with its negotiated format. Auto-inserted converters are drawn dashed and
// grey, and the node named by a failed report's error is outlined in red.
//
// [RenderSVG] and [RenderPNG] lay the DOT graph out with Graphviz (the
// WebAssembly build bundled by goccy/go-graphviz, so no system install is
// needed).
//
//	dot := render.ToDOT(report, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [Render] dispatches on an output format name and is what the CLI and
// pipeline call.
package render
