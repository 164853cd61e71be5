// Package graph provides the serialization types for configured filter graphs.
//
// This package defines the canonical wire format for filter graph reports,
// used for CLI output, API responses, caching and archiving.
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - [Report], [Node], [Link], [Error]: serialization types (this package)
//   - pkg/filtergraph.Graph: live graph with nodes, pads and links
//
// Use [FromGraph] to snapshot a graph after [filtergraph.Graph.Configure],
// and [FromError] to attach the failure when configuration did not succeed.
//
// # Report Format
//
//	{
//	  "configured": true,
//	  "nodes": [
//	    {"name": "in", "filter": "buffer", "outputs": [{"name": "default", "type": "video"}]},
//	    {"name": "out", "filter": "buffersink", "inputs": [{"name": "default", "type": "video"}]}
//	  ],
//	  "links": [
//	    {"from": "in", "from_pad": "default", "to": "out", "to_pad": "default",
//	     "type": "video", "format": "yuv420p", "width": 320, "height": 240}
//	  ]
//	}
//
// Struct tags carry both json and bson names so the same values are stored
// by the report archive without a separate schema.
package graph
