package graph_test

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/filtergraph/pkg/filtergraph"
	"github.com/matzehuels/filtergraph/pkg/filters"
	"github.com/matzehuels/filtergraph/pkg/graph"
)

func ExampleWriteReport() {
	g := filtergraph.New(
		filtergraph.WithRegistry(filters.Default()),
		filtergraph.WithLogger(log.New(io.Discard)))
	defer g.Destroy()

	_, _ = g.CreateNodeByName("buffer", "in", "4:2:gray", nil)
	_, _ = g.CreateNodeByName("buffersink", "out", "", nil)
	_, _ = g.Connect("in", 0, "out", 0)
	_ = g.Configure(context.Background())

	if err := graph.WriteReport(graph.FromGraph(g), os.Stdout); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "configured": true,
	//   "nodes": [
	//     {
	//       "name": "in",
	//       "filter": "buffer",
	//       "outputs": [
	//         {
	//           "name": "default",
	//           "type": "video"
	//         }
	//       ]
	//     },
	//     {
	//       "name": "out",
	//       "filter": "buffersink",
	//       "inputs": [
	//         {
	//           "name": "default",
	//           "type": "video"
	//         }
	//       ]
	//     }
	//   ],
	//   "links": [
	//     {
	//       "from": "in",
	//       "from_pad": "default",
	//       "to": "out",
	//       "to_pad": "default",
	//       "type": "video",
	//       "format": "gray",
	//       "width": 4,
	//       "height": 2,
	//       "sar": "1/1",
	//       "time_base": "1/1000000",
	//       "line_sizes": [
	//         4
	//       ],
	//       "frame_size": 8
	//     }
	//   ]
	// }
}

func ExampleFromError() {
	g := filtergraph.New(
		filtergraph.WithRegistry(filters.Default()),
		filtergraph.WithLogger(log.New(io.Discard)))
	defer g.Destroy()

	_, _ = g.CreateNodeByName("buffer", "in", "4:2:gray", nil)

	r := graph.FromGraph(g)
	r.Error = graph.FromError(g.Configure(context.Background()))

	fmt.Println("Configured:", r.Configured)
	fmt.Println("Code:", r.Error.Code)
	fmt.Println("Node:", r.Error.Node, r.Error.Direction, r.Error.Pad)
	// Output:
	// Configured: false
	// Code: DISCONNECTED_PAD
	// Node: in output default
}
