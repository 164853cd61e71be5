package filtergraph

import "errors"

var (
	// ErrNilFilter is returned by [Open] when no filter kind is given.
	ErrNilFilter = errors.New("filter kind must not be nil")

	// ErrNodeFreed is returned when operating on a destroyed node.
	ErrNodeFreed = errors.New("node has been destroyed")

	// ErrNodeOwned is returned by [Graph.AddNode] when the node already
	// belongs to a graph, and by [Node.Free] for a graph-owned node.
	ErrNodeOwned = errors.New("node already belongs to a graph")

	// ErrForeignNode is returned by [Graph.Configure] when a link leads to a
	// node the graph does not own.
	ErrForeignNode = errors.New("linked node belongs to another graph")

	// ErrPadOutOfRange is returned by [Connect] for a pad index beyond the
	// node's pad count.
	ErrPadOutOfRange = errors.New("pad index out of range")

	// ErrPadInUse is returned by [Connect] when a pad already holds a link.
	ErrPadInUse = errors.New("pad already connected")

	// ErrMediaTypeMismatch is returned by [Connect] when the two pads carry
	// different media types.
	ErrMediaTypeMismatch = errors.New("pad media types differ")

	// ErrNoOutputConfig is returned while configuring links when a node
	// without inputs leaves an output link's properties to the default.
	ErrNoOutputConfig = errors.New("output link of a source must be configured by its filter")

	// ErrCircularChain is returned while configuring links when a link is
	// reached again before its own configuration finished.
	ErrCircularChain = errors.New("circular filter chain detected")

	// ErrUnreachable is returned when a link is not configured by any sink
	// traversal.
	ErrUnreachable = errors.New("link not reachable from any sink")
)
