package filtergraph

import (
	"github.com/matzehuels/filtergraph/pkg/media"
)

// PadSpec declares one input or output pad of a filter kind.
type PadSpec struct {
	Name string
	Type media.Type

	// Configure computes the derived properties of the link attached to the
	// pad once its format is resolved. For output pads a nil Configure copies
	// the properties of the node's first input; for input pads nil means
	// nothing to do.
	Configure func(l *Link) error
}

// Filter is a filter kind: the capability contract a node dispatches to.
// Kinds may additionally implement [Initializer], [FormatQuerier],
// [Uninitializer] and [Describer].
type Filter interface {
	Name() string
	Inputs() []PadSpec
	Outputs() []PadSpec
}

// Initializer applies instantiation arguments to a freshly opened node.
// Per-node state is kept in [Node.Priv].
type Initializer interface {
	Init(n *Node, args string, opaque any) error
}

// FormatQuerier enumerates the formats a node supports on each of its pads
// using [Node.SetInputFormats], [Node.SetOutputFormats] and
// [Node.SetCommonFormats]. Slots left empty receive every format of the
// pad's media type.
type FormatQuerier interface {
	QueryFormats(n *Node)
}

// Uninitializer releases per-node state when a node is destroyed.
type Uninitializer interface {
	Uninit(n *Node)
}

// Describer provides a one-line description for filter listings.
type Describer interface {
	Description() string
}

// Direction is the role of a pad.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}
