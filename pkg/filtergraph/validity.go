package filtergraph

import (
	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
)

// checkValidity fails with DISCONNECTED_PAD for the first pad, in node
// insertion order, that holds no link. Inputs are checked before outputs.
// A link whose peer the graph does not own fails with INVALID_LINK.
func (g *Graph) checkValidity() error {
	for _, n := range g.nodes {
		for i, l := range n.inputs {
			if l == nil || l.src == nil {
				return disconnected(n, n.inputPads[i], Input, "source")
			}
			if l.src.graph != g {
				return foreign(n, n.inputPads[i], Input, l.src)
			}
		}
		for i, l := range n.outputs {
			if l == nil || l.dst == nil {
				return disconnected(n, n.outputPads[i], Output, "destination")
			}
			if l.dst.graph != g {
				return foreign(n, n.outputPads[i], Output, l.dst)
			}
		}
	}
	return nil
}

func disconnected(n *Node, p PadSpec, dir Direction, peer string) error {
	return fgerr.New(fgerr.ErrCodeDisconnectedPad,
		"%s pad %q for the filter %q of type %q not connected to any %s",
		dir, p.Name, n.name, n.filter.Name(), peer).
		WithNode(n.name, n.filter.Name()).
		WithPad(p.Name, dir.String())
}

func foreign(n *Node, p PadSpec, dir Direction, peer *Node) error {
	return fgerr.Wrap(fgerr.ErrCodeInvalidLink, ErrForeignNode,
		"%s pad %q for the filter %q is linked to %q, which is not in this graph",
		dir, p.Name, n.name, peer.name).
		WithNode(n.name, n.filter.Name()).
		WithPad(p.Name, dir.String())
}
