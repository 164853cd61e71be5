package filtergraph

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/media"
)

// Node is an instance of a filter kind with fixed input and output pads.
//
// The zero value is not usable - use [Open] or [Graph.CreateNode].
// Nodes are not safe for concurrent use.
type Node struct {
	name   string
	filter Filter

	inputPads  []PadSpec
	outputPads []PadSpec
	inputs     []*Link
	outputs    []*Link

	// Priv holds state owned by the filter kind, typically set in Init.
	Priv any

	graph        *Graph
	autoInserted bool
	freed        bool
}

// Open instantiates a filter kind into a node. The node is not part of any
// graph yet and has no links. An empty name is replaced by a generated one
// of the form "<kind>_<8 hex digits>".
func Open(f Filter, name string) (*Node, error) {
	if f == nil {
		return nil, fgerr.Wrap(fgerr.ErrCodeInvalidInput, ErrNilFilter, "open node %q", name)
	}
	if err := fgerr.ValidateNodeName(name); err != nil {
		return nil, err
	}
	if name == "" {
		name = fmt.Sprintf("%s_%s", f.Name(), uuid.NewString()[:8])
	}

	n := &Node{
		name:       name,
		filter:     f,
		inputPads:  slices.Clone(f.Inputs()),
		outputPads: slices.Clone(f.Outputs()),
	}
	n.inputs = make([]*Link, len(n.inputPads))
	n.outputs = make([]*Link, len(n.outputPads))
	return n, nil
}

// Init applies instantiation arguments through the kind's [Initializer].
// Kinds without an initializer accept only empty arguments.
func (n *Node) Init(args string, opaque any) error {
	if n.freed {
		return fgerr.Wrap(fgerr.ErrCodeInvalidInput, ErrNodeFreed, "init %s", n.name)
	}
	init, ok := n.filter.(Initializer)
	if !ok {
		if args != "" {
			return fgerr.New(fgerr.ErrCodeInvalidArgs, "filter %q takes no arguments", n.filter.Name()).
				WithNode(n.name, n.filter.Name())
		}
		return nil
	}
	if err := init.Init(n, args, opaque); err != nil {
		if fgerr.GetCode(err) != "" {
			return err
		}
		return fgerr.Wrap(fgerr.ErrCodeInvalidArgs, err, "init %s", n.name).
			WithNode(n.name, n.filter.Name())
	}
	return nil
}

// Free destroys a node that no graph owns: the kind's [Uninitializer] runs,
// every attached link is detached from the surviving peer and its format
// sets are released. Freeing a node twice is a no-op.
//
// A node owned by a graph is destroyed only by that graph; Free returns an
// error wrapping [ErrNodeOwned] for it. Use [Graph.RemoveNode] instead.
func (n *Node) Free() error {
	if n.graph != nil {
		return fgerr.Wrap(fgerr.ErrCodeInvalidInput, ErrNodeOwned, "free %s: remove it from its graph instead", n.name)
	}
	n.destroy()
	return nil
}

func (n *Node) destroy() {
	if n.freed {
		return
	}
	n.freed = true

	if u, ok := n.filter.(Uninitializer); ok {
		u.Uninit(n)
	}

	for i, l := range n.inputs {
		if l == nil {
			continue
		}
		if l.src != nil && l.src.outputs[l.srcPad] == l {
			l.src.outputs[l.srcPad] = nil
		}
		l.release()
		n.inputs[i] = nil
	}
	for i, l := range n.outputs {
		if l == nil {
			continue
		}
		if l.dst != nil && l.dst.inputs[l.dstPad] == l {
			l.dst.inputs[l.dstPad] = nil
		}
		l.release()
		n.outputs[i] = nil
	}
	n.graph = nil
}

// Name returns the node's unique name.
func (n *Node) Name() string { return n.name }

// Filter returns the node's filter kind.
func (n *Node) Filter() Filter { return n.filter }

// AutoInserted reports whether the negotiator inserted the node to convert
// between incompatible formats.
func (n *Node) AutoInserted() bool { return n.autoInserted }

// Freed reports whether the node has been destroyed.
func (n *Node) Freed() bool { return n.freed }

// NumInputs returns the number of input pads.
func (n *Node) NumInputs() int { return len(n.inputPads) }

// NumOutputs returns the number of output pads.
func (n *Node) NumOutputs() int { return len(n.outputPads) }

// InputPad returns the spec of input pad i.
func (n *Node) InputPad(i int) PadSpec { return n.inputPads[i] }

// OutputPad returns the spec of output pad i.
func (n *Node) OutputPad(i int) PadSpec { return n.outputPads[i] }

// Input returns the link attached to input pad i, or nil.
func (n *Node) Input(i int) *Link { return n.inputs[i] }

// Output returns the link attached to output pad i, or nil.
func (n *Node) Output(i int) *Link { return n.outputs[i] }

// InputIndex returns the index of the input pad called name, or -1.
func (n *Node) InputIndex(name string) int {
	return slices.IndexFunc(n.inputPads, func(p PadSpec) bool { return p.Name == name })
}

// OutputIndex returns the index of the output pad called name, or -1.
func (n *Node) OutputIndex(name string) int {
	return slices.IndexFunc(n.outputPads, func(p PadSpec) bool { return p.Name == name })
}

// SetInputFormats attaches s as the accepted formats of input pad i.
// It is a no-op for an unconnected pad.
func (n *Node) SetInputFormats(i int, s *media.FormatSet) {
	if l := n.inputs[i]; l != nil {
		media.Unref(&l.dstFormats)
		s.Ref(&l.dstFormats)
	}
}

// SetOutputFormats attaches s as the offered formats of output pad i.
// It is a no-op for an unconnected pad.
func (n *Node) SetOutputFormats(i int, s *media.FormatSet) {
	if l := n.outputs[i]; l != nil {
		media.Unref(&l.srcFormats)
		s.Ref(&l.srcFormats)
	}
}

// SetCommonFormats attaches s to every connected pad of s's media type whose
// slot is still empty. All those pads then share one set, so narrowing it on
// one side narrows it on every side.
func (n *Node) SetCommonFormats(s *media.FormatSet) {
	for _, l := range n.inputs {
		if l != nil && l.typ == s.Type() && l.dstFormats == nil {
			s.Ref(&l.dstFormats)
		}
	}
	for _, l := range n.outputs {
		if l != nil && l.typ == s.Type() && l.srcFormats == nil {
			s.Ref(&l.srcFormats)
		}
	}
}

// queryFormats runs the kind's enumeration and fills every slot left empty
// with all formats of its media type, one shared set per type.
func (n *Node) queryFormats() {
	if q, ok := n.filter.(FormatQuerier); ok {
		q.QueryFormats(n)
	}

	var types []media.Type
	for _, l := range slices.Concat(n.inputs, n.outputs) {
		if l != nil && !slices.Contains(types, l.typ) {
			types = append(types, l.typ)
		}
	}
	for _, t := range types {
		n.SetCommonFormats(media.AllFormats(t))
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%s (%s)", n.name, n.filter.Name())
}
