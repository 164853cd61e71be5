package filtergraph

import (
	"fmt"

	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/media"
)

type linkState int

const (
	linkUninit linkState = iota
	linkStartInit
	linkInit
)

// Props are the derived runtime parameters of a link, computed by pad
// configure hooks after negotiation.
type Props struct {
	// Video
	Width, Height     int
	SampleAspectRatio media.Rational

	// Audio
	SampleRate    int
	ChannelLayout media.ChannelLayout

	TimeBase media.Rational

	// Layout is derived from the resolved format and the properties above.
	Layout media.Layout
}

// Link is a directed edge from an output pad of one node to an input pad of
// another. Both pads carry the same media type.
//
// During negotiation a link references two format sets: the formats offered
// by the source and those accepted by the destination. After a successful
// merge both slots reference one shared set; after the pick phase the sets
// are released and [Link.Format] holds the resolved format.
type Link struct {
	src    *Node
	srcPad int
	dst    *Node
	dstPad int
	typ    media.Type

	srcFormats *media.FormatSet
	dstFormats *media.FormatSet
	format     media.Format
	state      linkState

	// Props is filled in by the link configuration phase.
	Props Props
}

// Connect links output pad srcPad of src to input pad dstPad of dst.
// Returns an INVALID_LINK error wrapping [ErrPadOutOfRange], [ErrPadInUse]
// or [ErrMediaTypeMismatch].
func Connect(src *Node, srcPad int, dst *Node, dstPad int) (*Link, error) {
	if src == nil || dst == nil {
		return nil, fgerr.Wrap(fgerr.ErrCodeInvalidLink, ErrNilFilter, "connect: nil node")
	}
	if src.freed || dst.freed {
		return nil, fgerr.Wrap(fgerr.ErrCodeInvalidLink, ErrNodeFreed, "connect %s -> %s", src.name, dst.name)
	}
	if srcPad < 0 || srcPad >= len(src.outputPads) {
		return nil, fgerr.Wrap(fgerr.ErrCodeInvalidLink, ErrPadOutOfRange,
			"output pad %d of %s", srcPad, src.name).WithNode(src.name, src.filter.Name())
	}
	if dstPad < 0 || dstPad >= len(dst.inputPads) {
		return nil, fgerr.Wrap(fgerr.ErrCodeInvalidLink, ErrPadOutOfRange,
			"input pad %d of %s", dstPad, dst.name).WithNode(dst.name, dst.filter.Name())
	}
	if src.outputs[srcPad] != nil {
		return nil, fgerr.Wrap(fgerr.ErrCodeInvalidLink, ErrPadInUse,
			"output pad %q of %s", src.outputPads[srcPad].Name, src.name).
			WithNode(src.name, src.filter.Name()).WithPad(src.outputPads[srcPad].Name, Output.String())
	}
	if dst.inputs[dstPad] != nil {
		return nil, fgerr.Wrap(fgerr.ErrCodeInvalidLink, ErrPadInUse,
			"input pad %q of %s", dst.inputPads[dstPad].Name, dst.name).
			WithNode(dst.name, dst.filter.Name()).WithPad(dst.inputPads[dstPad].Name, Input.String())
	}
	st, dt := src.outputPads[srcPad].Type, dst.inputPads[dstPad].Type
	if st != dt {
		return nil, fgerr.Wrap(fgerr.ErrCodeInvalidLink, ErrMediaTypeMismatch,
			"%s:%d is %s, %s:%d is %s", src.name, srcPad, st, dst.name, dstPad, dt)
	}

	l := &Link{
		src:    src,
		srcPad: srcPad,
		dst:    dst,
		dstPad: dstPad,
		typ:    st,
		format: media.FormatNone,
	}
	src.outputs[srcPad] = l
	dst.inputs[dstPad] = l
	return l, nil
}

// insertBetween splices n into l: l's source now feeds input pad inPad of n
// and a new link connects output pad outPad of n to l's former destination.
// The destination's accepted formats move to the new link.
func insertBetween(l *Link, n *Node, inPad, outPad int) (*Link, error) {
	dst, dstPad := l.dst, l.dstPad
	if inPad < 0 || inPad >= len(n.inputPads) || n.inputs[inPad] != nil {
		return nil, fgerr.Wrap(fgerr.ErrCodeInvalidLink, ErrPadOutOfRange, "insert %s: input pad %d", n.name, inPad)
	}
	if n.inputPads[inPad].Type != l.typ {
		return nil, fgerr.Wrap(fgerr.ErrCodeInvalidLink, ErrMediaTypeMismatch, "insert %s: input pad %d", n.name, inPad)
	}

	dst.inputs[dstPad] = nil
	out, err := Connect(n, outPad, dst, dstPad)
	if err != nil {
		dst.inputs[dstPad] = l
		return nil, err
	}

	l.dst = n
	l.dstPad = inPad
	n.inputs[inPad] = l

	if l.dstFormats != nil {
		media.ChangeRef(&l.dstFormats, &out.dstFormats)
	}
	return out, nil
}

// insertion records a converter spliced into a link by the negotiator.
type insertion struct {
	node *Node
	in   *Link // the original link, now ending at node
	out  *Link // node to the original destination
}

// unsplice reattaches the original link to its former destination and
// detaches both links from the converter.
func (ins insertion) unsplice() {
	in, out, n := ins.in, ins.out, ins.node
	dst, dstPad := out.dst, out.dstPad

	out.release()
	n.outputs[out.srcPad] = nil
	n.inputs[in.dstPad] = nil

	in.dst, in.dstPad = dst, dstPad
	dst.inputs[dstPad] = in
}

// release drops the link's format references.
func (l *Link) release() {
	media.Unref(&l.srcFormats)
	media.Unref(&l.dstFormats)
}

// Src returns the source node.
func (l *Link) Src() *Node { return l.src }

// SrcPad returns the index of the source's output pad.
func (l *Link) SrcPad() int { return l.srcPad }

// Dst returns the destination node.
func (l *Link) Dst() *Node { return l.dst }

// DstPad returns the index of the destination's input pad.
func (l *Link) DstPad() int { return l.dstPad }

// Type returns the media type the link carries.
func (l *Link) Type() media.Type { return l.typ }

// Format returns the resolved format, or [media.FormatNone] before the pick phase.
func (l *Link) Format() media.Format { return l.format }

// FormatName returns the name of the resolved format.
func (l *Link) FormatName() string { return media.FormatName(l.typ, l.format) }

// SrcFormats returns the formats offered by the source, or nil.
func (l *Link) SrcFormats() *media.FormatSet { return l.srcFormats }

// DstFormats returns the formats accepted by the destination, or nil.
func (l *Link) DstFormats() *media.FormatSet { return l.dstFormats }

// Merged reports whether both endpoints reference one shared set.
func (l *Link) Merged() bool { return l.srcFormats != nil && l.srcFormats == l.dstFormats }

// Resolved reports whether the pick phase assigned a format.
func (l *Link) Resolved() bool { return l.format != media.FormatNone }

// Configured reports whether the link configuration phase finished for the link.
func (l *Link) Configured() bool { return l.state == linkInit }

func (l *Link) String() string {
	return fmt.Sprintf("%s:%s -> %s:%s",
		l.src.name, l.src.outputPads[l.srcPad].Name,
		l.dst.name, l.dst.inputPads[l.dstPad].Name)
}
