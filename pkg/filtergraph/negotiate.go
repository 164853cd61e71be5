package filtergraph

import (
	"context"
	"fmt"
	"time"

	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/media"
	"github.com/matzehuels/filtergraph/pkg/observability"
)

// Names of the filter kinds the negotiator inserts between links whose
// format sets do not intersect.
const (
	ScaleFilter    = "scale"
	ResampleFilter = "resample"
)

// Name prefixes of auto-inserted converters; a per-kind counter follows.
const (
	scalerRole    = "auto-inserted scaler"
	resamplerRole = "auto-inserted resampler"
)

// negotiator holds the state of one negotiation run.
type negotiator struct {
	g          *Graph
	ctx        context.Context
	scalers    int
	resamplers int
	reductions int
}

// negotiate resolves every link to exactly one format in four phases:
// query, merge (inserting converters as needed), reduce and pick.
func (g *Graph) negotiate(ctx context.Context) error {
	start := time.Now()
	ng := &negotiator{g: g, ctx: ctx}

	ng.query()
	if err := ng.merge(); err != nil {
		return err
	}
	ng.reduce()
	ng.pick()

	observability.Graph().OnNegotiated(ctx, len(g.Links()), ng.reductions, time.Since(start))
	g.logger.Debug("negotiated formats",
		"scalers", ng.scalers,
		"resamplers", ng.resamplers,
		"reductions", ng.reductions)
	return nil
}

// query asks every node for its supported formats.
func (ng *negotiator) query() {
	for _, n := range ng.g.nodes {
		n.queryFormats()
	}
}

// merge intersects the two format sets of every link. Links with no common
// format get a converter spliced in. Nodes appended by an insertion are
// visited by the same pass.
func (ng *negotiator) merge() error {
	for i := 0; i < len(ng.g.nodes); i++ {
		n := ng.g.nodes[i]
		for j := range n.inputs {
			l := n.inputs[j]
			if l == nil || l.Merged() {
				continue
			}
			if media.Merge(l.srcFormats, l.dstFormats) != nil {
				continue
			}
			if err := ng.convert(l); err != nil {
				return err
			}
		}
	}
	return nil
}

// convert inserts a scaler or resampler into l and merges both new links.
func (ng *negotiator) convert(l *Link) error {
	g := ng.g
	src, dst := l.src, l.dst

	var kind, role, args string
	var counter *int
	switch l.typ {
	case media.TypeVideo:
		kind, role, counter = ScaleFilter, scalerRole, &ng.scalers
		args = "0:0:" + g.scaleOptions
	case media.TypeAudio:
		kind, role, counter = ResampleFilter, resamplerRole, &ng.resamplers
	default:
		return fgerr.New(fgerr.ErrCodeUnsupportedMediaType,
			"cannot convert %s formats between %q and %q", l.typ, src.name, dst.name).
			WithNode(dst.name, dst.filter.Name()).
			WithPad(dst.inputPads[l.dstPad].Name, Input.String())
	}

	f, ok := g.registry.Lookup(kind)
	if !ok {
		return fgerr.New(fgerr.ErrCodeConversionFilter,
			"%q filter not present, cannot convert %s formats between %q and %q", kind, l.typ, src.name, dst.name).
			WithNode(dst.name, dst.filter.Name()).
			WithPad(dst.inputPads[l.dstPad].Name, Input.String())
	}

	conv, err := g.CreateNode(f, ng.uniqueName(role, counter), args, nil)
	if err != nil {
		return err
	}
	conv.autoInserted = true

	out, err := insertBetween(l, conv, 0, 0)
	if err != nil {
		g.dropNode(conv)
		return err
	}
	g.inserted = append(g.inserted, insertion{node: conv, in: l, out: out})

	g.logger.Info("auto-inserting filter",
		"filter", conv.name,
		"src", src.name,
		"dst", dst.name)
	observability.Graph().OnFilterInserted(ng.ctx, conv.name, kind, src.name, dst.name)

	conv.queryFormats()
	if media.Merge(l.srcFormats, l.dstFormats) == nil || media.Merge(out.srcFormats, out.dstFormats) == nil {
		return fgerr.New(fgerr.ErrCodeIncompatibleFormats,
			"impossible to convert between the formats supported by the filter %q and the filter %q",
			src.name, dst.name).
			WithNode(dst.name, dst.filter.Name())
	}
	return nil
}

// uniqueName returns "<role> <n>" for the lowest counter value whose name is
// not taken, advancing the counter past it.
func (ng *negotiator) uniqueName(role string, counter *int) string {
	for {
		name := fmt.Sprintf("%s %d", role, *counter)
		*counter++
		if _, taken := ng.g.FindNode(name); !taken {
			return name
		}
	}
}

// reduce propagates formats already forced on a node's inputs to its
// output links of the same media type, until a pass changes nothing.
// Each collapse shrinks a set for good, so the loop terminates.
func (ng *negotiator) reduce() {
	for {
		changed := false
		for _, n := range ng.g.nodes {
			if ng.reduceNode(n) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func (ng *negotiator) reduceNode(n *Node) bool {
	changed := false
	for _, in := range n.inputs {
		if in.dstFormats.Len() != 1 {
			continue
		}
		f := in.dstFormats.At(0)

		for _, out := range n.outputs {
			if out.typ != in.typ || out.srcFormats.Len() == 1 {
				continue
			}
			if out.srcFormats.Collapse(f) {
				ng.g.logger.Debug("reduced link format",
					"link", out.String(),
					"format", media.FormatName(out.typ, f))
				ng.reductions++
				changed = true
			}
		}
	}
	return changed
}

// pick resolves every link to the first remaining candidate and releases
// its format sets.
func (ng *negotiator) pick() {
	for _, n := range ng.g.nodes {
		for _, l := range n.inputs {
			pickFormat(l)
		}
		for _, l := range n.outputs {
			pickFormat(l)
		}
	}
}

func pickFormat(l *Link) {
	if l == nil || l.srcFormats == nil {
		return
	}
	l.format = l.srcFormats.At(0)
	l.release()
}
