package graph

import (
	"time"

	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/filtergraph"
	"github.com/matzehuels/filtergraph/pkg/media"
)

// =============================================================================
// Report - Configured Graph Snapshot
// =============================================================================

// Report is the canonical serialization of a filter graph after a configure
// attempt. Used for CLI output, API responses, caching and archiving.
//
// A successful report lists every node (auto-inserted converters included)
// and every link with its resolved format and properties. A failed report
// carries the structured error and the topology as it stood.
type Report struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string    `json:"name,omitempty" bson:"name,omitempty"`
	Configured bool      `json:"configured" bson:"configured"`
	CreatedAt  time.Time `json:"created_at,omitzero" bson:"created_at,omitempty"`
	Nodes      []Node    `json:"nodes" bson:"nodes"`
	Links      []Link    `json:"links" bson:"links"`
	Error      *Error    `json:"error,omitempty" bson:"error,omitempty"`
}

// Node is one filter instance.
type Node struct {
	Name         string `json:"name" bson:"name"`
	Filter       string `json:"filter" bson:"filter"`
	AutoInserted bool   `json:"auto_inserted,omitempty" bson:"auto_inserted,omitempty"`
	Inputs       []Pad  `json:"inputs,omitempty" bson:"inputs,omitempty"`
	Outputs      []Pad  `json:"outputs,omitempty" bson:"outputs,omitempty"`
}

// Pad is one typed pad of a node.
type Pad struct {
	Name string `json:"name" bson:"name"`
	Type string `json:"type" bson:"type"`
}

// Link is one edge with its negotiated format and derived properties.
// Video-only and audio-only fields are omitted for the other type.
type Link struct {
	From    string `json:"from" bson:"from"`
	FromPad string `json:"from_pad" bson:"from_pad"`
	To      string `json:"to" bson:"to"`
	ToPad   string `json:"to_pad" bson:"to_pad"`
	Type    string `json:"type" bson:"type"`
	Format  string `json:"format,omitempty" bson:"format,omitempty"`

	Width             int    `json:"width,omitempty" bson:"width,omitempty"`
	Height            int    `json:"height,omitempty" bson:"height,omitempty"`
	SampleAspectRatio string `json:"sar,omitempty" bson:"sar,omitempty"`
	SampleRate        int    `json:"sample_rate,omitempty" bson:"sample_rate,omitempty"`
	ChannelLayout     string `json:"channel_layout,omitempty" bson:"channel_layout,omitempty"`
	TimeBase          string `json:"time_base,omitempty" bson:"time_base,omitempty"`
	LineSizes         []int  `json:"line_sizes,omitempty" bson:"line_sizes,omitempty"`
	FrameSize         int    `json:"frame_size,omitempty" bson:"frame_size,omitempty"`
}

// Label returns "from:pad -> to:pad".
func (l Link) Label() string {
	return l.From + ":" + l.FromPad + " -> " + l.To + ":" + l.ToPad
}

// Error is the structured form of a configure failure.
type Error struct {
	Code      string `json:"code" bson:"code"`
	Message   string `json:"message" bson:"message"`
	Node      string `json:"node,omitempty" bson:"node,omitempty"`
	Filter    string `json:"filter,omitempty" bson:"filter,omitempty"`
	Pad       string `json:"pad,omitempty" bson:"pad,omitempty"`
	Direction string `json:"direction,omitempty" bson:"direction,omitempty"`
}

// =============================================================================
// Conversion from filtergraph
// =============================================================================

// FromGraph snapshots g. Links are listed in [filtergraph.Graph.Links] order.
// Unresolved links carry no format and no properties.
func FromGraph(g *filtergraph.Graph) Report {
	r := Report{
		Configured: g.Configured(),
		Nodes:      make([]Node, 0, g.NodeCount()),
		Links:      []Link{},
	}
	for _, n := range g.Nodes() {
		node := Node{
			Name:         n.Name(),
			Filter:       n.Filter().Name(),
			AutoInserted: n.AutoInserted(),
		}
		for i := range n.NumInputs() {
			p := n.InputPad(i)
			node.Inputs = append(node.Inputs, Pad{Name: p.Name, Type: p.Type.String()})
		}
		for i := range n.NumOutputs() {
			p := n.OutputPad(i)
			node.Outputs = append(node.Outputs, Pad{Name: p.Name, Type: p.Type.String()})
		}
		r.Nodes = append(r.Nodes, node)
	}
	for _, l := range g.Links() {
		r.Links = append(r.Links, fromLink(l))
	}
	return r
}

func fromLink(l *filtergraph.Link) Link {
	out := Link{
		From:    l.Src().Name(),
		FromPad: l.Src().OutputPad(l.SrcPad()).Name,
		To:      l.Dst().Name(),
		ToPad:   l.Dst().InputPad(l.DstPad()).Name,
		Type:    l.Type().String(),
	}
	if !l.Resolved() {
		return out
	}
	out.Format = l.FormatName()
	if !l.Configured() {
		return out
	}

	p := l.Props
	switch l.Type() {
	case media.TypeVideo:
		out.Width, out.Height = p.Width, p.Height
		out.SampleAspectRatio = p.SampleAspectRatio.String()
	case media.TypeAudio:
		out.SampleRate = p.SampleRate
		out.ChannelLayout = p.ChannelLayout.String()
	}
	out.TimeBase = p.TimeBase.String()
	out.LineSizes = p.Layout.LineSizes
	out.FrameSize = p.Layout.Size
	return out
}

// FromError converts err into its structured form. Returns nil for nil.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	d, ok := fgerr.Details(err)
	if !ok {
		return &Error{Code: string(fgerr.ErrCodeInternal), Message: err.Error()}
	}
	msg := d.Message
	if d.Cause != nil {
		msg += ": " + d.Cause.Error()
	}
	return &Error{
		Code:      string(d.Code),
		Message:   msg,
		Node:      d.Node,
		Filter:    d.Filter,
		Pad:       d.Pad,
		Direction: d.Direction,
	}
}

// Err reconstructs a coded error from the report's error, or nil.
func (r Report) Err() error {
	if r.Error == nil {
		return nil
	}
	e := r.Error
	return fgerr.New(fgerr.Code(e.Code), "%s", e.Message).
		WithNode(e.Node, e.Filter).
		WithPad(e.Pad, e.Direction)
}

// AutoInserted returns the names of the converter nodes added during
// negotiation.
func (r Report) AutoInserted() []string {
	var out []string
	for _, n := range r.Nodes {
		if n.AutoInserted {
			out = append(out, n.Name)
		}
	}
	return out
}
