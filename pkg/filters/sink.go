package filters

import (
	"github.com/matzehuels/filtergraph/pkg/filtergraph"
	"github.com/matzehuels/filtergraph/pkg/media"
)

// Sink is a terminal kind with one input. It accepts every format of its
// media type unless its arguments name a list:
//
//	buffersink=pix_fmts=yuv420p|nv12
//	abuffersink=fltp
type Sink struct {
	kind
	typ media.Type
	key string
}

// NewBufferSink returns the "buffersink" kind.
func NewBufferSink() *Sink {
	return &Sink{
		kind: kind{
			name:   "buffersink",
			desc:   "Buffer video frames, and make them available to the end of the filter graph.",
			inputs: pads(media.TypeVideo, "default"),
		},
		typ: media.TypeVideo,
		key: "pix_fmts",
	}
}

// NewABufferSink returns the "abuffersink" kind.
func NewABufferSink() *Sink {
	return &Sink{
		kind: kind{
			name:   "abuffersink",
			desc:   "Buffer audio frames, and make them available to the end of the filter graph.",
			inputs: pads(media.TypeAudio, "default"),
		},
		typ: media.TypeAudio,
		key: "sample_fmts",
	}
}

func (s *Sink) Init(n *filtergraph.Node, str string, _ any) error {
	a, err := parseArgs(s.name, str, s.key)
	if err != nil {
		return err
	}
	list, ok := a[s.key]
	if !ok {
		return nil
	}
	fmts, err := formatArg(s.name, s.typ, list)
	if err != nil {
		return err
	}
	n.Priv = fmts
	return nil
}

func (s *Sink) QueryFormats(n *filtergraph.Node) {
	if fmts, ok := n.Priv.([]media.Format); ok {
		n.SetInputFormats(0, media.NewFormatSet(s.typ, fmts...))
	}
}

// Passthrough forwards frames unchanged: "null" and "anull". Its pads share
// one format set, so the formats on both sides always agree.
type Passthrough struct{ kind }

// NewNull returns the "null" kind.
func NewNull() *Passthrough {
	return &Passthrough{kind{
		name:    "null",
		desc:    "Pass the source unchanged to the output.",
		inputs:  pads(media.TypeVideo, "default"),
		outputs: pads(media.TypeVideo, "default"),
	}}
}

// NewANull returns the "anull" kind.
func NewANull() *Passthrough {
	return &Passthrough{kind{
		name:    "anull",
		desc:    "Pass the source unchanged to the output.",
		inputs:  pads(media.TypeAudio, "default"),
		outputs: pads(media.TypeAudio, "default"),
	}}
}

// Format restricts the frames passing through to a list of formats:
//
//	format=pix_fmts=yuv420p|rgb24
//	aformat=s16|fltp
//
// Input and output share the restricted set.
type Format struct {
	kind
	typ media.Type
	key string
}

// NewFormat returns the "format" kind.
func NewFormat() *Format {
	return &Format{
		kind: kind{
			name:    "format",
			desc:    "Convert the input video to one of the specified pixel formats.",
			inputs:  pads(media.TypeVideo, "default"),
			outputs: pads(media.TypeVideo, "default"),
		},
		typ: media.TypeVideo,
		key: "pix_fmts",
	}
}

// NewAFormat returns the "aformat" kind.
func NewAFormat() *Format {
	return &Format{
		kind: kind{
			name:    "aformat",
			desc:    "Convert the input audio to one of the specified sample formats.",
			inputs:  pads(media.TypeAudio, "default"),
			outputs: pads(media.TypeAudio, "default"),
		},
		typ: media.TypeAudio,
		key: "sample_fmts",
	}
}

func (f *Format) Init(n *filtergraph.Node, s string, _ any) error {
	a, err := parseArgs(f.name, s, f.key)
	if err != nil {
		return err
	}
	if err := a.require(f.name, f.key); err != nil {
		return err
	}
	fmts, err := formatArg(f.name, f.typ, a[f.key])
	if err != nil {
		return err
	}
	n.Priv = fmts
	return nil
}

func (f *Format) QueryFormats(n *filtergraph.Node) {
	n.SetCommonFormats(media.NewFormatSet(f.typ, n.Priv.([]media.Format)...))
}

// Split duplicates its input to two outputs: "split" and "asplit".
type Split struct{ kind }

// NewSplit returns the "split" kind.
func NewSplit() *Split {
	return &Split{kind{
		name:    "split",
		desc:    "Pass on the input video to two outputs.",
		inputs:  pads(media.TypeVideo, "default"),
		outputs: pads(media.TypeVideo, "output0", "output1"),
	}}
}

// NewASplit returns the "asplit" kind.
func NewASplit() *Split {
	return &Split{kind{
		name:    "asplit",
		desc:    "Pass on the input audio to two outputs.",
		inputs:  pads(media.TypeAudio, "default"),
		outputs: pads(media.TypeAudio, "output0", "output1"),
	}}
}
