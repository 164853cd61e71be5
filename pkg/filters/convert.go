package filters

import (
	"slices"

	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/filtergraph"
	"github.com/matzehuels/filtergraph/pkg/media"
)

// ScaleFlags lists the accepted scaling algorithms.
var ScaleFlags = []string{"fast_bilinear", "bilinear", "bicubic", "neighbor", "area", "lanczos"}

type scaleParams struct {
	w, h  int
	flags string
}

// Scale converts pixel formats and frame sizes. Arguments:
//
//	w:h[:flags]
//
// A size of 0 keeps the input's; -1 keeps the input aspect ratio relative
// to the other dimension. Input and output enumerate every pixel format as
// independent sets, so any format can be converted to any other.
type Scale struct{ kind }

// NewScale returns the "scale" kind.
func NewScale() *Scale {
	s := &Scale{kind{
		name:   filtergraph.ScaleFilter,
		desc:   "Scale the input video to width:height size and/or convert the image format.",
		inputs: pads(media.TypeVideo, "default"),
	}}
	out := pad("default", media.TypeVideo)
	out.Configure = s.configureOutput
	s.outputs = []filtergraph.PadSpec{out}
	return s
}

func (s *Scale) Init(n *filtergraph.Node, str string, _ any) error {
	a, err := parseArgs(s.name, str, "w", "h", "flags")
	if err != nil {
		return err
	}
	p := &scaleParams{flags: "bicubic"}
	if p.w, err = a.integer(s.name, "w", 0); err != nil {
		return err
	}
	if p.h, err = a.integer(s.name, "h", 0); err != nil {
		return err
	}
	if p.w < -1 || p.h < -1 {
		return fgerr.New(fgerr.ErrCodeInvalidArgs, "scale: invalid size %dx%d", p.w, p.h)
	}
	if f, ok := a["flags"]; ok {
		if !slices.Contains(ScaleFlags, f) {
			return fgerr.New(fgerr.ErrCodeInvalidArgs, "scale: unknown flags %q", f)
		}
		p.flags = f
	}
	n.Priv = p
	return nil
}

func (s *Scale) QueryFormats(n *filtergraph.Node) {
	n.SetInputFormats(0, media.AllFormats(media.TypeVideo))
	n.SetOutputFormats(0, media.AllFormats(media.TypeVideo))
}

func (s *Scale) configureOutput(l *filtergraph.Link) error {
	p := l.Src().Priv.(*scaleParams)
	in := l.Src().Input(0).Props

	w, h := p.w, p.h
	switch {
	case w == -1 && h == -1:
		w, h = in.Width, in.Height
	case w == -1:
		if h == 0 {
			h = in.Height
		}
		w = in.Width * h / max(in.Height, 1)
	case h == -1:
		if w == 0 {
			w = in.Width
		}
		h = in.Height * w / max(in.Width, 1)
	}
	if w == 0 {
		w = in.Width
	}
	if h == 0 {
		h = in.Height
	}

	l.Props.Width, l.Props.Height = w, h
	l.Props.TimeBase = in.TimeBase
	l.Props.SampleAspectRatio = in.SampleAspectRatio
	return nil
}

// Flags returns the scaling algorithm of a scale node.
func (s *Scale) Flags(n *filtergraph.Node) string {
	if p, ok := n.Priv.(*scaleParams); ok {
		return p.flags
	}
	return ""
}

type resampleParams struct {
	rate   int
	layout media.ChannelLayout
}

// Resample converts sample formats, rates and channel layouts. Arguments:
//
//	[sample_rate[:channel_layout]]
//
// Omitted values keep the input's.
type Resample struct{ kind }

// NewResample returns the "resample" kind.
func NewResample() *Resample {
	r := &Resample{kind{
		name:   filtergraph.ResampleFilter,
		desc:   "Resample audio data.",
		inputs: pads(media.TypeAudio, "default"),
	}}
	out := pad("default", media.TypeAudio)
	out.Configure = r.configureOutput
	r.outputs = []filtergraph.PadSpec{out}
	return r
}

func (r *Resample) Init(n *filtergraph.Node, s string, _ any) error {
	a, err := parseArgs(r.name, s, "sample_rate", "channel_layout")
	if err != nil {
		return err
	}
	p := &resampleParams{}
	if p.rate, err = a.integer(r.name, "sample_rate", 0); err != nil {
		return err
	}
	if p.rate < 0 {
		return fgerr.New(fgerr.ErrCodeInvalidArgs, "resample: invalid sample rate %d", p.rate)
	}
	if v, ok := a["channel_layout"]; ok {
		if p.layout, err = media.ParseChannelLayout(v); err != nil {
			return fgerr.Wrap(fgerr.ErrCodeInvalidArgs, err, "%s", r.name)
		}
	}
	n.Priv = p
	return nil
}

func (r *Resample) QueryFormats(n *filtergraph.Node) {
	n.SetInputFormats(0, media.AllFormats(media.TypeAudio))
	n.SetOutputFormats(0, media.AllFormats(media.TypeAudio))
}

func (r *Resample) configureOutput(l *filtergraph.Link) error {
	p := l.Src().Priv.(*resampleParams)
	in := l.Src().Input(0).Props

	l.Props.SampleRate = in.SampleRate
	if p.rate > 0 {
		l.Props.SampleRate = p.rate
	}
	l.Props.ChannelLayout = in.ChannelLayout
	if p.layout != 0 {
		l.Props.ChannelLayout = p.layout
	}
	if l.Props.SampleRate <= 0 {
		return fgerr.New(fgerr.ErrCodeInvalidArgs, "resample: unknown input sample rate")
	}
	l.Props.TimeBase = media.Rational{Num: 1, Den: l.Props.SampleRate}
	return nil
}
