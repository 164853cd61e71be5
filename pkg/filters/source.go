package filters

import (
	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/filtergraph"
	"github.com/matzehuels/filtergraph/pkg/media"
)

// VideoParams are the stream parameters of a "buffer" source.
type VideoParams struct {
	Width, Height     int
	Format            media.Format
	TimeBase          media.Rational
	SampleAspectRatio media.Rational
}

// AudioParams are the stream parameters of an "abuffer" source.
type AudioParams struct {
	SampleRate    int
	ChannelLayout media.ChannelLayout
	Format        media.Format
	TimeBase      media.Rational
}

// Buffer is the video source kind. Arguments:
//
//	width:height:pix_fmt[:time_base[:sar]]
//
// The opaque value may be a *VideoParams, in which case args must be empty.
type Buffer struct{ kind }

// NewBuffer returns the "buffer" kind.
func NewBuffer() *Buffer {
	b := &Buffer{kind{name: "buffer", desc: "Buffer video frames for use in a filter graph."}}
	out := pad("default", media.TypeVideo)
	out.Configure = b.configureOutput
	b.outputs = []filtergraph.PadSpec{out}
	return b
}

func (b *Buffer) Init(n *filtergraph.Node, s string, opaque any) error {
	if p, ok := opaque.(*VideoParams); ok && s == "" {
		if p.Width <= 0 || p.Height <= 0 {
			return fgerr.New(fgerr.ErrCodeInvalidArgs, "buffer: invalid size %dx%d", p.Width, p.Height)
		}
		if _, ok := media.Describe(media.TypeVideo, p.Format); !ok {
			return fgerr.New(fgerr.ErrCodeInvalidFormat, "buffer: unknown pixel format %d", p.Format)
		}
		cp := *p
		n.Priv = &cp
		return nil
	}

	a, err := parseArgs(b.name, s, "width", "height", "pix_fmt", "time_base", "sar")
	if err != nil {
		return err
	}
	if err := a.require(b.name, "width", "height", "pix_fmt"); err != nil {
		return err
	}
	p := &VideoParams{}
	if p.Width, err = a.integer(b.name, "width", 0); err != nil {
		return err
	}
	if p.Height, err = a.integer(b.name, "height", 0); err != nil {
		return err
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fgerr.New(fgerr.ErrCodeInvalidArgs, "buffer: invalid size %dx%d", p.Width, p.Height)
	}
	if p.Format, err = media.ParseFormat(media.TypeVideo, a["pix_fmt"]); err != nil {
		return invalidFormat(b.name, err)
	}
	if p.TimeBase, err = rationalArg(b.name, a, "time_base"); err != nil {
		return err
	}
	if p.SampleAspectRatio, err = rationalArg(b.name, a, "sar"); err != nil {
		return err
	}
	n.Priv = p
	return nil
}

func (b *Buffer) QueryFormats(n *filtergraph.Node) {
	p := n.Priv.(*VideoParams)
	n.SetOutputFormats(0, media.NewFormatSet(media.TypeVideo, p.Format))
}

func (b *Buffer) Uninit(n *filtergraph.Node) { n.Priv = nil }

func (b *Buffer) configureOutput(l *filtergraph.Link) error {
	p := l.Src().Priv.(*VideoParams)
	l.Props.Width = p.Width
	l.Props.Height = p.Height
	l.Props.TimeBase = p.TimeBase
	l.Props.SampleAspectRatio = p.SampleAspectRatio
	return nil
}

// ABuffer is the audio source kind. Arguments:
//
//	sample_rate:channel_layout:sample_fmt[:time_base]
//
// The time base defaults to 1/sample_rate. The opaque value may be an
// *AudioParams, in which case args must be empty.
type ABuffer struct{ kind }

// NewABuffer returns the "abuffer" kind.
func NewABuffer() *ABuffer {
	b := &ABuffer{kind{name: "abuffer", desc: "Buffer audio frames for use in a filter graph."}}
	out := pad("default", media.TypeAudio)
	out.Configure = b.configureOutput
	b.outputs = []filtergraph.PadSpec{out}
	return b
}

func (b *ABuffer) Init(n *filtergraph.Node, s string, opaque any) error {
	var p *AudioParams
	if op, ok := opaque.(*AudioParams); ok && s == "" {
		cp := *op
		p = &cp
	} else {
		a, err := parseArgs(b.name, s, "sample_rate", "channel_layout", "sample_fmt", "time_base")
		if err != nil {
			return err
		}
		if err := a.require(b.name, "sample_rate", "channel_layout", "sample_fmt"); err != nil {
			return err
		}
		p = &AudioParams{}
		if p.SampleRate, err = a.integer(b.name, "sample_rate", 0); err != nil {
			return err
		}
		if p.ChannelLayout, err = media.ParseChannelLayout(a["channel_layout"]); err != nil {
			return fgerr.Wrap(fgerr.ErrCodeInvalidArgs, err, "%s", b.name)
		}
		if p.Format, err = media.ParseFormat(media.TypeAudio, a["sample_fmt"]); err != nil {
			return invalidFormat(b.name, err)
		}
		if p.TimeBase, err = rationalArg(b.name, a, "time_base"); err != nil {
			return err
		}
	}

	if p.SampleRate <= 0 {
		return fgerr.New(fgerr.ErrCodeInvalidArgs, "abuffer: invalid sample rate %d", p.SampleRate)
	}
	if p.ChannelLayout.Channels() == 0 {
		return fgerr.New(fgerr.ErrCodeInvalidArgs, "abuffer: empty channel layout")
	}
	if _, ok := media.Describe(media.TypeAudio, p.Format); !ok {
		return fgerr.New(fgerr.ErrCodeInvalidFormat, "abuffer: unknown sample format %d", p.Format)
	}
	if p.TimeBase.IsZero() {
		p.TimeBase = media.Rational{Num: 1, Den: p.SampleRate}
	}
	n.Priv = p
	return nil
}

func (b *ABuffer) QueryFormats(n *filtergraph.Node) {
	p := n.Priv.(*AudioParams)
	n.SetOutputFormats(0, media.NewFormatSet(media.TypeAudio, p.Format))
}

func (b *ABuffer) Uninit(n *filtergraph.Node) { n.Priv = nil }

func (b *ABuffer) configureOutput(l *filtergraph.Link) error {
	p := l.Src().Priv.(*AudioParams)
	l.Props.SampleRate = p.SampleRate
	l.Props.ChannelLayout = p.ChannelLayout
	l.Props.TimeBase = p.TimeBase
	return nil
}

func rationalArg(kindName string, a args, key string) (media.Rational, error) {
	v, ok := a[key]
	if !ok {
		return media.Rational{}, nil
	}
	r, err := media.ParseRational(v)
	if err != nil {
		return media.Rational{}, fgerr.Wrap(fgerr.ErrCodeInvalidArgs, err, "%s: %s", kindName, key)
	}
	return r, nil
}

func invalidFormat(kindName string, err error) error {
	return fgerr.Wrap(fgerr.ErrCodeInvalidFormat, err, "%s", kindName)
}
