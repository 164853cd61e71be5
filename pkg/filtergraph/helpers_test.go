package filtergraph

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/filtergraph/pkg/media"
)

// testKind is a configurable filter kind for tests.
type testKind struct {
	name    string
	inputs  []PadSpec
	outputs []PadSpec
	query   func(n *Node)
	init    func(n *Node, args string) error
	uninits *int
}

func (k *testKind) Name() string       { return k.name }
func (k *testKind) Inputs() []PadSpec  { return k.inputs }
func (k *testKind) Outputs() []PadSpec { return k.outputs }

func (k *testKind) QueryFormats(n *Node) {
	if k.query != nil {
		k.query(n)
	}
}

func (k *testKind) Init(n *Node, args string, _ any) error {
	if k.init != nil {
		return k.init(n, args)
	}
	return nil
}

func (k *testKind) Uninit(*Node) {
	if k.uninits != nil {
		*k.uninits++
	}
}

func videoPad(name string) PadSpec { return PadSpec{Name: name, Type: media.TypeVideo} }
func audioPad(name string) PadSpec { return PadSpec{Name: name, Type: media.TypeAudio} }

// sizedOutput configures a 320x240 video output.
func sizedOutput(l *Link) error {
	l.Props.Width, l.Props.Height = 320, 240
	return nil
}

func videoSource(fmts ...media.Format) *testKind {
	out := videoPad("default")
	out.Configure = sizedOutput
	return &testKind{
		name:    "vsrc",
		outputs: []PadSpec{out},
		query: func(n *Node) {
			n.SetOutputFormats(0, media.NewFormatSet(media.TypeVideo, fmts...))
		},
	}
}

func videoSink(fmts ...media.Format) *testKind {
	return &testKind{
		name:   "vsink",
		inputs: []PadSpec{videoPad("default")},
		query: func(n *Node) {
			n.SetInputFormats(0, media.NewFormatSet(media.TypeVideo, fmts...))
		},
	}
}

func audioSource(rate int, layout media.ChannelLayout, fmts ...media.Format) *testKind {
	out := audioPad("default")
	out.Configure = func(l *Link) error {
		l.Props.SampleRate = rate
		l.Props.ChannelLayout = layout
		return nil
	}
	return &testKind{
		name:    "asrc",
		outputs: []PadSpec{out},
		query: func(n *Node) {
			n.SetOutputFormats(0, media.NewFormatSet(media.TypeAudio, fmts...))
		},
	}
}

func audioSink(fmts ...media.Format) *testKind {
	return &testKind{
		name:   "asink",
		inputs: []PadSpec{audioPad("default")},
		query: func(n *Node) {
			n.SetInputFormats(0, media.NewFormatSet(media.TypeAudio, fmts...))
		},
	}
}

// passthrough keeps the format: one shared set for input and output.
func passthrough(name string) *testKind {
	return &testKind{
		name:    name,
		inputs:  []PadSpec{videoPad("default")},
		outputs: []PadSpec{videoPad("default")},
	}
}

// converter accepts in on its input and offers out on its output, as two
// independent sets.
func converter(name string, typ media.Type, in, out []media.Format) *testKind {
	return &testKind{
		name:    name,
		inputs:  []PadSpec{{Name: "default", Type: typ}},
		outputs: []PadSpec{{Name: "default", Type: typ}},
		query: func(n *Node) {
			n.SetInputFormats(0, media.NewFormatSet(typ, in...))
			n.SetOutputFormats(0, media.NewFormatSet(typ, out...))
		},
	}
}

func testScale() *testKind {
	all := media.All(media.TypeVideo)
	return converter(ScaleFilter, media.TypeVideo, all, all)
}

func testResample() *testKind {
	all := media.All(media.TypeAudio)
	return converter(ResampleFilter, media.TypeAudio, all, all)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestGraph(opts ...Option) *Graph {
	return New(append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func mustCreate(t *testing.T, g *Graph, f Filter, name string) *Node {
	t.Helper()
	n, err := g.CreateNode(f, name, "", nil)
	if err != nil {
		t.Fatalf("CreateNode(%s) error: %v", name, err)
	}
	return n
}

func mustConnect(t *testing.T, src *Node, srcPad int, dst *Node, dstPad int) *Link {
	t.Helper()
	l, err := Connect(src, srcPad, dst, dstPad)
	if err != nil {
		t.Fatalf("Connect(%s, %s) error: %v", src.Name(), dst.Name(), err)
	}
	return l
}

var errBoom = errors.New("boom")
