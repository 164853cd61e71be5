package filtergraph

import (
	"context"
	"errors"
	"strings"
	"testing"

	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/media"
)

func TestOpen(t *testing.T) {
	k := passthrough("null")

	n, err := Open(k, "n1")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if n.Name() != "n1" {
		t.Errorf("Name() = %q, want n1", n.Name())
	}
	if n.NumInputs() != 1 || n.NumOutputs() != 1 {
		t.Errorf("pads = %d/%d, want 1/1", n.NumInputs(), n.NumOutputs())
	}
	if n.Input(0) != nil || n.Output(0) != nil {
		t.Error("fresh node should have no links")
	}

	anon, err := Open(k, "")
	if err != nil {
		t.Fatalf("Open(\"\") error: %v", err)
	}
	if !strings.HasPrefix(anon.Name(), "null_") || len(anon.Name()) != len("null_")+8 {
		t.Errorf("generated name = %q, want null_<8 hex>", anon.Name())
	}

	if _, err := Open(nil, "x"); !errors.Is(err, ErrNilFilter) {
		t.Errorf("Open(nil) error = %v, want ErrNilFilter", err)
	}
	if _, err := Open(k, "bad|name"); !fgerr.Is(err, fgerr.ErrCodeInvalidName) {
		t.Errorf("Open(bad name) error = %v, want INVALID_NAME", err)
	}
}

func TestInit(t *testing.T) {
	t.Run("NoInitializerRejectsArgs", func(t *testing.T) {
		k := &noInitKind{}
		n, _ := Open(k, "n")
		if err := n.Init("", nil); err != nil {
			t.Errorf("Init(\"\") error: %v", err)
		}
		if err := n.Init("x=1", nil); !fgerr.Is(err, fgerr.ErrCodeInvalidArgs) {
			t.Errorf("Init(args) error = %v, want INVALID_ARGS", err)
		}
	})

	t.Run("PlainErrorWrapped", func(t *testing.T) {
		k := passthrough("null")
		k.init = func(*Node, string) error { return errBoom }
		n, _ := Open(k, "n")
		err := n.Init("", nil)
		if !fgerr.Is(err, fgerr.ErrCodeInvalidArgs) {
			t.Errorf("error code = %s, want INVALID_ARGS", fgerr.GetCode(err))
		}
		if !errors.Is(err, errBoom) {
			t.Errorf("error should wrap the init cause: %v", err)
		}
	})

	t.Run("CodedErrorKept", func(t *testing.T) {
		k := passthrough("null")
		k.init = func(*Node, string) error { return fgerr.New(fgerr.ErrCodeInvalidFormat, "bad") }
		n, _ := Open(k, "n")
		if err := n.Init("", nil); !fgerr.Is(err, fgerr.ErrCodeInvalidFormat) {
			t.Errorf("error = %v, want INVALID_FORMAT", err)
		}
	})
}

type noInitKind struct{}

func (noInitKind) Name() string       { return "noinit" }
func (noInitKind) Inputs() []PadSpec  { return nil }
func (noInitKind) Outputs() []PadSpec { return []PadSpec{videoPad("default")} }

func TestConnect(t *testing.T) {
	g := newTestGraph()
	src := mustCreate(t, g, videoSource(media.PixFmtRGB24), "src")
	sink := mustCreate(t, g, videoSink(media.PixFmtRGB24), "sink")
	asink := mustCreate(t, g, audioSink(media.SampleFmtS16), "asink")

	tests := []struct {
		name    string
		srcPad  int
		dst     *Node
		dstPad  int
		wantErr error
	}{
		{"SrcPadOutOfRange", 1, sink, 0, ErrPadOutOfRange},
		{"DstPadOutOfRange", 0, sink, 3, ErrPadOutOfRange},
		{"NegativePad", -1, sink, 0, ErrPadOutOfRange},
		{"MediaTypeMismatch", 0, asink, 0, ErrMediaTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Connect(src, tt.srcPad, tt.dst, tt.dstPad)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Connect() error = %v, want %v", err, tt.wantErr)
			}
			if !fgerr.Is(err, fgerr.ErrCodeInvalidLink) {
				t.Errorf("Connect() code = %s, want INVALID_LINK", fgerr.GetCode(err))
			}
		})
	}

	l := mustConnect(t, src, 0, sink, 0)
	if l.Src() != src || l.Dst() != sink || l.SrcPad() != 0 || l.DstPad() != 0 {
		t.Errorf("link endpoints = %s", l)
	}
	if src.Output(0) != l || sink.Input(0) != l {
		t.Error("link not recorded in both pad slots")
	}
	if l.Type() != media.TypeVideo {
		t.Errorf("Type() = %s, want video", l.Type())
	}
	if l.Resolved() {
		t.Error("new link should be unresolved")
	}
	if got := l.String(); got != "src:default -> sink:default" {
		t.Errorf("String() = %q", got)
	}

	if _, err := Connect(src, 0, sink, 0); !errors.Is(err, ErrPadInUse) {
		t.Errorf("second Connect() error = %v, want ErrPadInUse", err)
	}
}

func TestGraphConnectByName(t *testing.T) {
	g := newTestGraph()
	mustCreate(t, g, videoSource(media.PixFmtRGB24), "src")
	mustCreate(t, g, videoSink(media.PixFmtRGB24), "sink")

	if _, err := g.Connect("src", 0, "nope", 0); !fgerr.Is(err, fgerr.ErrCodeNotFound) {
		t.Errorf("Connect(unknown) error = %v, want NOT_FOUND", err)
	}
	if _, err := g.Connect("src", 0, "sink", 0); err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if got := len(g.Links()); got != 1 {
		t.Errorf("Links() = %d, want 1", got)
	}
}

func TestAddNode(t *testing.T) {
	g := newTestGraph()
	a := mustCreate(t, g, passthrough("null"), "a")

	dup, _ := Open(passthrough("null"), "a")
	if err := g.AddNode(dup); !fgerr.Is(err, fgerr.ErrCodeDuplicateName) {
		t.Errorf("AddNode(duplicate) error = %v, want DUPLICATE_NAME", err)
	}
	if err := g.AddNode(a); !errors.Is(err, ErrNodeOwned) {
		t.Errorf("AddNode(owned) error = %v, want ErrNodeOwned", err)
	}
	if err := g.AddNode(nil); !fgerr.Is(err, fgerr.ErrCodeInvalidInput) {
		t.Errorf("AddNode(nil) error = %v, want INVALID_INPUT", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}

	found, ok := g.FindNode("a")
	if !ok || found != a {
		t.Errorf("FindNode(a) = %v, %v", found, ok)
	}
	if _, ok := g.FindNode("b"); ok {
		t.Error("FindNode(b) should fail")
	}
}

func TestAllocationFailure(t *testing.T) {
	var uninits int
	k := passthrough("null")
	k.uninits = &uninits

	g := newTestGraph(WithMaxNodes(2))
	mustCreate(t, g, k, "a")
	mustCreate(t, g, k, "b")

	_, err := g.CreateNode(k, "c", "", nil)
	if !fgerr.Is(err, fgerr.ErrCodeAllocation) {
		t.Fatalf("CreateNode() error = %v, want ALLOCATION", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if uninits != 1 {
		t.Errorf("rolled-back node uninit count = %d, want 1", uninits)
	}
	if _, ok := g.FindNode("c"); ok {
		t.Error("failed node should not be findable")
	}
}

func TestCreateNodeRollback(t *testing.T) {
	var uninits int
	k := passthrough("null")
	k.uninits = &uninits
	k.init = func(_ *Node, args string) error {
		if args == "bad" {
			return errBoom
		}
		return nil
	}

	g := newTestGraph()
	if _, err := g.CreateNode(k, "x", "bad", nil); !errors.Is(err, errBoom) {
		t.Fatalf("CreateNode() error = %v, want errBoom", err)
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
	}
	if uninits != 1 {
		t.Errorf("uninit count = %d, want 1", uninits)
	}

	if _, err := g.CreateNodeByName("missing", "y", "", nil); !fgerr.Is(err, fgerr.ErrCodeNotFound) {
		t.Errorf("CreateNodeByName(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestRemoveNode(t *testing.T) {
	g := newTestGraph()
	src := mustCreate(t, g, videoSource(media.PixFmtRGB24), "src")
	mid := mustCreate(t, g, passthrough("null"), "mid")
	sink := mustCreate(t, g, videoSink(media.PixFmtRGB24), "sink")
	mustConnect(t, src, 0, mid, 0)
	mustConnect(t, mid, 0, sink, 0)

	if err := g.RemoveNode("mid"); err != nil {
		t.Fatalf("RemoveNode() error: %v", err)
	}
	if !mid.Freed() {
		t.Error("removed node should be freed")
	}
	if src.Output(0) != nil || sink.Input(0) != nil {
		t.Error("peers should be detached")
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if err := g.RemoveNode("mid"); !fgerr.Is(err, fgerr.ErrCodeNotFound) {
		t.Errorf("second RemoveNode() error = %v, want NOT_FOUND", err)
	}

	mustConnect(t, src, 0, sink, 0)
	if err := g.Configure(context.Background()); err != nil {
		t.Errorf("Configure() after rewiring error: %v", err)
	}
}

func TestFree(t *testing.T) {
	t.Run("OwnedNode", func(t *testing.T) {
		g := newTestGraph()
		src := mustCreate(t, g, videoSource(media.PixFmtRGB24), "src")
		sink := mustCreate(t, g, videoSink(media.PixFmtRGB24), "sink")
		mustConnect(t, src, 0, sink, 0)

		err := src.Free()
		if !errors.Is(err, ErrNodeOwned) {
			t.Fatalf("Free() error = %v, want ErrNodeOwned", err)
		}
		if src.Freed() {
			t.Error("owned node should survive Free")
		}
		if n, ok := g.FindNode("src"); !ok || n != src {
			t.Error("owned node should stay in the graph")
		}
		if err := g.Configure(context.Background()); err != nil {
			t.Errorf("Configure() error: %v", err)
		}
	})

	t.Run("UnownedNode", func(t *testing.T) {
		var uninits int
		k := passthrough("null")
		k.uninits = &uninits

		a, err := Open(k, "a")
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}
		b, err := Open(k, "b")
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}
		mustConnect(t, a, 0, b, 0)

		if err := a.Free(); err != nil {
			t.Fatalf("Free() error: %v", err)
		}
		if err := a.Free(); err != nil {
			t.Errorf("second Free() error: %v", err)
		}
		if !a.Freed() || uninits != 1 {
			t.Errorf("freed = %v, uninits = %d", a.Freed(), uninits)
		}
		if b.Input(0) != nil {
			t.Error("peer should be detached")
		}
	})
}

func TestDestroy(t *testing.T) {
	var uninits int
	k := passthrough("null")
	k.uninits = &uninits

	g := newTestGraph()
	a := mustCreate(t, g, k, "a")
	b := mustCreate(t, g, k, "b")
	mustConnect(t, a, 0, b, 0)

	g.Destroy()
	g.Destroy()

	if uninits != 2 {
		t.Errorf("uninit count = %d, want 2", uninits)
	}
	if !a.Freed() || !b.Freed() {
		t.Error("all nodes should be freed")
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
	}
	if _, err := g.CreateNode(k, "c", "", nil); !fgerr.Is(err, fgerr.ErrCodeInvalidInput) {
		t.Errorf("CreateNode() after Destroy error = %v, want INVALID_INPUT", err)
	}
	if err := g.Configure(context.Background()); !fgerr.Is(err, fgerr.ErrCodeInvalidInput) {
		t.Errorf("Configure() after Destroy error = %v, want INVALID_INPUT", err)
	}
}

func TestConfiguredGraphIsFrozen(t *testing.T) {
	g := newTestGraph()
	src := mustCreate(t, g, videoSource(media.PixFmtRGB24), "src")
	sink := mustCreate(t, g, videoSink(media.PixFmtRGB24), "sink")
	mustConnect(t, src, 0, sink, 0)

	ctx := context.Background()
	if err := g.Configure(ctx); err != nil {
		t.Fatalf("Configure() error: %v", err)
	}
	if !g.Configured() {
		t.Fatal("Configured() = false")
	}

	if err := g.Configure(ctx); !fgerr.Is(err, fgerr.ErrCodeAlreadyConfigured) {
		t.Errorf("second Configure() error = %v, want ALREADY_CONFIGURED", err)
	}
	if _, err := g.CreateNode(passthrough("null"), "x", "", nil); !fgerr.Is(err, fgerr.ErrCodeAlreadyConfigured) {
		t.Errorf("CreateNode() error = %v, want ALREADY_CONFIGURED", err)
	}
	if err := g.RemoveNode("src"); !fgerr.Is(err, fgerr.ErrCodeAlreadyConfigured) {
		t.Errorf("RemoveNode() error = %v, want ALREADY_CONFIGURED", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(testScale())
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if err := r.Register(testScale()); !fgerr.Is(err, fgerr.ErrCodeDuplicateName) {
		t.Errorf("Register(dup) error = %v, want DUPLICATE_NAME", err)
	}
	if err := r.Register(passthrough("Bad Name")); !fgerr.Is(err, fgerr.ErrCodeInvalidName) {
		t.Errorf("Register(bad) error = %v, want INVALID_NAME", err)
	}
	if err := r.Register(testResample()); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	got := r.Names()
	if len(got) != 2 || got[0] != ResampleFilter || got[1] != ScaleFilter {
		t.Errorf("Names() = %v", got)
	}
	if _, ok := r.Lookup("scale"); !ok {
		t.Error("Lookup(scale) failed")
	}

	var nilReg *Registry
	if _, ok := nilReg.Lookup("scale"); ok {
		t.Error("nil registry Lookup should fail")
	}
}
