package filtergraph

import (
	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/media"
)

// configureLinks configures the links upstream of every sink (a node with
// no outputs). Links configured during an earlier sink's traversal are
// skipped. Fails if any link is left unconfigured, which happens when part
// of the graph cannot reach a sink.
func (g *Graph) configureLinks() error {
	for _, n := range g.nodes {
		if len(n.outputs) != 0 {
			continue
		}
		if err := n.configureLinks(); err != nil {
			return err
		}
	}

	for _, l := range g.Links() {
		if l.state != linkInit {
			return fgerr.Wrap(fgerr.ErrCodeNodeConfiguration, ErrUnreachable, "link %s", l).
				WithNode(l.src.name, l.src.filter.Name())
		}
	}
	return nil
}

// configureLinks configures every input link of n: first the source node's
// own inputs, then the source's output pad hook, then n's input pad hook,
// and finally the buffer layout implied by the resolved format.
func (n *Node) configureLinks() error {
	for _, l := range n.inputs {
		switch l.state {
		case linkInit:
			continue
		case linkStartInit:
			return nodeFailed(n, ErrCircularChain, "link %s", l)
		}
		l.state = linkStartInit

		if err := l.src.configureLinks(); err != nil {
			return err
		}

		configure := l.src.outputPads[l.srcPad].Configure
		if configure == nil {
			configure = defaultConfigureOutput
		}
		if err := configure(l); err != nil {
			return nodeFailed(l.src, err, "configure output %q", l.src.outputPads[l.srcPad].Name)
		}

		if l.Props.TimeBase.IsZero() {
			l.Props.TimeBase = media.DefaultTimeBase
			if len(l.src.inputs) > 0 {
				l.Props.TimeBase = l.src.inputs[0].Props.TimeBase
			}
		}
		if l.Props.SampleAspectRatio.IsZero() {
			l.Props.SampleAspectRatio = media.Rational{Num: 1, Den: 1}
			if len(l.src.inputs) > 0 {
				l.Props.SampleAspectRatio = l.src.inputs[0].Props.SampleAspectRatio
			}
		}

		if configure := n.inputPads[l.dstPad].Configure; configure != nil {
			if err := configure(l); err != nil {
				return nodeFailed(n, err, "configure input %q", n.inputPads[l.dstPad].Name)
			}
		}

		if err := l.deriveLayout(); err != nil {
			return nodeFailed(n, err, "layout of input %q", n.inputPads[l.dstPad].Name)
		}

		l.state = linkInit
	}
	return nil
}

// defaultConfigureOutput copies the properties of the source's first input.
func defaultConfigureOutput(l *Link) error {
	if len(l.src.inputs) == 0 || l.src.inputs[0] == nil {
		return ErrNoOutputConfig
	}
	in := l.src.inputs[0]
	switch l.typ {
	case media.TypeVideo:
		l.Props.Width = in.Props.Width
		l.Props.Height = in.Props.Height
		l.Props.TimeBase = in.Props.TimeBase
	case media.TypeAudio:
		l.Props.ChannelLayout = in.Props.ChannelLayout
		l.Props.SampleRate = in.Props.SampleRate
	}
	return nil
}

func (l *Link) deriveLayout() error {
	var err error
	switch l.typ {
	case media.TypeVideo:
		l.Props.Layout, err = media.VideoLayout(l.format, l.Props.Width, l.Props.Height)
	case media.TypeAudio:
		l.Props.Layout, err = media.AudioLayout(l.format, l.Props.ChannelLayout.Channels())
	}
	return err
}

func nodeFailed(n *Node, cause error, format string, args ...any) error {
	if fgerr.Is(cause, fgerr.ErrCodeNodeConfiguration) {
		return cause
	}
	e := fgerr.Wrap(fgerr.ErrCodeNodeConfiguration, cause, format, args...).
		WithNode(n.name, n.filter.Name())
	e.Message = n.name + ": " + e.Message
	return e
}
