package filters

import (
	"github.com/matzehuels/filtergraph/pkg/filtergraph"
	"github.com/matzehuels/filtergraph/pkg/media"
)

// kind carries the static part of a filter kind: name, pads and a one-line
// description. Concrete kinds embed it and add their capabilities.
type kind struct {
	name    string
	desc    string
	inputs  []filtergraph.PadSpec
	outputs []filtergraph.PadSpec
}

func (k *kind) Name() string                   { return k.name }
func (k *kind) Inputs() []filtergraph.PadSpec  { return k.inputs }
func (k *kind) Outputs() []filtergraph.PadSpec { return k.outputs }
func (k *kind) Description() string            { return k.desc }

func pad(name string, t media.Type) filtergraph.PadSpec {
	return filtergraph.PadSpec{Name: name, Type: t}
}

func pads(t media.Type, names ...string) []filtergraph.PadSpec {
	out := make([]filtergraph.PadSpec, len(names))
	for i, n := range names {
		out[i] = pad(n, t)
	}
	return out
}

// formatArg parses a '|' separated format list argument.
func formatArg(kindName string, t media.Type, list string) ([]media.Format, error) {
	fmts, err := media.ParseFormatList(t, list)
	if err != nil {
		return nil, invalidFormat(kindName, err)
	}
	return fmts, nil
}
