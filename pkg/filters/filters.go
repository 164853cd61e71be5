// Package filters provides the built-in filter kinds.
//
// Sources ("buffer", "abuffer") produce a stream with fixed parameters,
// sinks ("buffersink", "abuffersink") terminate a chain, and the remaining
// kinds pass frames through ("null", "anull", "split", "asplit"), restrict
// formats ("format", "aformat") or convert them ("scale", "resample").
//
// [Default] returns a registry holding all of them; the negotiator finds
// its converters there.
package filters

import "github.com/matzehuels/filtergraph/pkg/filtergraph"

// All returns a fresh instance of every built-in kind, sources first.
func All() []filtergraph.Filter {
	return []filtergraph.Filter{
		NewBuffer(),
		NewABuffer(),
		NewBufferSink(),
		NewABufferSink(),
		NewNull(),
		NewANull(),
		NewFormat(),
		NewAFormat(),
		NewSplit(),
		NewASplit(),
		NewScale(),
		NewResample(),
	}
}

// Default returns a registry holding every built-in kind.
func Default() *filtergraph.Registry {
	return filtergraph.NewRegistry(All()...)
}

// Description returns the one-line description of f, or "".
func Description(f filtergraph.Filter) string {
	if d, ok := f.(filtergraph.Describer); ok {
		return d.Description()
	}
	return ""
}

// Info describes a registered filter kind for listings.
type Info struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Inputs      []PadInfo `json:"inputs"`
	Outputs     []PadInfo `json:"outputs"`
}

// PadInfo is one static pad of a filter kind.
type PadInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Describe lists every kind in r, sorted by name.
func Describe(r *filtergraph.Registry) []Info {
	var out []Info
	for _, name := range r.Names() {
		f, _ := r.Lookup(name)
		out = append(out, Info{
			Name:        name,
			Description: Description(f),
			Inputs:      padInfos(f.Inputs()),
			Outputs:     padInfos(f.Outputs()),
		})
	}
	return out
}

func padInfos(specs []filtergraph.PadSpec) []PadInfo {
	out := make([]PadInfo, len(specs))
	for i, p := range specs {
		out[i] = PadInfo{Name: p.Name, Type: p.Type.String()}
	}
	return out
}
