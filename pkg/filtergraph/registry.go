package filtergraph

import (
	"maps"
	"slices"

	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
)

// Registry maps filter kind names to kinds. The negotiator looks up its
// conversion kinds ("scale", "resample") here.
//
// A Registry is not safe for concurrent registration; populate it before
// building graphs.
type Registry struct {
	filters map[string]Filter
}

// NewRegistry creates a registry holding the given kinds.
// It panics if two kinds share a name or a name is invalid.
func NewRegistry(filters ...Filter) *Registry {
	r := &Registry{filters: make(map[string]Filter, len(filters))}
	for _, f := range filters {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a kind. Returns an INVALID_NAME error for malformed names
// and DUPLICATE_NAME if the name is taken.
func (r *Registry) Register(f Filter) error {
	if err := fgerr.ValidateFilterName(f.Name()); err != nil {
		return err
	}
	if _, exists := r.filters[f.Name()]; exists {
		return fgerr.New(fgerr.ErrCodeDuplicateName, "filter %q already registered", f.Name())
	}
	r.filters[f.Name()] = f
	return nil
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (Filter, bool) {
	if r == nil {
		return nil, false
	}
	f, ok := r.filters[name]
	return f, ok
}

// Names returns the registered kind names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.filters))
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.filters)
}
