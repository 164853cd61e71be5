package pipeline

import (
	"github.com/matzehuels/filtergraph/pkg/cache"
	"github.com/matzehuels/filtergraph/pkg/graphdesc"
)

// Parse decodes the description named by opts. Inline content wins over a
// path. opts must have been validated.
func Parse(opts Options) (*graphdesc.Description, error) {
	if len(opts.Description) > 0 {
		return graphdesc.Decode(opts.Description, opts.Format)
	}
	return graphdesc.Parse(opts.Path)
}

// DescriptionHash returns the content hash of d's canonical JSON encoding,
// so a TOML file and its JSON equivalent share cache entries.
func DescriptionHash(d *graphdesc.Description) (string, error) {
	data, err := d.Encode(graphdesc.FormatJSON)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// applyOverrides copies non-zero option values over the description's.
func applyOverrides(d *graphdesc.Description, opts Options) {
	if opts.ScaleOptions != "" {
		d.ScaleOptions = opts.ScaleOptions
	}
	if opts.MaxNodes > 0 {
		d.MaxNodes = opts.MaxNodes
	}
}
