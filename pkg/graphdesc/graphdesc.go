// Package graphdesc reads filter graph descriptions and builds them into
// [filtergraph.Graph] values.
//
// A description lists nodes and the links between them. TOML is the file
// format; JSON is accepted too (the HTTP API speaks it):
//
//	name = "to-yuv"
//	scale_options = "flags=bilinear"
//
//	[[node]]
//	name = "in"
//	filter = "buffer"
//	args = "1280:720:rgb24:1/30"
//
//	[[node]]
//	name = "out"
//	filter = "buffersink"
//	args = "yuv420p"
//
//	[[link]]
//	from = "in"
//	to = "out:default"
//
// Link endpoints are "node" (pad 0), "node:<index>" or "node:<pad name>".
package graphdesc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/filtergraph"
)

// Format is a description encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Description is a serializable filter graph topology.
type Description struct {
	Name         string `toml:"name" json:"name,omitempty"`
	ScaleOptions string `toml:"scale_options" json:"scale_options,omitempty"`
	MaxNodes     int    `toml:"max_nodes" json:"max_nodes,omitempty"`

	Nodes []Node `toml:"node" json:"nodes"`
	Links []Link `toml:"link" json:"links"`
}

// Node describes one filter instance.
type Node struct {
	Name   string `toml:"name" json:"name"`
	Filter string `toml:"filter" json:"filter"`
	Args   string `toml:"args" json:"args,omitempty"`
}

// Link connects two pad endpoints.
type Link struct {
	From string `toml:"from" json:"from"`
	To   string `toml:"to" json:"to"`
}

// DetectFormat infers the encoding from a file extension. Anything other
// than ".json" is treated as TOML.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Parse reads and decodes the description file at path.
func Parse(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fgerr.Wrap(fgerr.ErrCodeNotFound, err, "read description %s", path)
		}
		return nil, fgerr.Wrap(fgerr.ErrCodeInvalidInput, err, "read description %s", path)
	}
	d, err := Decode(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Decode parses data in the given format and validates the result.
func Decode(data []byte, format Format) (*Description, error) {
	var d Description
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, fgerr.Wrap(fgerr.ErrCodeInvalidInput, err, "decode json description")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &d)
		if err != nil {
			return nil, fgerr.Wrap(fgerr.ErrCodeInvalidInput, err, "decode toml description")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fgerr.New(fgerr.ErrCodeInvalidInput, "unknown description key %q", undecoded[0].String())
		}
	default:
		return nil, fgerr.New(fgerr.ErrCodeUnsupported, "unsupported description format %q", format)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Encode renders d in the given format.
func (d *Description) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(d); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fgerr.New(fgerr.ErrCodeUnsupported, "unsupported description format %q", format)
}

// Validate checks the description without consulting a registry: names are
// well formed and unique, and every link endpoint names a declared node.
func (d *Description) Validate() error {
	if len(d.Nodes) == 0 {
		return fgerr.New(fgerr.ErrCodeInvalidInput, "description has no nodes")
	}
	if d.MaxNodes < 0 {
		return fgerr.New(fgerr.ErrCodeInvalidInput, "max_nodes must not be negative")
	}

	seen := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.Name == "" {
			return fgerr.New(fgerr.ErrCodeInvalidName, "node %d has no name", i)
		}
		if err := fgerr.ValidateNodeName(n.Name); err != nil {
			return err
		}
		if err := fgerr.ValidateFilterName(n.Filter); err != nil {
			return fgerr.Wrap(fgerr.ErrCodeInvalidName, err, "node %q", n.Name)
		}
		if seen[n.Name] {
			return fgerr.New(fgerr.ErrCodeDuplicateName, "node %q declared twice", n.Name)
		}
		seen[n.Name] = true
	}

	for _, l := range d.Links {
		for _, ep := range []string{l.From, l.To} {
			name, _ := splitEndpoint(ep)
			if !seen[name] {
				return fgerr.New(fgerr.ErrCodeNotFound, "link %s -> %s: no node %q", l.From, l.To, name)
			}
		}
	}
	return nil
}

// Build creates every node through the graph's registry and connects the
// links, in declaration order. The description's scale options and node
// bound are applied after opts. On failure the partial graph is destroyed.
func Build(d *Description, opts ...filtergraph.Option) (*filtergraph.Graph, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	opts = append(opts, filtergraph.WithMaxNodes(d.MaxNodes))
	if d.ScaleOptions != "" {
		opts = append(opts, filtergraph.WithScaleOptions(d.ScaleOptions))
	}
	g := filtergraph.New(opts...)

	for _, n := range d.Nodes {
		if _, err := g.CreateNodeByName(n.Filter, n.Name, n.Args, nil); err != nil {
			g.Destroy()
			return nil, err
		}
	}
	for _, l := range d.Links {
		if err := connect(g, l); err != nil {
			g.Destroy()
			return nil, err
		}
	}
	return g, nil
}

func connect(g *filtergraph.Graph, l Link) error {
	srcName, srcRef := splitEndpoint(l.From)
	dstName, dstRef := splitEndpoint(l.To)

	src, _ := g.FindNode(srcName)
	dst, _ := g.FindNode(dstName)

	srcPad, err := resolvePad(src, srcRef, filtergraph.Output)
	if err != nil {
		return err
	}
	dstPad, err := resolvePad(dst, dstRef, filtergraph.Input)
	if err != nil {
		return err
	}
	_, err = filtergraph.Connect(src, srcPad, dst, dstPad)
	return err
}

// splitEndpoint splits "node:pad" into its parts. The pad part is empty
// when absent.
func splitEndpoint(ep string) (node, pad string) {
	node, pad, _ = strings.Cut(strings.TrimSpace(ep), ":")
	return node, pad
}

// resolvePad maps a pad reference (empty, an index or a pad name) to an
// index on n.
func resolvePad(n *filtergraph.Node, ref string, dir filtergraph.Direction) (int, error) {
	if ref == "" {
		return 0, nil
	}
	if i, err := strconv.Atoi(ref); err == nil {
		return i, nil
	}
	i := n.InputIndex(ref)
	if dir == filtergraph.Output {
		i = n.OutputIndex(ref)
	}
	if i < 0 {
		return 0, fgerr.New(fgerr.ErrCodeNotFound, "%s has no %s pad %q", n.Name(), dir, ref).
			WithNode(n.Name(), n.Filter().Name()).
			WithPad(ref, dir.String())
	}
	return i, nil
}
