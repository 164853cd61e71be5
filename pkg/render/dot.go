package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/filtergraph/pkg/graph"
)

// Options configures DOT export.
type Options struct {
	// Detailed adds dimensions, sample rate and channel layout to link
	// labels. When false, only the format is shown.
	Detailed bool
}

// ToDOT converts a report to Graphviz DOT format. Nodes and links appear in
// report order so the output is deterministic.
func ToDOT(r graph.Report, opts Options) string {
	var buf bytes.Buffer
	name := r.Name
	if name == "" {
		name = "filtergraph"
	}
	fmt.Fprintf(&buf, "digraph %q {\n", name)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")

	failed := ""
	if r.Error != nil {
		failed = r.Error.Node
	}
	for _, n := range r.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(nodeAttrs(n, n.Name == failed), ", "))
	}

	buf.WriteString("\n")
	for _, l := range r.Links {
		attrs := linkAttrs(l, opts.Detailed)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", l.From, l.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", l.From, l.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node, failed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.Name+"\n"+n.Filter)}
	if n.AutoInserted {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	if failed {
		attrs = append(attrs, "color=red", "penwidth=2")
	}
	return attrs
}

func linkAttrs(l graph.Link, detailed bool) []string {
	var attrs []string
	if label := linkLabel(l, detailed); label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
	}
	if l.Type == "audio" {
		attrs = append(attrs, "color=steelblue")
	}
	return attrs
}

func linkLabel(l graph.Link, detailed bool) string {
	if l.Format == "" || !detailed {
		return l.Format
	}
	switch l.Type {
	case "video":
		return fmt.Sprintf("%s\n%dx%d", l.Format, l.Width, l.Height)
	case "audio":
		return fmt.Sprintf("%s\n%d Hz %s", l.Format, l.SampleRate, l.ChannelLayout)
	}
	return l.Format
}
