package filtergraph

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	fgerr "github.com/matzehuels/filtergraph/pkg/errors"
	"github.com/matzehuels/filtergraph/pkg/media"
	"github.com/matzehuels/filtergraph/pkg/observability"
)

// Graph owns an ordered collection of nodes and turns it into a configured
// processing graph: every pad connected, every link resolved to one format
// and every link's runtime properties computed.
//
// The zero value is not usable - use [New]. A Graph is not safe for
// concurrent use without external synchronization.
type Graph struct {
	nodes []*Node

	registry     *Registry
	scaleOptions string
	maxNodes     int
	logger       *log.Logger

	// converters spliced in by the current configure run
	inserted []insertion

	configured bool
	destroyed  bool
}

// Option configures a Graph.
type Option func(*Graph)

// WithRegistry sets the registry used to locate conversion filters.
func WithRegistry(r *Registry) Option {
	return func(g *Graph) { g.registry = r }
}

// WithScaleOptions sets the options passed to auto-inserted scalers.
func WithScaleOptions(opts string) Option {
	return func(g *Graph) { g.scaleOptions = opts }
}

// WithMaxNodes bounds the number of nodes the graph may own. Adding a node
// beyond the bound fails with an ALLOCATION error. Zero means unbounded.
func WithMaxNodes(n int) Option {
	return func(g *Graph) { g.maxNodes = n }
}

// WithLogger sets the logger used for negotiation diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// New allocates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{logger: log.Default()}
	for _, opt := range opts {
		opt(g)
	}
	if g.registry == nil {
		g.registry = NewRegistry()
	}
	return g
}

// Registry returns the graph's filter registry.
func (g *Graph) Registry() *Registry { return g.registry }

// ScaleOptions returns the options passed to auto-inserted scalers.
func (g *Graph) ScaleOptions() string { return g.scaleOptions }

// Configured reports whether [Graph.Configure] succeeded.
func (g *Graph) Configured() bool { return g.configured }

// Nodes returns the nodes in insertion order. The slice is a copy; the
// nodes are the graph's own.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Links returns every link once, ordered by source node insertion order and
// output pad index.
func (g *Graph) Links() []*Link {
	var links []*Link
	for _, n := range g.nodes {
		for _, l := range n.outputs {
			if l != nil {
				links = append(links, l)
			}
		}
	}
	return links
}

func (g *Graph) checkMutable(op string) error {
	if g.destroyed {
		return fgerr.New(fgerr.ErrCodeInvalidInput, "%s: graph has been destroyed", op)
	}
	if g.configured {
		return fgerr.New(fgerr.ErrCodeAlreadyConfigured, "%s: graph is already configured", op)
	}
	return nil
}

// AddNode appends n to the graph. The graph takes ownership of n.
//
// Returns ALLOCATION if the graph is at its node bound, DUPLICATE_NAME if
// another node has the same name, and ALREADY_CONFIGURED once configured.
// On error the graph is unchanged.
func (g *Graph) AddNode(n *Node) error {
	if err := g.checkMutable("add node"); err != nil {
		return err
	}
	if n == nil {
		return fgerr.New(fgerr.ErrCodeInvalidInput, "add node: nil node")
	}
	if n.freed {
		return fgerr.Wrap(fgerr.ErrCodeInvalidInput, ErrNodeFreed, "add node %s", n.name)
	}
	if n.graph != nil {
		return fgerr.Wrap(fgerr.ErrCodeInvalidInput, ErrNodeOwned, "add node %s", n.name)
	}
	if g.maxNodes > 0 && len(g.nodes) >= g.maxNodes {
		return fgerr.New(fgerr.ErrCodeAllocation, "add node %s: graph holds the maximum of %d nodes", n.name, g.maxNodes).
			WithNode(n.name, n.filter.Name())
	}
	if _, exists := g.FindNode(n.name); exists {
		return fgerr.New(fgerr.ErrCodeDuplicateName, "node %q already exists", n.name).
			WithNode(n.name, n.filter.Name())
	}

	n.graph = g
	g.nodes = append(g.nodes, n)
	return nil
}

// CreateNode opens a node of kind f, initializes it with args and opaque,
// and adds it to the graph. On any failure the half-built node is destroyed
// and the graph is left as if the call never happened.
func (g *Graph) CreateNode(f Filter, name, args string, opaque any) (*Node, error) {
	if err := g.checkMutable("create node"); err != nil {
		return nil, err
	}
	n, err := Open(f, name)
	if err != nil {
		return nil, err
	}
	if err := n.Init(args, opaque); err != nil {
		n.destroy()
		return nil, err
	}
	if err := g.AddNode(n); err != nil {
		n.destroy()
		return nil, err
	}
	return n, nil
}

// CreateNodeByName is [Graph.CreateNode] with the kind looked up in the
// graph's registry. Returns NOT_FOUND for an unknown kind.
func (g *Graph) CreateNodeByName(kind, name, args string, opaque any) (*Node, error) {
	f, ok := g.registry.Lookup(kind)
	if !ok {
		return nil, fgerr.New(fgerr.ErrCodeNotFound, "no such filter: %q", kind)
	}
	return g.CreateNode(f, name, args, opaque)
}

// FindNode returns the first node called name.
func (g *Graph) FindNode(name string) (*Node, bool) {
	for _, n := range g.nodes {
		if n.name == name {
			return n, true
		}
	}
	return nil, false
}

// Connect links output pad srcPad of the node called src to input pad
// dstPad of the node called dst. See [Connect].
func (g *Graph) Connect(src string, srcPad int, dst string, dstPad int) (*Link, error) {
	if err := g.checkMutable("connect"); err != nil {
		return nil, err
	}
	s, ok := g.FindNode(src)
	if !ok {
		return nil, fgerr.New(fgerr.ErrCodeNotFound, "connect: no node %q", src)
	}
	d, ok := g.FindNode(dst)
	if !ok {
		return nil, fgerr.New(fgerr.ErrCodeNotFound, "connect: no node %q", dst)
	}
	return Connect(s, srcPad, d, dstPad)
}

// RemoveNode destroys the node called name, detaching its links from the
// surviving peers.
func (g *Graph) RemoveNode(name string) error {
	if err := g.checkMutable("remove node"); err != nil {
		return err
	}
	i := slices.IndexFunc(g.nodes, func(n *Node) bool { return n.name == name })
	if i < 0 {
		return fgerr.New(fgerr.ErrCodeNotFound, "remove node: no node %q", name)
	}
	n := g.nodes[i]
	g.nodes = slices.Delete(g.nodes, i, i+1)
	n.destroy()
	return nil
}

// dropNode removes n from the node collection and destroys it.
func (g *Graph) dropNode(n *Node) {
	if i := slices.Index(g.nodes, n); i >= 0 {
		g.nodes = slices.Delete(g.nodes, i, i+1)
	}
	n.destroy()
}

// Destroy frees every node in reverse insertion order. Destroying a graph
// twice is a no-op.
func (g *Graph) Destroy() {
	if g.destroyed {
		return
	}
	for i := len(g.nodes) - 1; i >= 0; i-- {
		g.nodes[i].destroy()
	}
	g.nodes = nil
	g.destroyed = true
}

// Configure validates the graph, negotiates a format for every link and
// configures every link's runtime properties, in that order. The first
// failure aborts the remaining phases and leaves the graph unconfigured:
// converters inserted by the failed run are removed, the links they split
// are restored and negotiation state is reset, so the caller may fix the
// graph and retry.
func (g *Graph) Configure(ctx context.Context) (err error) {
	if err := g.checkMutable("configure"); err != nil {
		return err
	}

	start := time.Now()
	hooks := observability.Graph()
	hooks.OnConfigureStart(ctx, len(g.nodes))
	defer func() {
		hooks.OnConfigureComplete(ctx, len(g.nodes), len(g.Links()), time.Since(start), err)
	}()

	if err := g.checkValidity(); err != nil {
		g.logger.Error("graph validity check failed", "err", err)
		return err
	}
	if err := g.negotiate(ctx); err != nil {
		g.logger.Error("format negotiation failed", "err", err)
		g.resetNegotiation()
		return err
	}
	if err := g.configureLinks(); err != nil {
		g.logger.Error("link configuration failed", "err", err)
		g.resetNegotiation()
		return err
	}

	g.configured = true
	g.inserted = nil
	g.logger.Debug("graph configured",
		"nodes", len(g.nodes),
		"links", len(g.Links()),
		"duration", time.Since(start))
	return nil
}

// resetNegotiation undoes a failed run: converters are unspliced in reverse
// insertion order and every link drops its negotiated state.
func (g *Graph) resetNegotiation() {
	for i := len(g.inserted) - 1; i >= 0; i-- {
		ins := g.inserted[i]
		ins.unsplice()
		g.dropNode(ins.node)
	}
	g.inserted = nil

	for _, l := range g.Links() {
		l.release()
		l.format = media.FormatNone
		l.state = linkUninit
		l.Props = Props{}
	}
}
