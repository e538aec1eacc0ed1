package graph

import (
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/samber/lo"
)

// ErrNodeNotFound indicates an operation referenced an identity that is not
// present in the graph.
var ErrNodeNotFound = errors.New("graph: node not found")

// NodeID is the stable, positive identity of a node within one Graph.
type NodeID int

// Node is a value copy of a node. Label, Position and Meta are opaque to the
// coloring core and only travel between documents and the editor.
type Node struct {
	ID       NodeID
	Label    string
	Color    Color
	Position []float64
	Meta     map[string]string
}

func (n Node) clone() Node {
	n.Position = slices.Clone(n.Position)
	n.Meta = maps.Clone(n.Meta)
	return n
}

// Edge is an unordered pair of distinct identities, stored with U < V.
type Edge struct {
	U, V NodeID
}

// NewEdge normalizes {u, v} so that U < V.
func NewEdge(u, v NodeID) Edge {
	if u > v {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}

// NodeOption sets attributes on a node created by AddNode.
type NodeOption func(n *Node)

// WithLabel attaches a human readable label.
func WithLabel(label string) NodeOption {
	return func(n *Node) { n.Label = label }
}

// WithColor creates the node already colored.
func WithColor(c Color) NodeOption {
	return func(n *Node) { n.Color = c }
}

// WithPosition stores editor coordinates.
func WithPosition(pos ...float64) NodeOption {
	return func(n *Node) { n.Position = slices.Clone(pos) }
}

// WithMeta stores arbitrary string metadata.
func WithMeta(meta map[string]string) NodeOption {
	return func(n *Node) { n.Meta = maps.Clone(meta) }
}

// Graph is the mutable, thread-safe graph model.
type Graph struct {
	mu     sync.RWMutex
	nextID NodeID
	nodes  *treemap.Map // int(NodeID) -> *Node, ordered by identity
	edges  map[Edge]struct{}
	adj    map[NodeID]map[NodeID]struct{}
}

// New creates an empty graph whose allocator starts at 1.
func New() *Graph {
	return &Graph{
		nodes: treemap.NewWithIntComparator(),
		edges: make(map[Edge]struct{}),
		adj:   make(map[NodeID]map[NodeID]struct{}),
	}
}

// AddNode allocates the next identity and inserts a node for it.
func (g *Graph) AddNode(opts ...NodeOption) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID++
	n := &Node{}
	for _, opt := range opts {
		opt(n)
	}
	n.ID = g.nextID
	g.nodes.Put(int(n.ID), n)
	g.adj[n.ID] = make(map[NodeID]struct{})
	return n.ID
}

// AddEdge inserts {u, v}. It returns false, without error, for a self-loop,
// a duplicate pair in either order, or a missing endpoint.
func (g *Graph) AddEdge(u, v NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if u == v || !g.hasNode(u) || !g.hasNode(v) {
		return false
	}
	e := NewEdge(u, v)
	if _, dup := g.edges[e]; dup {
		return false
	}
	g.edges[e] = struct{}{}
	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}
	return true
}

// RemoveEdge deletes {u, v} and reports whether it existed.
func (g *Graph) RemoveEdge(u, v NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := NewEdge(u, v)
	if _, ok := g.edges[e]; !ok {
		return false
	}
	g.removeEdge(e)
	return true
}

func (g *Graph) removeEdge(e Edge) {
	delete(g.edges, e)
	delete(g.adj[e.U], e.V)
	delete(g.adj[e.V], e.U)
}

// RemoveNode deletes a node and every incident edge. The identity is not
// recycled.
func (g *Graph) RemoveNode(id NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.hasNode(id) {
		return false
	}
	for nb := range g.adj[id] {
		g.removeEdge(NewEdge(id, nb))
	}
	delete(g.adj, id)
	g.nodes.Remove(int(id))
	return true
}

// Clear drops all nodes and edges and resets the identity allocator.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextID = 0
	g.nodes.Clear()
	g.edges = make(map[Edge]struct{})
	g.adj = make(map[NodeID]map[NodeID]struct{})
}

func (g *Graph) hasNode(id NodeID) bool {
	_, ok := g.nodes.Get(int(id))
	return ok
}

func (g *Graph) node(id NodeID) (*Node, bool) {
	v, ok := g.nodes.Get(int(id))
	if !ok {
		return nil, false
	}
	return v.(*Node), true
}

// HasNode reports whether id is currently present.
func (g *Graph) HasNode(id NodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hasNode(id)
}

// Node returns a copy of the node with the given identity.
func (g *Graph) Node(id NodeID) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.node(id)
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// Nodes returns copies of all nodes in ascending identity order.
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Node, 0, g.nodes.Size())
	it := g.nodes.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*Node).clone())
	}
	return out
}

// NodeIDs returns all identities in ascending order.
func (g *Graph) NodeIDs() []NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return lo.Map(g.nodes.Keys(), func(k interface{}, _ int) NodeID { return NodeID(k.(int)) })
}

// Edges returns all edges sorted by (U, V).
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedEdges(g.edges)
}

func sortedEdges(set map[Edge]struct{}) []Edge {
	out := make([]Edge, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	slices.SortFunc(out, compareEdges)
	return out
}

func compareEdges(a, b Edge) int {
	if a.U != b.U {
		return int(a.U - b.U)
	}
	return int(a.V - b.V)
}

// Neighbors returns the identities adjacent to id in ascending order.
func (g *Graph) Neighbors(id NodeID) ([]NodeID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	set, ok := g.adj[id]
	if !ok {
		return nil, ErrNodeNotFound
	}
	out := lo.Keys(set)
	slices.Sort(out)
	return out, nil
}

// NodeCount returns the number of present nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes.Size()
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// MaxID returns the greatest identity currently present, or 0 for an empty
// graph. It can be smaller than the last allocated identity.
func (g *Graph) MaxID() NodeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.nodes.Empty() {
		return 0
	}
	k, _ := g.nodes.Max()
	return NodeID(k.(int))
}

// SetColor overwrites the color of one node. None uncolors it.
func (g *Graph) SetColor(id NodeID, c Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.node(id)
	if !ok {
		return ErrNodeNotFound
	}
	n.Color = c
	return nil
}

// Colors returns the current color of every colored node.
func (g *Graph) Colors() map[NodeID]Color {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[NodeID]Color)
	it := g.nodes.Iterator()
	for it.Next() {
		n := it.Value().(*Node)
		if n.Color != None {
			out[n.ID] = n.Color
		}
	}
	return out
}

// ApplyColors overwrites node colors from an assignment. Identities that are
// no longer present are skipped. It returns how many nodes were updated.
func (g *Graph) ApplyColors(colors map[NodeID]Color) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	applied := 0
	for id, c := range colors {
		if n, ok := g.node(id); ok {
			n.Color = c
			applied++
		}
	}
	return applied
}

// ClearColors uncolors every node.
func (g *Graph) ClearColors() {
	g.mu.Lock()
	defer g.mu.Unlock()

	it := g.nodes.Iterator()
	for it.Next() {
		it.Value().(*Node).Color = None
	}
}

// ReconcilePalette shrinks the usable palette to k colors: every node whose
// color index exceeds k is uncolored. The affected identities are returned in
// ascending order.
func (g *Graph) ReconcilePalette(k int) []NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()

	var cleared []NodeID
	it := g.nodes.Iterator()
	for it.Next() {
		n := it.Value().(*Node)
		if n.Color.Index() > k {
			n.Color = None
			cleared = append(cleared, n.ID)
		}
	}
	return cleared
}

// Snapshot copies the current nodes and edges into an immutable View.
func (g *Graph) Snapshot() *Snapshot {
	nodes := g.Nodes()
	edges := g.Edges()

	index := make(map[NodeID]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	return &Snapshot{nodes: nodes, edges: edges, index: index}
}
