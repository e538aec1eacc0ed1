package graph

import (
	"github.com/samber/lo"
)

// View is the read-only surface shared by Graph and Snapshot. The encoder and
// the decoder only ever see a View.
type View interface {
	NodeIDs() []NodeID
	Nodes() []Node
	Edges() []Edge
	HasNode(id NodeID) bool
	MaxID() NodeID
	NodeCount() int
}

var (
	_ View = (*Graph)(nil)
	_ View = (*Snapshot)(nil)
)

// Snapshot is an immutable copy of a Graph taken at one instant.
type Snapshot struct {
	nodes []Node
	edges []Edge
	index map[NodeID]int
}

// NodeIDs returns the captured identities in ascending order.
func (s *Snapshot) NodeIDs() []NodeID {
	return lo.Map(s.nodes, func(n Node, _ int) NodeID { return n.ID })
}

// Nodes returns copies of the captured nodes in ascending identity order.
func (s *Snapshot) Nodes() []Node {
	return lo.Map(s.nodes, func(n Node, _ int) Node { return n.clone() })
}

// Edges returns the captured edges sorted by (U, V).
func (s *Snapshot) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// HasNode reports whether id was present when the snapshot was taken.
func (s *Snapshot) HasNode(id NodeID) bool {
	_, ok := s.index[id]
	return ok
}

// Node returns the captured node with identity id.
func (s *Snapshot) Node(id NodeID) (Node, bool) {
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i].clone(), true
}

// MaxID returns the greatest captured identity, or 0 when empty.
func (s *Snapshot) MaxID() NodeID {
	if len(s.nodes) == 0 {
		return 0
	}
	return s.nodes[len(s.nodes)-1].ID
}

// NodeCount returns the number of captured nodes.
func (s *Snapshot) NodeCount() int {
	return len(s.nodes)
}
