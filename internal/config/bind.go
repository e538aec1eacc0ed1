package config

import (
	"context"
	"fmt"

	"github.com/vk/satcolor/internal/ctxlog"
	"github.com/vk/satcolor/internal/graph"
)

// Binding links document node names to the identities they received in a
// graph.
type Binding struct {
	Graph *graph.Graph
	IDs   map[string]graph.NodeID
	Names map[graph.NodeID]string
}

// Name returns the document name of id.
func (b *Binding) Name(id graph.NodeID) string {
	if name, ok := b.Names[id]; ok {
		return name
	}
	return fmt.Sprintf("n%d", id)
}

// Bind validates doc and builds a fresh graph from it. Nodes receive
// identities in declaration order. An edge naming an unknown node or joining
// a node to itself is an error; a repeated edge is skipped with a warning.
func Bind(ctx context.Context, doc *Document) (*Binding, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)

	b := &Binding{
		Graph: graph.New(),
		IDs:   make(map[string]graph.NodeID, len(doc.Nodes)),
		Names: make(map[graph.NodeID]string, len(doc.Nodes)),
	}
	for _, n := range doc.Nodes {
		color, _ := graph.ParseColor(n.Color)
		opts := []graph.NodeOption{graph.WithLabel(n.Label), graph.WithColor(color)}
		if len(n.Position) > 0 {
			opts = append(opts, graph.WithPosition(n.Position...))
		}
		if len(n.Meta) > 0 {
			opts = append(opts, graph.WithMeta(n.Meta))
		}
		id := b.Graph.AddNode(opts...)
		b.IDs[n.Name] = id
		b.Names[id] = n.Name
	}

	for _, e := range doc.Edges {
		u, ok := b.IDs[e.From]
		if !ok {
			return nil, fmt.Errorf("%w: edge %s -- %s: unknown node %q", ErrInvalidDocument, e.From, e.To, e.From)
		}
		v, ok := b.IDs[e.To]
		if !ok {
			return nil, fmt.Errorf("%w: edge %s -- %s: unknown node %q", ErrInvalidDocument, e.From, e.To, e.To)
		}
		if u == v {
			return nil, fmt.Errorf("%w: edge %s -- %s joins a node to itself", ErrInvalidDocument, e.From, e.To)
		}
		if !b.Graph.AddEdge(u, v) {
			logger.Warn("Skipping duplicate edge.", "from", e.From, "to", e.To, "source", doc.Source)
		}
	}

	logger.Debug("Document bound to graph.", "source", doc.Source, "nodes", b.Graph.NodeCount(), "edges", b.Graph.EdgeCount())
	return b, nil
}

// Refresh copies the current node colors of the bound graph into doc.
// Nodes that are no longer present keep their document color.
func (b *Binding) Refresh(doc *Document) {
	for _, n := range doc.Nodes {
		id, ok := b.IDs[n.Name]
		if !ok {
			continue
		}
		if node, ok := b.Graph.Node(id); ok {
			n.Color = colorName(node.Color)
		}
	}
}

// FromGraph renders g as a document. Node names are taken from labels when
// they are unique, otherwise "n<id>" is used.
func FromGraph(g graph.View, budget int) *Document {
	nodes := g.Nodes()
	names := nodeNames(nodes)

	doc := &Document{Budget: budget}
	for _, n := range nodes {
		doc.Nodes = append(doc.Nodes, &Node{
			Name:     names[n.ID],
			Label:    n.Label,
			Color:    colorName(n.Color),
			Position: n.Position,
			Meta:     n.Meta,
		})
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, &Edge{From: names[e.U], To: names[e.V]})
	}
	return doc
}

func nodeNames(nodes []graph.Node) map[graph.NodeID]string {
	labels := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if n.Label != "" {
			labels[n.Label]++
		}
	}

	names := make(map[graph.NodeID]string, len(nodes))
	taken := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if n.Label != "" && labels[n.Label] == 1 {
			names[n.ID] = n.Label
			taken[n.Label] = true
		}
	}
	for _, n := range nodes {
		if _, ok := names[n.ID]; ok {
			continue
		}
		name := fmt.Sprintf("n%d", n.ID)
		for taken[name] {
			name += "_"
		}
		names[n.ID] = name
		taken[name] = true
	}
	return names
}

func colorName(c graph.Color) string {
	if !c.Valid() {
		return ""
	}
	return c.String()
}
