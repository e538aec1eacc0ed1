// Package yamldoc reads and writes graph documents in YAML. It carries the
// same fields as the HCL format:
//
//	budget: 3
//	solver:
//	  kind: gophersat
//	  timeout: 30s
//	nodes:
//	  - name: a
//	    color: red
//	    position: [10, 20]
//	  - name: b
//	edges:
//	  - [a, b]
package yamldoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vk/satcolor/internal/config"
	"github.com/vk/satcolor/internal/ctxlog"
)

type document struct {
	Budget int     `yaml:"budget,omitempty"`
	Solver *solver `yaml:"solver,omitempty"`
	Nodes  []node  `yaml:"nodes"`
	Edges  []edge  `yaml:"edges,omitempty"`
}

type solver struct {
	Kind    string   `yaml:"kind,omitempty"`
	Path    string   `yaml:"path,omitempty"`
	Args    []string `yaml:"args,omitempty"`
	Output  string   `yaml:"output,omitempty"`
	Timeout string   `yaml:"timeout,omitempty"`
}

type node struct {
	Name     string            `yaml:"name"`
	Label    string            `yaml:"label,omitempty"`
	Color    string            `yaml:"color,omitempty"`
	Position []float64         `yaml:"position,omitempty,flow"`
	Meta     map[string]string `yaml:"meta,omitempty"`
}

// edge is written as a two element flow sequence: [from, to].
type edge []string

func (e edge) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, name := range e {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name})
	}
	return n, nil
}

// Format is the YAML implementation of config.Format.
type Format struct{}

var _ config.Format = (*Format)(nil)

func New() *Format { return &Format{} }

func (f *Format) Extensions() []string { return []string{".yaml", ".yml"} }

func (f *Format) Load(ctx context.Context, path string) (*config.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return f.Parse(ctx, path, src)
}

// Parse decodes src strictly: unknown keys are errors.
func (f *Format) Parse(ctx context.Context, name string, src []byte) (*config.Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var raw document
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to parse YAML file %s: %w", config.ErrInvalidDocument, name, err)
	}

	doc := &config.Document{Source: name, Budget: raw.Budget}
	if s := raw.Solver; s != nil {
		doc.Solver = &config.SolverConfig{Kind: s.Kind, Path: s.Path, Args: s.Args, Output: s.Output}
		if s.Timeout != "" {
			d, err := time.ParseDuration(s.Timeout)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: solver timeout: %w", config.ErrInvalidDocument, name, err)
			}
			doc.Solver.Timeout = d
		}
	}
	for _, n := range raw.Nodes {
		doc.Nodes = append(doc.Nodes, &config.Node{
			Name:     n.Name,
			Label:    n.Label,
			Color:    n.Color,
			Position: n.Position,
			Meta:     n.Meta,
		})
	}
	for i, e := range raw.Edges {
		if len(e) != 2 {
			return nil, fmt.Errorf("%w: %s: edge %d must name exactly two nodes, got %d", config.ErrInvalidDocument, name, i, len(e))
		}
		doc.Edges = append(doc.Edges, &config.Edge{From: e[0], To: e[1]})
	}

	if err := config.Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	ctxlog.FromContext(ctx).Debug("YAML document parsed.", "source", name, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return doc, nil
}

func (f *Format) Write(ctx context.Context, w io.Writer, doc *config.Document) error {
	raw := document{Budget: doc.Budget}
	if s := doc.Solver; s != nil {
		raw.Solver = &solver{Kind: s.Kind, Path: s.Path, Args: s.Args, Output: s.Output}
		if s.Timeout > 0 {
			raw.Solver.Timeout = s.Timeout.String()
		}
	}
	for _, n := range doc.Nodes {
		raw.Nodes = append(raw.Nodes, node{
			Name:     n.Name,
			Label:    n.Label,
			Color:    n.Color,
			Position: n.Position,
			Meta:     n.Meta,
		})
	}
	for _, e := range doc.Edges {
		raw.Edges = append(raw.Edges, edge{e.From, e.To})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&raw); err != nil {
		return fmt.Errorf("writing YAML document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("writing YAML document: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("YAML document written.", "nodes", len(doc.Nodes))
	return nil
}
