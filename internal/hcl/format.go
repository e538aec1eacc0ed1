package hcl

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/satcolor/internal/config"
	"github.com/vk/satcolor/internal/ctxlog"
)

// Format is the HCL implementation of config.Format.
type Format struct {
	conv *Converter
}

var _ config.Format = (*Format)(nil)

func New() *Format {
	return &Format{conv: NewConverter()}
}

func (f *Format) Extensions() []string { return []string{".hcl"} }

// Load reads and parses the document at path.
func (f *Format) Load(ctx context.Context, path string) (*config.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return f.Parse(ctx, path, src)
}

// Parse decodes src. Syntax errors and schema violations are reported as
// config.ErrInvalidDocument with the HCL diagnostics attached.
func (f *Format) Parse(ctx context.Context, name string, src []byte) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)

	file, diags := hclparse.NewParser().ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse HCL file %s: %w", config.ErrInvalidDocument, name, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode HCL file %s: %w", config.ErrInvalidDocument, name, diags)
	}

	doc := &config.Document{Source: name}
	if root.Budget != nil {
		doc.Budget = *root.Budget
	}
	if root.Solver != nil {
		s, err := translateSolver(root.Solver)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", config.ErrInvalidDocument, name, err)
		}
		doc.Solver = s
	}
	for _, nb := range root.Nodes {
		var attrs nodeAttributes
		if err := f.conv.DecodeAttributes(ctx, nb.Body, &attrs); err != nil {
			return nil, fmt.Errorf("%w: node %q: %w", config.ErrInvalidDocument, nb.Name, err)
		}
		doc.Nodes = append(doc.Nodes, &config.Node{
			Name:     nb.Name,
			Label:    attrs.Label,
			Color:    attrs.Color,
			Position: attrs.Position,
			Meta:     attrs.Meta,
		})
	}
	for _, eb := range root.Edges {
		doc.Edges = append(doc.Edges, &config.Edge{From: eb.From, To: eb.To})
	}

	if err := config.Validate(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	logger.Debug("HCL document parsed.", "source", name, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return doc, nil
}

func translateSolver(b *solverBlock) (*config.SolverConfig, error) {
	s := &config.SolverConfig{Kind: b.Kind, Args: b.Args}
	if b.Path != nil {
		s.Path = *b.Path
	}
	if b.Output != nil {
		s.Output = *b.Output
	}
	if b.Timeout != nil {
		d, err := time.ParseDuration(*b.Timeout)
		if err != nil {
			return nil, fmt.Errorf("solver timeout: %w", err)
		}
		s.Timeout = d
	}
	return s, nil
}

// Write renders doc as HCL.
func (f *Format) Write(ctx context.Context, w io.Writer, doc *config.Document) error {
	out := hclwrite.NewEmptyFile()
	body := out.Body()

	if doc.Budget > 0 {
		body.SetAttributeValue("budget", cty.NumberIntVal(int64(doc.Budget)))
	}

	if s := doc.Solver; s != nil {
		body.AppendNewline()
		kind := s.Kind
		if kind == "" {
			kind = "external"
		}
		sb := body.AppendNewBlock("solver", []string{kind}).Body()
		if s.Path != "" {
			sb.SetAttributeValue("path", cty.StringVal(s.Path))
		}
		if len(s.Args) > 0 {
			v, err := f.conv.ToCtyValue(s.Args)
			if err != nil {
				return fmt.Errorf("solver args: %w", err)
			}
			sb.SetAttributeValue("args", v)
		}
		if s.Output != "" {
			sb.SetAttributeValue("output", cty.StringVal(s.Output))
		}
		if s.Timeout > 0 {
			sb.SetAttributeValue("timeout", cty.StringVal(s.Timeout.String()))
		}
	}

	for _, n := range doc.Nodes {
		body.AppendNewline()
		nb := body.AppendNewBlock("node", []string{n.Name}).Body()
		if n.Label != "" {
			nb.SetAttributeValue("label", cty.StringVal(n.Label))
		}
		if n.Color != "" {
			nb.SetAttributeValue("color", cty.StringVal(n.Color))
		}
		if len(n.Position) > 0 {
			v, err := f.conv.ToCtyValue(n.Position)
			if err != nil {
				return fmt.Errorf("node %q position: %w", n.Name, err)
			}
			nb.SetAttributeValue("position", v)
		}
		if len(n.Meta) > 0 {
			v, err := f.conv.ToCtyValue(n.Meta)
			if err != nil {
				return fmt.Errorf("node %q meta: %w", n.Name, err)
			}
			nb.SetAttributeValue("meta", v)
		}
	}

	if len(doc.Edges) > 0 {
		body.AppendNewline()
	}
	for _, e := range doc.Edges {
		body.AppendNewBlock("edge", []string{e.From, e.To})
	}

	n, err := w.Write(hclwrite.Format(out.Bytes()))
	if err != nil {
		return fmt.Errorf("writing HCL document: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("HCL document written.", "bytes", n, "nodes", len(doc.Nodes))
	return nil
}
