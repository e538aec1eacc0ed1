package config

import (
	"context"
	"io"
)

// Loader reads one graph document.
type Loader interface {
	Load(ctx context.Context, path string) (*Document, error)
	// Parse reads a document from src; name is used in diagnostics.
	Parse(ctx context.Context, name string, src []byte) (*Document, error)
}

// Writer renders a document back to its source format.
type Writer interface {
	Write(ctx context.Context, w io.Writer, doc *Document) error
}

// Format is a loader and writer for one file extension.
type Format interface {
	Loader
	Writer
	// Extensions lists the file extensions, with the leading dot.
	Extensions() []string
}
