// Package source provides catalog sources for the loader: the remote
// catalog API over HTTP and a local JSON file.
package source

import (
	"context"
	"fmt"
	"os"

	"github.com/dsjohal14/fontstack/internal/loader"
	"github.com/dsjohal14/fontstack/internal/scope/catalog"
)

// Ensure sources implement loader.Source at compile time.
var (
	_ loader.Source = (*HTTP)(nil)
	_ loader.Source = (*File)(nil)
)

// File reads the catalog from a JSON file in the catalog wire format
type File struct {
	path string
}

// NewFile creates a file source for path
func NewFile(path string) *File {
	return &File{path: path}
}

// Name returns "file"
func (f *File) Name() string { return "file" }

// Path returns the catalog file path
func (f *File) Path() string { return f.path }

// Fetch reads and decodes the catalog file
func (f *File) Fetch(ctx context.Context) ([]catalog.Family, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() { _ = fh.Close() }()

	return catalog.Decode(fh)
}
