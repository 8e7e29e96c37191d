// Package raw implements the fallback transformer: the file is copied as-is
// and typed by its extension.
package raw

import (
	"context"
	"path/filepath"
	"strings"

	"go.trai.ch/rebund/internal/core/ports"
)

// Version is bumped whenever typing changes.
const Version = "1"

// Transformer is the built-in fallback transformer.
type Transformer struct{}

// New creates a Transformer.
func New() *Transformer {
	return &Transformer{}
}

// Identity returns the transformer's identity.
func (t *Transformer) Identity() ports.PluginIdentity {
	return ports.PluginIdentity{Name: "raw", Version: Version}
}

// Transform passes the content through. The type is the lower-case file
// extension, or "bin" for files without one.
func (t *Transformer) Transform(_ context.Context, in ports.TransformInput) (ports.TransformOutput, error) {
	typ := strings.ToLower(strings.TrimPrefix(filepath.Ext(in.FilePath), "."))
	if typ == "" {
		typ = "bin"
	}
	return ports.TransformOutput{Type: typ, Content: in.Content}, nil
}
