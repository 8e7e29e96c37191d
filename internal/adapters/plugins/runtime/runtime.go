// Package runtime implements the built-in runtime provider: script bundles
// that load lazy bundles get a small loader mapping bundle ids to files.
package runtime

import (
	"bytes"
	"context"
	"encoding/json"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

// Version is bumped whenever the loader changes.
const Version = "1"

// Provider is the built-in runtime provider.
type Provider struct{}

// New creates a Provider.
func New() *Provider {
	return &Provider{}
}

// Identity returns the provider's identity.
func (p *Provider) Identity() ports.PluginIdentity {
	return ports.PluginIdentity{Name: "runtime", Version: Version}
}

// Apply returns the loader for in.Bundle, or nothing when it has no lazy
// children. Option publicPath (default "./") prefixes the loaded file names.
func (p *Provider) Apply(_ context.Context, in ports.RuntimeInput) ([]domain.RuntimeAsset, error) {
	if in.Bundle.Type != "js" {
		return nil, nil
	}

	var buf bytes.Buffer
	for _, child := range in.Graph.Children(in.Bundle.ID) {
		if !child.Lazy {
			continue
		}
		id, err := json.Marshal(string(child.ID))
		if err != nil {
			return nil, err
		}
		file, err := json.Marshal(in.Options.String("publicPath", "./") + in.ChildNames[child.ID])
		if err != nil {
			return nil, err
		}
		buf.WriteString("  " + string(id) + ": " + string(file) + ",\n")
	}
	if buf.Len() == 0 {
		return nil, nil
	}

	var out bytes.Buffer
	out.WriteString("const __rebundBundles = {\n")
	out.Write(buf.Bytes())
	out.WriteString("};\n")
	out.WriteString("globalThis.__rebundLoad = (id) => import(__rebundBundles[id]);\n")
	return []domain.RuntimeAsset{{Provider: p.Identity().String(), Type: "js", Content: out.Bytes()}}, nil
}
