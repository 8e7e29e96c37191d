package ports

import (
	"context"

	"go.trai.ch/rebund/internal/core/domain"
)

//go:generate mockgen -source=plugins.go -destination=mocks/mock_plugins.go -package=mocks

// PluginIdentity is the explicit versioned token of a plugin.
// It is fingerprinted instead of the plugin's behavior.
type PluginIdentity struct {
	Name    string
	Version string
}

// String renders the identity as name@version.
func (p PluginIdentity) String() string {
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "@" + p.Version
}

// Plugin is implemented by every plugin capability.
type Plugin interface {
	Identity() PluginIdentity
}

// ResolveRequest is the input of a resolver.
type ResolveRequest struct {
	Specifier string
	// FromDir is the directory of the importing file.
	FromDir string
	Options domain.Options
	FS      FileSystem
}

// ResolveResult is the output of a resolver.
type ResolveResult struct {
	Path     string
	NotFound bool
	// Invalidations are the files probed while resolving, so the result can be
	// invalidated when one of them appears, changes or disappears.
	Invalidations []domain.Trigger
}

// Resolver maps a specifier to a file.
type Resolver interface {
	Plugin
	Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error)
}

// EnvReader gives plugins access to environment variables.
// Every key read becomes an invalidation subscription of the calling request.
type EnvReader interface {
	Get(key string) string
}

// TransformInput is the input of a transformer.
type TransformInput struct {
	FilePath string
	Type     string
	Content  []byte
	Options  domain.Options
	Env      EnvReader
}

// TransformOutput is the output of a transformer.
type TransformOutput struct {
	Type         string
	Content      []byte
	Dependencies []domain.Dependency
	// ContentHash may be left empty; the engine fills it in.
	ContentHash   domain.Fingerprint
	Invalidations []domain.Trigger
}

// Transformer compiles a single file.
type Transformer interface {
	Plugin
	Transform(ctx context.Context, in TransformInput) (TransformOutput, error)
}

// AssetGraphView is a read-only snapshot of the asset graph handed to the bundler.
type AssetGraphView interface {
	// Entries returns the entry assets in configuration order.
	Entries() []domain.AssetID
	// Assets returns every asset id, sorted.
	Assets() []domain.AssetID
	// Asset returns the asset with the given id.
	Asset(id domain.AssetID) (*domain.Asset, bool)
	// Dependencies returns the resolved outgoing edges of id in declaration order.
	Dependencies(id domain.AssetID) []domain.Edge
}

// BundleInput is the input of a bundler.
type BundleInput struct {
	Graph   AssetGraphView
	Options domain.Options
	Targets []domain.Target
}

// Bundler assigns assets to bundles.
type Bundler interface {
	Plugin
	Bundle(ctx context.Context, in BundleInput) (*domain.BundleGraph, error)
}

// NameInput is the input of a namer.
type NameInput struct {
	Bundle  domain.Bundle
	Graph   *domain.BundleGraph
	Options domain.Options
}

// Namer names a bundle. An empty name passes to the next namer.
type Namer interface {
	Plugin
	Name(ctx context.Context, in NameInput) (string, error)
}

// RuntimeInput is the input of a runtime provider.
type RuntimeInput struct {
	Bundle domain.Bundle
	Graph  *domain.BundleGraph
	// ChildNames maps every bundle referenced by Bundle to its name.
	ChildNames map[domain.BundleID]string
	Options    domain.Options
}

// RuntimeProvider injects code into a bundle.
type RuntimeProvider interface {
	Plugin
	Apply(ctx context.Context, in RuntimeInput) ([]domain.RuntimeAsset, error)
}

// PluginRegistry looks up plugins by configured name.
type PluginRegistry interface {
	Resolver(name string) (Resolver, error)
	Transformer(name string) (Transformer, error)
	Bundler(name string) (Bundler, error)
	Namer(name string) (Namer, error)
	Runtime(name string) (RuntimeProvider, error)
}
