package plugins

import (
	"errors"

	"go.trai.ch/rebund/internal/adapters/plugins/bundler"
	"go.trai.ch/rebund/internal/adapters/plugins/css"
	"go.trai.ch/rebund/internal/adapters/plugins/html"
	"go.trai.ch/rebund/internal/adapters/plugins/js"
	"go.trai.ch/rebund/internal/adapters/plugins/namer"
	"go.trai.ch/rebund/internal/adapters/plugins/raw"
	"go.trai.ch/rebund/internal/adapters/plugins/resolver"
	"go.trai.ch/rebund/internal/adapters/plugins/runtime"
	"go.trai.ch/rebund/internal/core/domain"
)

// Names of the built-in transformers, as used by domain.DefaultTransformers.
const (
	TransformerJS   = "js"
	TransformerCSS  = "css"
	TransformerHTML = "html"
	TransformerRaw  = "raw"
)

// Builtins is a registry holding the built-in plugin set.
type Builtins struct {
	*Registry
	scripts *js.Transformer
}

// NewBuiltins registers the built-in plugins under their default names.
func NewBuiltins() (*Builtins, error) {
	scripts, err := js.New()
	if err != nil {
		return nil, err
	}

	r := NewRegistry()
	err = errors.Join(
		r.RegisterResolver(domain.DefaultResolverName, resolver.New()),
		r.RegisterTransformer(TransformerJS, scripts),
		r.RegisterTransformer(TransformerCSS, css.New()),
		r.RegisterTransformer(TransformerHTML, html.New(scripts)),
		r.RegisterTransformer(TransformerRaw, raw.New()),
		r.RegisterBundler(domain.DefaultBundlerName, bundler.New()),
		r.RegisterNamer(domain.DefaultNamerName, namer.New()),
		r.RegisterRuntime(domain.DefaultRuntimeName, runtime.New()),
	)
	if err != nil {
		scripts.Close()
		return nil, err
	}
	return &Builtins{Registry: r, scripts: scripts}, nil
}

// Close releases the parsers' compiled queries.
func (b *Builtins) Close() {
	b.scripts.Close()
}
