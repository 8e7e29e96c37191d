// Package html implements the document transformer. Scripts, stylesheets and
// media referenced by a page become its dependencies; inline module scripts
// are scanned for imports.
package html

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"go.trai.ch/rebund/internal/adapters/plugins/css"
	"go.trai.ch/rebund/internal/adapters/plugins/js"
	"go.trai.ch/rebund/internal/adapters/plugins/resolver"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
)

// Version is bumped whenever extraction changes.
const Version = "1"

// Type is the asset type of documents.
const Type = "html"

// ScriptScanner finds the imports of inline scripts.
type ScriptScanner interface {
	Scan(content []byte, d js.Dialect) []js.Import
}

// linkRels are the link relations whose href is bundled.
var linkRels = map[string]bool{
	"stylesheet":    true,
	"icon":          true,
	"manifest":      true,
	"modulepreload": true,
}

// Transformer is the built-in document transformer.
type Transformer struct {
	scripts ScriptScanner
}

// New creates a Transformer. A nil scanner skips inline scripts.
func New(scripts ScriptScanner) *Transformer {
	return &Transformer{scripts: scripts}
}

// Identity returns the transformer's identity.
func (t *Transformer) Identity() ports.PluginIdentity {
	return ports.PluginIdentity{Name: "html", Version: Version}
}

// Transform extracts the dependencies of a document.
func (t *Transformer) Transform(_ context.Context, in ports.TransformInput) (ports.TransformOutput, error) {
	z := html.NewTokenizer(bytes.NewReader(in.Content))

	var (
		deps   []domain.Dependency
		line   = 1
		inline bool
	)
	add := func(url string, prio domain.Priority, at int) {
		url = strings.TrimSpace(url)
		if resolver.IsExternal(url) {
			return
		}
		deps = append(deps, domain.Dependency{Specifier: css.URLSpecifier(url), Priority: prio, Line: at})
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return ports.TransformOutput{}, domain.NewFailure(domain.ErrTransformFailure, in.FilePath, line,
					zerr.Wrap(err, "failed to tokenize document"))
			}
			break
		}
		at := line
		line += bytes.Count(z.Raw(), []byte{'\n'})
		tok := z.Token()

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			inline = false
			attrs := attrMap(tok.Attr)
			switch tok.Data {
			case "script":
				if src, ok := attrs["src"]; ok {
					add(src, domain.PrioritySync, at)
				} else if attrs["type"] == "module" && tt == html.StartTagToken {
					inline = true
				}
			case "link":
				if href, ok := attrs["href"]; ok && linkRels[strings.ToLower(attrs["rel"])] {
					add(href, domain.PrioritySync, at)
				}
			case "img", "source", "audio", "video", "track":
				if src, ok := attrs["src"]; ok {
					add(src, domain.PrioritySync, at)
				}
			}
		case html.TextToken:
			if inline && t.scripts != nil {
				for _, imp := range t.scripts.Scan([]byte(tok.Data), js.DialectTSX) {
					prio := domain.PrioritySync
					if imp.Dynamic {
						prio = domain.PriorityLazy
					}
					if !resolver.IsExternal(imp.Specifier) {
						deps = append(deps, domain.Dependency{Specifier: imp.Specifier, Priority: prio, Line: at + imp.Line - 1})
					}
				}
			}
			inline = false
		default:
			inline = false
		}
	}

	return ports.TransformOutput{Type: Type, Content: in.Content, Dependencies: deps}, nil
}

func attrMap(attrs []html.Attribute) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[strings.ToLower(a.Key)] = a.Val
	}
	return m
}
