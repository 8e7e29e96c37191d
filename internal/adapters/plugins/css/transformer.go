// Package css implements the stylesheet transformer. It records @import
// rules and url() references as dependencies and leaves the text untouched.
package css

import (
	"bytes"
	"context"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/rebund/internal/adapters/plugins/resolver"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

// Version is bumped whenever extraction changes.
const Version = "1"

// Type is the asset type of stylesheets.
const Type = "css"

var (
	comments = regexp.MustCompile(`(?s)/\*.*?\*/`)
	// @import "x"; @import url(x);
	importRule = regexp.MustCompile(`@import\s+(?:url\(\s*)?["']?([^"')\s;]+)["']?\s*\)?`)
	urlRef     = regexp.MustCompile(`url\(\s*["']?([^"')]+?)["']?\s*\)`)
)

// Transformer is the built-in stylesheet transformer.
type Transformer struct{}

// New creates a Transformer.
func New() *Transformer {
	return &Transformer{}
}

// Identity returns the transformer's identity.
func (t *Transformer) Identity() ports.PluginIdentity {
	return ports.PluginIdentity{Name: "css", Version: Version}
}

// Transform extracts the dependencies of a stylesheet. The url() targets of
// @import rules are reported once.
func (t *Transformer) Transform(_ context.Context, in ports.TransformInput) (ports.TransformOutput, error) {
	// Blank out comments keeping offsets and line breaks.
	src := comments.ReplaceAllFunc(bytes.Clone(in.Content), func(m []byte) []byte {
		for i, c := range m {
			if c != '\n' {
				m[i] = ' '
			}
		}
		return m
	})

	var deps []domain.Dependency
	imported := make(map[int]bool)
	for _, m := range importRule.FindAllSubmatchIndex(src, -1) {
		imported[m[0]] = true
		deps = appendDep(deps, src, string(src[m[2]:m[3]]), m[0])
	}
	for _, m := range urlRef.FindAllSubmatchIndex(src, -1) {
		if insideImport(src, m[0], imported) {
			continue
		}
		deps = appendDep(deps, src, strings.TrimSpace(string(src[m[2]:m[3]])), m[0])
	}

	slices.SortStableFunc(deps, func(a, b domain.Dependency) int { return a.Line - b.Line })
	return ports.TransformOutput{Type: Type, Content: in.Content, Dependencies: deps}, nil
}

func appendDep(deps []domain.Dependency, src []byte, spec string, offset int) []domain.Dependency {
	if resolver.IsExternal(spec) {
		return deps
	}
	return append(deps, domain.Dependency{
		Specifier: URLSpecifier(spec),
		Priority:  domain.PrioritySync,
		Line:      bytes.Count(src[:offset], []byte{'\n'}) + 1,
	})
}

// insideImport reports whether the url() at offset belongs to an @import rule.
func insideImport(src []byte, offset int, imported map[int]bool) bool {
	start := bytes.LastIndex(src[:offset], []byte("@import"))
	if start < 0 || !imported[start] {
		return false
	}
	return !bytes.ContainsAny(src[start:offset], ";{}")
}

// URLSpecifier turns a url as written in a document into a specifier: plain
// names are relative to the document, a leading ~ selects a package.
func URLSpecifier(url string) string {
	switch {
	case strings.HasPrefix(url, "~"):
		return url[1:]
	case strings.HasPrefix(url, "./"), strings.HasPrefix(url, "../"), strings.HasPrefix(url, "/"):
		return url
	default:
		return "./" + url
	}
}
