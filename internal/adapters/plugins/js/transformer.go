// Package js implements the JavaScript and TypeScript transformer. Imports,
// re-exports, dynamic imports and require calls are extracted with
// tree-sitter queries; process.env.NAME reads are inlined.
package js

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	"go.trai.ch/rebund/internal/adapters/plugins/resolver"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/zerr"
)

// Version is bumped whenever extraction or inlining changes.
const Version = "1"

// Type is the asset type of every transformed script.
const Type = "js"

// Import is a specifier found in a script.
type Import struct {
	Specifier string
	Dynamic   bool
	Line      int
}

// Transformer is the built-in script transformer.
type Transformer struct {
	mu      sync.Mutex
	closed  bool
	queries [2]*queries
}

// New compiles the queries of both dialects.
func New() (*Transformer, error) {
	t := &Transformer{}
	for _, d := range []Dialect{DialectTS, DialectTSX} {
		q, err := loadQueries(d)
		if err != nil {
			t.Close()
			return nil, err
		}
		t.queries[d] = q
	}
	return t, nil
}

// Close releases the compiled queries. Safe to call multiple times.
func (t *Transformer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for _, q := range t.queries {
		if q != nil {
			q.close()
		}
	}
}

// Identity returns the transformer's identity.
func (t *Transformer) Identity() ports.PluginIdentity {
	return ports.PluginIdentity{Name: "js", Version: Version}
}

// DialectOf picks the grammar for a file extension.
func DialectOf(path string) Dialect {
	switch filepath.Ext(path) {
	case ".ts", ".mts", ".cts":
		return DialectTS
	default:
		return DialectTSX
	}
}

// Transform extracts the dependencies of a script and inlines environment
// reads. Options: inlineEnv (bool, default true) and envPrefix (string):
// only variables starting with envPrefix are inlined.
func (t *Transformer) Transform(_ context.Context, in ports.TransformInput) (ports.TransformOutput, error) {
	d := DialectOf(in.FilePath)
	parser := getParser(d)
	defer putParser(d, parser)

	tree := parser.Parse(in.Content, nil)
	if tree == nil {
		return ports.TransformOutput{}, domain.NewFailure(domain.ErrTransformFailure, in.FilePath, 0,
			zerr.New("parser returned no tree"))
	}
	defer tree.Close()

	root := tree.RootNode()
	if bad := firstError(root); bad != nil {
		return ports.TransformOutput{}, domain.NewFailure(domain.ErrTransformFailure, in.FilePath,
			int(bad.StartPosition().Row)+1, zerr.With(zerr.New("syntax error"), "near", snippet(bad, in.Content)))
	}

	imports := t.imports(d, root, in.Content)
	deps := make([]domain.Dependency, 0, len(imports))
	for _, imp := range imports {
		if resolver.IsExternal(imp.Specifier) {
			continue
		}
		prio := domain.PrioritySync
		if imp.Dynamic {
			prio = domain.PriorityLazy
		}
		deps = append(deps, domain.Dependency{Specifier: imp.Specifier, Priority: prio, Line: imp.Line})
	}

	content := in.Content
	if in.Options.Bool("inlineEnv", true) && in.Env != nil {
		content = t.inlineEnv(d, root, in.Content, in.Env, in.Options.String("envPrefix", ""))
	}

	return ports.TransformOutput{Type: Type, Content: content, Dependencies: deps}, nil
}

// Scan returns the imports of content without transforming it. Syntax
// errors are ignored.
func (t *Transformer) Scan(content []byte, d Dialect) []Import {
	parser := getParser(d)
	defer putParser(d, parser)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()
	return t.imports(d, tree.RootNode(), content)
}

func (t *Transformer) imports(d Dialect, root *ts.Node, content []byte) []Import {
	query := t.queries[d].imports
	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	var out []Import
	matches := cursor.Matches(query, root, content)
	names := query.CaptureNames()
	for {
		match := matches.Next()
		if match == nil {
			break
		}

		var imp Import
		ok := true
		for _, capture := range match.Captures {
			text := capture.Node.Utf8Text(content)
			switch names[capture.Index] {
			case "require.fn":
				ok = text == "require"
			case "import.spec", "reexport.spec", "require.spec":
				imp.Specifier = text
				imp.Line = int(capture.Node.StartPosition().Row) + 1
			case "dynamic.spec":
				imp.Specifier = text
				imp.Dynamic = true
				imp.Line = int(capture.Node.StartPosition().Row) + 1
			}
		}
		if ok && imp.Specifier != "" {
			out = append(out, imp)
		}
	}
	slices.SortStableFunc(out, func(a, b Import) int { return a.Line - b.Line })
	return out
}

type edit struct {
	start, end uint
	text       []byte
}

func (t *Transformer) inlineEnv(d Dialect, root *ts.Node, content []byte, env ports.EnvReader, prefix string) []byte {
	query := t.queries[d].env
	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	var edits []edit
	matches := cursor.Matches(query, root, content)
	names := query.CaptureNames()
	for {
		match := matches.Next()
		if match == nil {
			break
		}

		var object, property, key string
		var expr *ts.Node
		for i := range match.Captures {
			capture := &match.Captures[i]
			switch names[capture.Index] {
			case "env.object":
				object = capture.Node.Utf8Text(content)
			case "env.property":
				property = capture.Node.Utf8Text(content)
			case "env.key":
				key = capture.Node.Utf8Text(content)
			case "env.expr":
				expr = &capture.Node
			}
		}
		if object != "process" || property != "env" || expr == nil || !strings.HasPrefix(key, prefix) {
			continue
		}
		if isAssigned(expr) {
			continue
		}

		value, err := json.Marshal(env.Get(key))
		if err != nil {
			continue
		}
		edits = append(edits, edit{start: expr.StartByte(), end: expr.EndByte(), text: value})
	}
	if len(edits) == 0 {
		return content
	}

	slices.SortFunc(edits, func(a, b edit) int { return int(a.start) - int(b.start) })
	var buf bytes.Buffer
	var last uint
	for _, e := range edits {
		if e.start < last {
			continue
		}
		buf.Write(content[last:e.start])
		buf.Write(e.text)
		last = e.end
	}
	buf.Write(content[last:])
	return buf.Bytes()
}

// isAssigned reports whether n is the target of an assignment.
func isAssigned(n *ts.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	switch parent.Kind() {
	case "assignment_expression", "augmented_assignment_expression":
		left := parent.ChildByFieldName("left")
		return left != nil && left.StartByte() == n.StartByte() && left.EndByte() == n.EndByte()
	default:
		return false
	}
}

// firstError returns the first error or missing node in document order.
func firstError(n *ts.Node) *ts.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := range n.ChildCount() {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

func snippet(n *ts.Node, content []byte) string {
	const limit = 40
	text := n.Utf8Text(content)
	if line, _, ok := strings.Cut(text, "\n"); ok {
		text = line
	}
	if len(text) > limit {
		text = text[:limit]
	}
	return text
}
