// Package resolver implements the built-in specifier resolver: relative and
// absolute paths with extension and index probing, and bare package names
// looked up in node_modules directories.
package resolver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

// Version is bumped whenever the resolution algorithm changes.
const Version = "1"

// DefaultExtensions are probed, in order, after the bare path.
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx", ".json", ".css"}

// Resolver is the built-in resolver.
type Resolver struct{}

// New creates a Resolver.
func New() *Resolver {
	return &Resolver{}
}

// Identity returns the resolver's identity.
func (r *Resolver) Identity() ports.PluginIdentity {
	return ports.PluginIdentity{Name: "resolver", Version: Version}
}

// Resolve maps req.Specifier to a file. Every probed path that does not
// exist yields a FileCreated subscription; the file found yields a
// FileDeleted one.
func (r *Resolver) Resolve(_ context.Context, req ports.ResolveRequest) (ports.ResolveResult, error) {
	p := &probe{fs: req.FS, exts: req.Options.Strings("extensions", DefaultExtensions)}

	spec := req.Specifier
	if IsExternal(spec) {
		return ports.ResolveResult{NotFound: true}, nil
	}
	spec, _, _ = strings.Cut(spec, "?")

	var found string
	switch {
	case filepath.IsAbs(spec):
		found = p.file(filepath.Clean(spec))
	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || spec == "." || spec == "..":
		found = p.file(filepath.Join(req.FromDir, filepath.FromSlash(spec)))
	default:
		found = p.bare(req.FromDir, spec)
	}

	if found == "" {
		return ports.ResolveResult{NotFound: true, Invalidations: p.triggers}, nil
	}
	p.triggers = append(p.triggers, domain.OnFileDelete(found))
	return ports.ResolveResult{Path: found, Invalidations: p.triggers}, nil
}

// IsExternal reports whether spec points outside the project: URLs,
// protocol-relative paths, data URIs and fragments.
func IsExternal(spec string) bool {
	switch {
	case spec == "", strings.HasPrefix(spec, "#"), strings.HasPrefix(spec, "//"), strings.HasPrefix(spec, "data:"):
		return true
	default:
		return strings.Contains(spec, "://")
	}
}

type probe struct {
	fs       ports.FileSystem
	exts     []string
	triggers []domain.Trigger
}

func (p *probe) exists(path string) bool {
	if p.fs.IsFile(path) {
		return true
	}
	p.triggers = append(p.triggers, domain.OnFileCreate(filepath.Dir(path), filepath.Base(path)))
	return false
}

// file probes base, base with each extension, then base/index with each extension.
func (p *probe) file(base string) string {
	if p.exists(base) {
		return base
	}
	for _, ext := range p.exts {
		if p.exists(base + ext) {
			return base + ext
		}
	}
	for _, ext := range p.exts {
		index := filepath.Join(base, "index"+ext)
		if p.exists(index) {
			return index
		}
	}
	return ""
}

// bare looks spec up in the node_modules directories of fromDir and its parents.
func (p *probe) bare(fromDir, spec string) string {
	name, sub := splitPackage(spec)
	for dir := fromDir; ; dir = filepath.Dir(dir) {
		pkgDir := filepath.Join(dir, "node_modules", filepath.FromSlash(name))
		manifest := filepath.Join(pkgDir, "package.json")
		if p.exists(manifest) {
			p.triggers = append(p.triggers, domain.OnFileUpdate(manifest))
			if sub != "" {
				return p.file(filepath.Join(pkgDir, filepath.FromSlash(sub)))
			}
			return p.file(filepath.Join(pkgDir, p.entry(manifest)))
		}
		if filepath.Dir(dir) == dir {
			return ""
		}
	}
}

// entry returns the entry file named by a package manifest.
func (p *probe) entry(manifest string) string {
	data, err := p.fs.ReadFile(manifest)
	if err != nil {
		return "index"
	}
	var pkg struct {
		Module string `json:"module"`
		Main   string `json:"main"`
	}
	if json.Unmarshal(data, &pkg) != nil {
		return "index"
	}
	switch {
	case pkg.Module != "":
		return filepath.FromSlash(pkg.Module)
	case pkg.Main != "":
		return filepath.FromSlash(pkg.Main)
	default:
		return "index"
	}
}

// splitPackage splits a bare specifier into the package name and the subpath.
func splitPackage(spec string) (name, sub string) {
	parts := strings.SplitN(spec, "/", 3)
	if strings.HasPrefix(spec, "@") && len(parts) > 1 {
		name = parts[0] + "/" + parts[1]
		if len(parts) == 3 {
			sub = parts[2]
		}
		return name, sub
	}
	name, sub, _ = strings.Cut(spec, "/")
	return name, sub
}
