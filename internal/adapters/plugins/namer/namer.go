// Package namer implements the built-in bundle namer.
package namer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

// Version is bumped whenever the naming scheme changes.
const Version = "1"

// Namer names bundles <stem>.<hash8>.<ext> after their entry asset. Entry
// bundles keep their plain <stem>.<ext> unless the hashEntries option is set.
// Bundles of a non-default target are placed in a directory named after it.
type Namer struct{}

// New creates a Namer.
func New() *Namer {
	return &Namer{}
}

// Identity returns the namer's identity.
func (n *Namer) Identity() ports.PluginIdentity {
	return ports.PluginIdentity{Name: "namer", Version: Version}
}

// Name returns the name of in.Bundle. The hash covers the bundle id and its
// members, never their contents, so content edits keep names stable.
func (n *Namer) Name(_ context.Context, in ports.NameInput) (string, error) {
	b := in.Bundle
	base := filepath.Base(b.EntryAsset.Path())
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	name := stem + "." + b.Type
	if !b.IsEntry || in.Options.Bool("hashEntries", false) {
		name = stem + "." + hash(b)[:8] + "." + b.Type
	}
	if b.Target != "" && b.Target != domain.DefaultTargetName {
		name = b.Target + "/" + name
	}
	return name, nil
}

func hash(b domain.Bundle) string {
	h := xxhash.New()
	_, _ = h.WriteString(string(b.ID))
	for _, a := range b.Assets {
		_, _ = h.WriteString("\x00" + string(a))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
