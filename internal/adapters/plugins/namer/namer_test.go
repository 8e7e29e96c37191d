package namer_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebund/internal/adapters/plugins/namer"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

func name(t *testing.T, b domain.Bundle, opts domain.Options) string {
	t.Helper()
	got, err := namer.New().Name(t.Context(), ports.NameInput{Bundle: b, Options: opts})
	require.NoError(t, err)
	return got
}

func TestName(t *testing.T) {
	entry := domain.Bundle{
		ID:         "entry:1",
		Type:       "js",
		EntryAsset: domain.NewAssetID("/p/src/index.ts", "js"),
		Assets:     []domain.AssetID{domain.NewAssetID("/p/src/index.ts", "js")},
		IsEntry:    true,
	}
	assert.Equal(t, "index.js", name(t, entry, nil))
	assert.Regexp(t, regexp.MustCompile(`^index\.[0-9a-f]{8}\.js$`), name(t, entry, domain.Options{"hashEntries": true}))

	shared := domain.Bundle{
		ID:         "type:2",
		Type:       "css",
		EntryAsset: domain.NewAssetID("/p/src/theme.css", "css"),
		Assets:     []domain.AssetID{domain.NewAssetID("/p/src/theme.css", "css")},
	}
	first := name(t, shared, nil)
	assert.Regexp(t, regexp.MustCompile(`^theme\.[0-9a-f]{8}\.css$`), first)
	assert.Equal(t, first, name(t, shared, nil))

	shared.Assets = append(shared.Assets, domain.NewAssetID("/p/src/extra.css", "css"))
	assert.NotEqual(t, first, name(t, shared, nil))

	entry.Target = "legacy"
	assert.Equal(t, "legacy/index.js", name(t, entry, nil))
}
