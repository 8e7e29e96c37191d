package raw_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebund/internal/adapters/plugins/raw"
	"go.trai.ch/rebund/internal/core/ports"
)

func TestTransform(t *testing.T) {
	for path, want := range map[string]string{
		"/p/logo.PNG":  "png",
		"/p/data.json": "json",
		"/p/LICENSE":   "bin",
	} {
		out, err := raw.New().Transform(t.Context(), ports.TransformInput{FilePath: path, Content: []byte("x")})
		require.NoError(t, err)
		assert.Equal(t, want, out.Type, path)
		assert.Equal(t, "x", string(out.Content))
		assert.Empty(t, out.Dependencies)
	}
}
