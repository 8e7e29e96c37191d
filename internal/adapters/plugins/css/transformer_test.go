package css_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebund/internal/adapters/plugins/css"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
)

func TestTransform_Dependencies(t *testing.T) {
	src := `@import "theme.css";
@import url('./reset.css') screen;
/* url(commented.png) */
body {
  background: url(img/bg.png) no-repeat;
  font: url("https://fonts.example.com/a.woff2");
}
.icon { mask: url( "~icons/star.svg" ); }
.anchor { filter: url(#blur); }
`
	out, err := css.New().Transform(t.Context(), ports.TransformInput{
		FilePath: "/p/style.css",
		Content:  []byte(src),
	})
	require.NoError(t, err)

	want := []domain.Dependency{
		{Specifier: "./theme.css", Line: 1},
		{Specifier: "./reset.css", Line: 2},
		{Specifier: "./img/bg.png", Line: 5},
		{Specifier: "icons/star.svg", Line: 8},
	}
	if diff := cmp.Diff(want, out.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, css.Type, out.Type)
	assert.Equal(t, src, string(out.Content))
}

func TestURLSpecifier(t *testing.T) {
	for in, want := range map[string]string{
		"a.css":      "./a.css",
		"./a.css":    "./a.css",
		"../a.css":   "../a.css",
		"/abs.css":   "/abs.css",
		"~pkg/a.css": "pkg/a.css",
	} {
		assert.Equal(t, want, css.URLSpecifier(in), in)
	}
}
