// Package glob implements ports.PatternMatcher over the two supported glob
// syntaxes.
package glob

import (
	"github.com/bmatcuk/doublestar/v4"
	gobwas "github.com/gobwas/glob"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/zerr"
)

const compiledPatterns = 256

// Matcher matches names against patterns in the configured syntax.
type Matcher struct {
	syntax string
	// compiled holds gobwas patterns; doublestar matches without compiling.
	compiled *lru.Cache[string, gobwas.Glob]
}

// New creates a Matcher for syntax. An empty syntax selects doublestar.
func New(syntax string) (*Matcher, error) {
	switch syntax {
	case "", domain.GlobDoublestar:
		return &Matcher{syntax: domain.GlobDoublestar}, nil
	case domain.GlobGobwas:
		cache, err := lru.New[string, gobwas.Glob](compiledPatterns)
		if err != nil {
			return nil, err
		}
		return &Matcher{syntax: domain.GlobGobwas, compiled: cache}, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidGlobSyntax, ""), "syntax", syntax)
	}
}

// Syntax returns the syntax in use.
func (m *Matcher) Syntax() string {
	return m.syntax
}

// Match reports whether name matches pattern.
func (m *Matcher) Match(pattern, name string) bool {
	if m.syntax == domain.GlobDoublestar {
		ok, err := doublestar.Match(pattern, name)
		return err == nil && ok
	}
	g, err := m.compile(pattern)
	if err != nil {
		return false
	}
	return g.Match(name)
}

// Validate reports whether pattern compiles.
func (m *Matcher) Validate(pattern string) error {
	if m.syntax == domain.GlobDoublestar {
		if !doublestar.ValidatePattern(pattern) {
			return zerr.With(zerr.Wrap(domain.ErrInvalidGlobPattern, ""), "pattern", pattern)
		}
		return nil
	}
	_, err := m.compile(pattern)
	return err
}

func (m *Matcher) compile(pattern string) (gobwas.Glob, error) {
	if g, ok := m.compiled.Get(pattern); ok {
		return g, nil
	}
	g, err := gobwas.Compile(pattern, '/')
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidGlobPattern, err.Error()), "pattern", pattern)
	}
	m.compiled.Add(pattern, g)
	return g, nil
}
