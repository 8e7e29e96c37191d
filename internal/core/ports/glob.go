package ports

// PatternMatcher matches base names against FileCreated patterns and
// relative paths against transformer and entry globs.
//
//go:generate mockgen -source=glob.go -destination=mocks/mock_glob.go -package=mocks
type PatternMatcher interface {
	// Match reports whether name matches pattern. Invalid patterns never match.
	Match(pattern, name string) bool
	// Validate returns an error when pattern cannot be compiled.
	Validate(pattern string) error
}

// MatcherFactory creates the matcher for a configured glob syntax.
type MatcherFactory interface {
	New(syntax string) (PatternMatcher, error)
}
