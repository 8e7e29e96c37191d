package js

import (
	"embed"
	"path"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	"go.trai.ch/zerr"
)

//go:embed queries/*.scm
var queryFiles embed.FS

// Dialect selects the grammar a file is parsed with.
type Dialect uint8

const (
	// DialectTS parses plain TypeScript, which also covers JavaScript without JSX.
	DialectTS Dialect = iota
	// DialectTSX parses TypeScript or JavaScript with JSX.
	DialectTSX
)

var languages = [...]*ts.Language{
	DialectTS:  ts.NewLanguage(tsTypescript.LanguageTypescript()),
	DialectTSX: ts.NewLanguage(tsTypescript.LanguageTSX()),
}

var parserPools = [...]*sync.Pool{
	DialectTS:  newParserPool(DialectTS),
	DialectTSX: newParserPool(DialectTSX),
}

func newParserPool(d Dialect) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			parser := ts.NewParser()
			if err := parser.SetLanguage(languages[d]); err != nil {
				panic("failed to set tree-sitter language: " + err.Error())
			}
			return parser
		},
	}
}

func getParser(d Dialect) *ts.Parser {
	//nolint:forcetypeassert // the pool only holds parsers
	return parserPools[d].Get().(*ts.Parser)
}

func putParser(d Dialect, p *ts.Parser) {
	p.Reset()
	parserPools[d].Put(p)
}

// queries holds the compiled queries of one dialect, keyed by file name.
type queries struct {
	imports *ts.Query
	env     *ts.Query
}

func loadQueries(d Dialect) (*queries, error) {
	imports, err := loadQuery(d, "imports")
	if err != nil {
		return nil, err
	}
	env, err := loadQuery(d, "env")
	if err != nil {
		imports.Close()
		return nil, err
	}
	return &queries{imports: imports, env: env}, nil
}

func loadQuery(d Dialect, name string) (*ts.Query, error) {
	file := path.Join("queries", name+".scm")
	data, err := queryFiles.ReadFile(file)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read query"), "query", file)
	}
	query, qerr := ts.NewQuery(languages[d], string(data))
	if qerr != nil {
		return nil, zerr.With(zerr.Wrap(qerr, "failed to compile query"), "query", file)
	}
	return query, nil
}

func (q *queries) close() {
	q.imports.Close()
	q.env.Close()
}
