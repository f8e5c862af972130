// # internal/engine/parser/parser.go
package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"a11ylint/internal/core/errors"
	"a11ylint/internal/model"
	"a11ylint/internal/shared/observability"
)

// Extractor turns a parsed syntax tree into a source model.
type Extractor interface {
	Extract(root *sitter.Node, source []byte, filePath string) (*model.SourceModel, error)
}

// Parser detects the dialect of a file by extension, parses it with
// the matching grammar and dispatches to the dialect extractor.
type Parser struct {
	languages  map[string]*sitter.Language
	extractors map[string]Extractor
	extensions map[string]string
}

func NewParser() *Parser {
	p := &Parser{
		languages: map[string]*sitter.Language{
			model.DialectHTML:       sitter.NewLanguage(tree_sitter_html.Language()),
			model.DialectCSS:        sitter.NewLanguage(tree_sitter_css.Language()),
			model.DialectJavaScript: sitter.NewLanguage(tree_sitter_javascript.Language()),
			model.DialectTypeScript: sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		},
		extractors: make(map[string]Extractor),
		extensions: map[string]string{
			".html": model.DialectHTML,
			".htm":  model.DialectHTML,
			".css":  model.DialectCSS,
			".js":   model.DialectJavaScript,
			".mjs":  model.DialectJavaScript,
			".ts":   model.DialectTypeScript,
		},
	}
	p.RegisterExtractor(model.DialectHTML, &HTMLExtractor{})
	p.RegisterExtractor(model.DialectCSS, &CSSExtractor{})
	p.RegisterExtractor(model.DialectJavaScript, &ScriptExtractor{Dialect: model.DialectJavaScript})
	p.RegisterExtractor(model.DialectTypeScript, &ScriptExtractor{Dialect: model.DialectTypeScript})
	return p
}

func (p *Parser) RegisterExtractor(dialect string, e Extractor) {
	p.extractors[dialect] = e
}

// ParseFile parses content under the dialect detected from path.
func (p *Parser) ParseFile(path string, content []byte) (*model.SourceModel, error) {
	dialect := p.DetectDialect(path)
	if dialect == "" {
		return nil, errors.AddContext(
			errors.New(errors.CodeNotSupported, "unsupported dialect"),
			errors.CtxPath, path)
	}

	extractor := p.extractors[dialect]
	if extractor == nil {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("no extractor for: %s", dialect))
	}

	grammar := p.languages[dialect]
	if grammar == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", dialect))
	}

	start := time.Now()
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		err := errors.New(errors.CodeFragmentParse, "parse failed")
		err = errors.AddContext(err, errors.CtxPath, path)
		return nil, errors.AddContext(err, errors.CtxDialect, dialect)
	}
	defer tree.Close()

	m, err := extractor.Extract(tree.RootNode(), content, path)
	if err != nil {
		err = errors.Wrap(err, errors.CodeFragmentParse, "extraction failed")
		err = errors.AddContext(err, errors.CtxPath, path)
		return nil, errors.AddContext(err, errors.CtxDialect, dialect)
	}
	m.ParsedAt = time.Now()
	observability.ParsingDuration.WithLabelValues(dialect).Observe(time.Since(start).Seconds())
	return m, nil
}

func (p *Parser) DetectDialect(path string) string {
	return p.extensions[strings.ToLower(filepath.Ext(path))]
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.DetectDialect(path) != ""
}

func (p *Parser) SupportedExtensions() []string {
	exts := make([]string, 0, len(p.extensions))
	for ext := range p.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
