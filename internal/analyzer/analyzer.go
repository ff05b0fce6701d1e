// Package analyzer answers folding, outline and decoration queries for
// documents, applying configuration, exclusion and per-document caching.
package analyzer

import (
	"io"
	"log"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/sectionfold/internal/buffer"
	"github.com/phobologic/sectionfold/internal/cache"
	"github.com/phobologic/sectionfold/internal/config"
	"github.com/phobologic/sectionfold/internal/fold"
	"github.com/phobologic/sectionfold/internal/lang"
	"github.com/phobologic/sectionfold/internal/model"
	"github.com/phobologic/sectionfold/internal/outline"
	"github.com/phobologic/sectionfold/internal/parse"
	"github.com/phobologic/sectionfold/internal/section"
	"github.com/phobologic/sectionfold/internal/symbol"
)

// Document is a snapshot of one text document.
type Document struct {
	// URI identifies the document in the cache.
	URI string
	// Path is matched against exclusion patterns and selects the fallback
	// language. It may be empty.
	Path string
	Text string
}

type entry struct {
	text     *buffer.Text
	sections []model.Section
}

type parserPair struct {
	lang   *lang.Language
	parser *sitter.Parser
	query  *sitter.Query
}

// Analyzer is not safe for concurrent use.
type Analyzer struct {
	cfg     config.Config
	exclude *ignore.GitIgnore
	entries *cache.Cache[entry]
	parsers map[string]*parserPair
	logger  *log.Logger
}

// New returns an analyzer for cfg. A nil logger discards output.
func New(cfg config.Config, logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	a := &Analyzer{
		entries: cache.New[entry](),
		parsers: make(map[string]*parserPair),
		logger:  logger,
	}
	a.setConfig(cfg)
	return a
}

// Config returns the active configuration.
func (a *Analyzer) Config() config.Config {
	return a.cfg
}

// Reconfigure replaces the configuration and drops every cached document.
func (a *Analyzer) Reconfigure(cfg config.Config) {
	a.setConfig(cfg)
	a.entries.Clear()
}

func (a *Analyzer) setConfig(cfg config.Config) {
	a.cfg = cfg
	patterns := make([]string, len(cfg.Exclude))
	for i, p := range cfg.Exclude {
		patterns[i] = strings.ToLower(p)
	}
	a.exclude = ignore.CompileIgnoreLines(patterns...)
}

// Excluded reports whether documents at path receive no folds or outline.
// Patterns match case-insensitively.
func (a *Analyzer) Excluded(path string) bool {
	if !a.cfg.Enabled {
		return true
	}
	if path == "" {
		return false
	}
	return a.exclude.MatchesPath(strings.ToLower(path))
}

// Invalidate drops the cached parse for uri. Call it on every edit.
func (a *Analyzer) Invalidate(uri string) {
	a.entries.Delete(uri)
}

// Close forgets uri and its cached parse.
func (a *Analyzer) Close(uri string) {
	a.entries.Delete(uri)
}

// Stats returns cache counters.
func (a *Analyzer) Stats() cache.Stats {
	return a.entries.Stats()
}

// Shutdown releases tree-sitter parsers.
func (a *Analyzer) Shutdown() {
	for name, pp := range a.parsers {
		pp.parser.Close()
		delete(a.parsers, name)
	}
}

func (a *Analyzer) load(doc Document) entry {
	return a.entries.GetOrCompute(doc.URI, func() entry {
		text := buffer.New(doc.Text)
		return entry{
			text:     text,
			sections: section.Parse(text, section.Options{IndentAware: a.cfg.IndentAware}),
		}
	})
}

// Sections returns the parsed sections of doc, or nil when doc is excluded.
func (a *Analyzer) Sections(doc Document) []model.Section {
	if a.Excluded(doc.Path) {
		return nil
	}
	return a.load(doc).sections
}

// FoldingRanges returns section and indentation folds for doc.
func (a *Analyzer) FoldingRanges(doc Document) []model.FoldRange {
	if a.Excluded(doc.Path) {
		return nil
	}
	e := a.load(doc)
	return fold.Compute(e.text, e.sections)
}

// Outline returns the symbol forest for doc. When the heuristic outline is
// empty and the path has a registered tree-sitter language, the fallback
// outline is returned instead.
func (a *Analyzer) Outline(doc Document) []*model.Symbol {
	if a.Excluded(doc.Path) {
		return nil
	}
	e := a.load(doc)
	if roots := outline.Document(e.text, e.sections); roots != nil {
		return roots
	}
	if !a.cfg.Fallback {
		return nil
	}
	return a.fallback(doc)
}

func (a *Analyzer) fallback(doc Document) []*model.Symbol {
	l := lang.ForPath(doc.Path)
	if l == nil {
		return nil
	}
	pp, ok := a.parsers[l.Name]
	if !ok {
		q, err := l.GetTagQuery()
		if err != nil {
			a.logger.Printf("warning: query for %s: %v", l.Name, err)
			return nil
		}
		pp = &parserPair{lang: l, parser: l.NewParser(), query: q}
		a.parsers[l.Name] = pp
	}
	return parse.Outline(pp.lang, pp.parser, pp.query, []byte(doc.Text))
}

// Decorations returns presentation data for doc with the cursor on line
// cursor, or -1 for none.
func (a *Analyzer) Decorations(doc Document, cursor int) section.Decorations {
	if a.Excluded(doc.Path) {
		return section.Decorations{}
	}
	e := a.load(doc)
	return section.Decorate(e.sections, symbol.Extract(e.text), e.text.LineCount(), section.DecorateOptions{
		Headers:  a.cfg.DecorateHeader,
		Dividers: a.cfg.ShowDivider,
		Cursor:   cursor,
	})
}

// Report collects sections, folds and outline for doc.
func (a *Analyzer) Report(doc Document) model.FileReport {
	r := model.FileReport{Path: doc.Path, Language: lang.Label(doc.Path)}
	if a.Excluded(doc.Path) {
		return r
	}
	r.Sections = a.Sections(doc)
	r.Folds = a.FoldingRanges(doc)
	r.Outline = a.Outline(doc)
	return r
}
