package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/sectionfold/internal/cache"
	"github.com/phobologic/sectionfold/internal/config"
	"github.com/phobologic/sectionfold/internal/model"
	"github.com/phobologic/sectionfold/internal/section"
)

const pythonSource = `# %% Setup
import os

# %% Shapes
def area(r: float) -> float:
    return 3.14 * r * r
`

const cSource = `// %% Helpers
int add(int a, int b) {
  return a + b;
}
`

func TestFoldingRanges(t *testing.T) {
	t.Parallel()

	a := New(config.Default(), nil)
	folds := a.FoldingRanges(Document{URI: "file:///s.py", Path: "s.py", Text: pythonSource})

	assert.Contains(t, folds, model.FoldRange{Start: 0, End: 2, Kind: model.Region})
	assert.Contains(t, folds, model.FoldRange{Start: 3, End: 6, Kind: model.Region})
	assert.Contains(t, folds, model.FoldRange{Start: 4, End: 6, Kind: model.Region})
	for _, f := range folds {
		assert.Less(t, f.Start, f.End)
	}
}

func TestExcludedDocument(t *testing.T) {
	t.Parallel()

	a := New(config.Default(), nil)
	doc := Document{URI: "file:///x/model.m", Path: "/x/model.m", Text: cSource}

	assert.True(t, a.Excluded(doc.Path))
	assert.Nil(t, a.FoldingRanges(doc))
	assert.Nil(t, a.Outline(doc))
	assert.Nil(t, a.Sections(doc))
	assert.Equal(t, 0, a.Stats().Misses, "excluded documents are never parsed")

	r := a.Report(doc)
	assert.Equal(t, "m", r.Language)
	assert.Nil(t, r.Folds)
}

func TestExcludedIgnoresCase(t *testing.T) {
	t.Parallel()

	a := New(config.Default(), nil)
	for _, path := range []string{"/w/foo.m", "/w/FOO.M", "/w/Foo.M"} {
		doc := Document{URI: "file://" + path, Path: path, Text: cSource}
		assert.True(t, a.Excluded(path), path)
		assert.Nil(t, a.FoldingRanges(doc), path)
		assert.Nil(t, a.Outline(doc), path)
	}

	cfg := config.Default()
	cfg.Exclude = []string{"GEN/"}
	assert.True(t, New(cfg, nil).Excluded("gen/out.c"))
	assert.False(t, New(cfg, nil).Excluded("src/out.c"))
}

func TestOutlineGoFallback(t *testing.T) {
	t.Parallel()

	a := New(config.Default(), nil)
	defer a.Shutdown()

	types := Document{URI: "file:///t.go", Path: "t.go", Text: "package p\n\ntype T struct {\n\tX int\n}\n"}
	roots := a.Outline(types)
	require.Len(t, roots, 1)
	assert.Equal(t, "T", roots[0].Name)
	assert.Equal(t, model.Struct, roots[0].Kind)

	// Single-line func signatures match the line rules, so no fallback.
	funcs := Document{URI: "file:///m.go", Path: "m.go", Text: "package main\n\nfunc main() {\n}\n"}
	roots = a.Outline(funcs)
	require.Len(t, roots, 1)
	assert.Equal(t, "main(void)", roots[0].Name)
	assert.Equal(t, model.Function, roots[0].Kind)
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Enabled = false
	a := New(cfg, nil)
	doc := Document{URI: "file:///a.c", Path: "a.c", Text: cSource}

	assert.Nil(t, a.FoldingRanges(doc))
	assert.Nil(t, a.Outline(doc))
	assert.Equal(t, section.Decorations{}, a.Decorations(doc, 0))
}

func TestOutlineNestsSymbolsInSections(t *testing.T) {
	t.Parallel()

	a := New(config.Default(), nil)
	roots := a.Outline(Document{URI: "file:///a.c", Path: "a.c", Text: cSource})

	require.Len(t, roots, 1)
	assert.Equal(t, "Helpers", roots[0].Name)
	assert.Equal(t, model.Container, roots[0].Kind)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "add(int a, int b)", roots[0].Children[0].Name)
}

func TestOutlineFallback(t *testing.T) {
	t.Parallel()

	src := "def area(r: float) -> float:\n    return 3.14 * r * r\n"
	doc := Document{URI: "file:///shapes.py", Path: "shapes.py", Text: src}

	a := New(config.Default(), nil)
	defer a.Shutdown()
	roots := a.Outline(doc)
	require.Len(t, roots, 1)
	assert.Equal(t, "area(r: float) -> float", roots[0].Name)
	assert.Equal(t, model.Function, roots[0].Kind)

	cfg := config.Default()
	cfg.Fallback = false
	assert.Nil(t, New(cfg, nil).Outline(doc))
}

func TestCacheAndInvalidate(t *testing.T) {
	t.Parallel()

	a := New(config.Default(), nil)
	doc := Document{URI: "file:///a.c", Path: "a.c", Text: cSource}

	a.FoldingRanges(doc)
	a.Outline(doc)
	assert.Equal(t, cache.Stats{Hits: 1, Misses: 1}, a.Stats())

	doc.Text = "// %% Renamed\nint x;\n"
	a.Invalidate(doc.URI)
	secs := a.Sections(doc)
	require.Len(t, secs, 1)
	assert.Equal(t, "Renamed", secs[0].Title)

	a.Close(doc.URI)
	a.Sections(doc)
	assert.Equal(t, 3, a.Stats().Misses)
}

func TestReconfigureClearsCache(t *testing.T) {
	t.Parallel()

	src := "def f():\n    # %% Inner\n    x = 1\ny = 2\n"
	doc := Document{URI: "file:///f.py", Path: "f.py", Text: src}

	a := New(config.Default(), nil)
	require.Len(t, a.Sections(doc), 1)
	assert.Equal(t, 2, a.Sections(doc)[0].FoldEnd)

	cfg := config.Default()
	cfg.IndentAware = false
	a.Reconfigure(cfg)
	assert.Equal(t, 4, a.Sections(doc)[0].FoldEnd)
	assert.False(t, a.Config().IndentAware)
}

func TestDecorations(t *testing.T) {
	t.Parallel()

	a := New(config.Default(), nil)
	doc := Document{URI: "file:///s.py", Path: "s.py", Text: pythonSource}

	d := a.Decorations(doc, 4)
	assert.Equal(t, []model.Range{model.LineRange(0, 2, 0, 10), model.LineRange(3, 2, 3, 11)}, d.Titles)
	assert.Equal(t, []int{0}, d.Dividers)
	assert.Equal(t, []int{3}, d.Active)

	cfg := config.Default()
	cfg.DecorateHeader = false
	cfg.ShowDivider = false
	a.Reconfigure(cfg)
	assert.Equal(t, section.Decorations{}, a.Decorations(doc, 4))
}
