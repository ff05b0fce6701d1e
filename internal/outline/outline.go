// Package outline nests flat spans into a forest by range containment.
package outline

import (
	"sort"

	"github.com/phobologic/sectionfold/internal/buffer"
	"github.com/phobologic/sectionfold/internal/model"
	"github.com/phobologic/sectionfold/internal/symbol"
)

// Build nests spans by strict containment. Spans are ordered by start line,
// longer spans first on ties; each span's parent is the tightest other span
// that strictly contains it. The input symbols' Children are reset.
func Build(spans []*model.Symbol) []*model.Symbol {
	sorted := make([]*model.Symbol, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Range, sorted[j].Range
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		return a.Lines() > b.Lines()
	})
	for _, s := range sorted {
		s.Children = nil
	}

	var roots []*model.Symbol
	for i, child := range sorted {
		parent := -1
		best := 0
		for j, candidate := range sorted {
			if i == j || !strictlyContains(candidate.Range, child.Range) {
				continue
			}
			if span := candidate.Range.Lines(); parent < 0 || span < best {
				parent, best = j, span
			}
		}
		if parent >= 0 {
			sorted[parent].Children = append(sorted[parent].Children, child)
		} else {
			roots = append(roots, child)
		}
	}
	return roots
}

func strictlyContains(parent, child model.Range) bool {
	return parent.Contains(child) && parent != child
}

// Sections recasts sections as container spans covering header..FoldEnd,
// with the title as the selection.
func Sections(doc buffer.Lines, sections []model.Section) []*model.Symbol {
	if doc.LineCount() == 0 {
		return nil
	}
	out := make([]*model.Symbol, 0, len(sections))
	for _, s := range sections {
		end := min(s.FoldEnd, doc.LineCount()-1)
		out = append(out, &model.Symbol{
			Name:      s.Title,
			Kind:      model.Container,
			Range:     model.LineRange(s.HeaderLine, 0, end, len(doc.Line(end))),
			Selection: model.LineRange(s.HeaderLine, s.TitleStart, s.HeaderLine, s.TitleEnd),
		})
	}
	return out
}

// Document returns the outline forest for doc given its sections, or nil
// when neither sections nor symbols were found.
func Document(doc buffer.Lines, sections []model.Section) []*model.Symbol {
	return Merge(symbol.Extract(doc), Sections(doc, sections))
}

// Merge builds the forest over symbols followed by section containers, or
// returns nil when both are empty.
func Merge(symbols, containers []*model.Symbol) []*model.Symbol {
	all := make([]*model.Symbol, 0, len(symbols)+len(containers))
	all = append(all, symbols...)
	all = append(all, containers...)
	if len(all) == 0 {
		return nil
	}
	roots := Build(all)
	if len(roots) == 0 {
		return nil
	}
	return roots
}

// Walk calls fn for every symbol in the forest in depth-first order.
func Walk(forest []*model.Symbol, fn func(sym *model.Symbol, depth int)) {
	var visit func(*model.Symbol, int)
	visit = func(s *model.Symbol, depth int) {
		fn(s, depth)
		for _, c := range s.Children {
			visit(c, depth+1)
		}
	}
	for _, s := range forest {
		visit(s, 0)
	}
}
