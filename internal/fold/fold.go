// Package fold derives folding ranges from sections and indentation.
package fold

import (
	"sort"

	"github.com/phobologic/sectionfold/internal/buffer"
	"github.com/phobologic/sectionfold/internal/model"
)

// Sections returns one region per section spanning more than its header.
// Ends are clamped to the last line of a document of lineCount lines.
func Sections(sections []model.Section, lineCount int) []model.FoldRange {
	var ranges []model.FoldRange
	for _, s := range sections {
		end := min(s.FoldEnd, lineCount-1)
		if end > s.HeaderLine {
			ranges = append(ranges, model.FoldRange{Start: s.HeaderLine, End: end, Kind: model.Region})
		}
	}
	return ranges
}

type opener struct {
	line   int
	indent int
}

// Indentation returns language-agnostic folds: a non-blank line followed by
// a more indented non-blank line opens a range that closes before the next
// line indented at or below it. Single-line ranges are dropped.
func Indentation(doc buffer.Lines) []model.FoldRange {
	var ranges []model.FoldRange
	var stack []opener

	emit := func(start, end int) {
		if end > start {
			ranges = append(ranges, model.FoldRange{Start: start, End: end, Kind: model.Region})
		}
	}

	for n := 0; n < doc.LineCount(); n++ {
		text := doc.Line(n)
		if buffer.IsBlank(text) {
			continue
		}
		indent := buffer.Indent(text)

		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			emit(top.line, n-1)
		}

		next := buffer.NextNonBlank(doc, n+1)
		if next < 0 {
			continue
		}
		if buffer.Indent(doc.Line(next)) > indent {
			stack = append(stack, opener{line: n, indent: indent})
		}
	}

	last := doc.LineCount() - 1
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		emit(top.line, last)
	}
	return ranges
}

// Merge concatenates range sets, drops exact duplicates (first wins) and
// sorts by start then end. Overlapping distinct ranges are kept.
func Merge(sets ...[]model.FoldRange) []model.FoldRange {
	type key struct{ start, end int }
	seen := make(map[key]struct{})
	var merged []model.FoldRange
	for _, set := range sets {
		for _, r := range set {
			k := key{r.Start, r.End}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			merged = append(merged, r)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Start != merged[j].Start {
			return merged[i].Start < merged[j].Start
		}
		return merged[i].End < merged[j].End
	})
	return merged
}

// Compute returns the merged section and indentation folds for doc.
func Compute(doc buffer.Lines, sections []model.Section) []model.FoldRange {
	return Merge(Sections(sections, doc.LineCount()), Indentation(doc))
}
