package section

import (
	"slices"
	"sort"

	"github.com/phobologic/sectionfold/internal/model"
)

// DecorateOptions selects which decoration data to compute.
type DecorateOptions struct {
	Headers  bool
	Dividers bool
	// Cursor is the active line, or -1 when there is no focused editor.
	Cursor int
}

// Decorations describes what a presentation layer draws for a document.
// Line lists are sorted and free of duplicates.
type Decorations struct {
	Titles   []model.Range `json:"titles"`
	Dividers []int         `json:"dividers"`
	Active   []int         `json:"active"`
}

// ImplicitEnds maps a header line to the end line of the tightest
// multi-line container enclosing it, for headers whose section would
// otherwise run past that container. containers is the flat extractor
// output.
func ImplicitEnds(sections []model.Section, containers []*model.Symbol, lineCount int) map[int]int {
	ends := make(map[int]int)
	if len(sections) == 0 || lineCount == 0 {
		return ends
	}

	var multi []*model.Symbol
	for _, c := range containers {
		if c.Range.End.Line > c.Range.Start.Line {
			multi = append(multi, c)
		}
	}
	if len(multi) == 0 {
		return ends
	}
	sort.SliceStable(multi, func(i, j int) bool {
		return multi[i].Range.Lines() < multi[j].Range.Lines()
	})

	for i, s := range sections {
		var enclosing *model.Symbol
		for _, c := range multi {
			if s.HeaderLine >= c.Range.Start.Line && s.HeaderLine < c.Range.End.Line {
				enclosing = c
				break
			}
		}
		if enclosing == nil {
			continue
		}
		if i+1 < len(sections) && sections[i+1].HeaderLine <= enclosing.Range.End.Line {
			continue
		}
		end := enclosing.Range.End.Line
		if end > s.HeaderLine && end < lineCount {
			ends[s.HeaderLine] = end
		}
	}
	return ends
}

// Decorate computes title emphasis ranges and divider lines for sections.
func Decorate(sections []model.Section, containers []*model.Symbol, lineCount int, opts DecorateOptions) Decorations {
	var d Decorations
	if opts.Headers {
		for _, s := range sections {
			d.Titles = append(d.Titles, model.LineRange(s.HeaderLine, s.TitleStart, s.HeaderLine, s.TitleEnd))
		}
	}
	if !opts.Dividers {
		return d
	}

	implicit := ImplicitEnds(sections, containers, lineCount)
	active := make(map[int]struct{})
	if opts.Cursor >= 0 {
		if i := At(sections, opts.Cursor); i >= 0 {
			active[sections[i].HeaderLine] = struct{}{}
			if end, ok := implicit[sections[i].HeaderLine]; ok {
				active[end] = struct{}{}
			}
			if i+1 < len(sections) {
				active[sections[i+1].HeaderLine] = struct{}{}
			}
		}
	}

	plain := make(map[int]struct{})
	for _, s := range sections {
		plain[s.HeaderLine] = struct{}{}
		if end, ok := implicit[s.HeaderLine]; ok {
			plain[end] = struct{}{}
		}
	}
	for line := range active {
		delete(plain, line)
	}

	d.Dividers = sortedKeys(plain)
	d.Active = sortedKeys(active)
	return d
}

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
