// Package symbol extracts an approximate, flat list of named spans from
// C-family-like text using a table of line patterns.
//
// Extraction never fails: a line no rule recognizes is simply not a symbol,
// and blocks whose closing brace or end keyword is missing run to the end of
// the document.
package symbol

import (
	"regexp"
	"strings"

	"github.com/phobologic/sectionfold/internal/buffer"
	"github.com/phobologic/sectionfold/internal/model"
)

type extraction struct {
	doc        buffer.Lines
	structural []*model.Symbol
	defines    []*model.Symbol
	aliases    []*model.Symbol
	// claimed marks single-line define and alias matches so the global
	// variable pass does not report them twice.
	claimed map[int]struct{}
}

// Extract runs the line classifier over doc. The result lists structural
// symbols first, then global variables, type aliases and defines. Children
// are left empty; nesting is the outline builder's job.
func Extract(doc buffer.Lines) []*model.Symbol {
	x := &extraction{doc: doc, claimed: make(map[int]struct{})}

	for n := 0; n < doc.LineCount(); n++ {
		text := doc.Line(n)
		if skipLine(text) {
			continue
		}
		for i := range rules {
			c, ok := rules[i].match(text)
			if !ok {
				continue
			}
			x.apply(&rules[i], c, n)
			break
		}
	}

	out := make([]*model.Symbol, 0, len(x.structural)+len(x.aliases)+len(x.defines))
	out = append(out, x.structural...)
	out = append(out, x.globals()...)
	out = append(out, x.aliases...)
	out = append(out, x.defines...)
	return out
}

func skipLine(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" ||
		strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*")
}

func (x *extraction) apply(r *rule, c candidate, n int) {
	text := x.doc.Line(n)
	sym := &model.Symbol{
		Name:      c.name,
		Detail:    c.detail,
		Kind:      c.kind,
		Range:     model.LineRange(n, 0, n, len(text)),
		Selection: model.LineRange(n, 0, n, len(text)),
	}
	if c.selStart >= 0 {
		sym.Selection = model.LineRange(n, c.selStart, n, c.selEnd)
	}

	switch r.extent {
	case declExtent:
		if x.insideStructural(n) {
			return
		}
	case braceExtent:
		open := n
		if !c.hasBrace {
			next := buffer.NextNonBlank(x.doc, n+1)
			if next < 0 || strings.TrimSpace(x.doc.Line(next)) != "{" {
				return
			}
			open = next
		}
		end := braceEnd(x.doc, open)
		sym.Range.End = model.Position{Line: end, Character: len(x.doc.Line(end))}
	case keywordExtent:
		end := keywordEnd(x.doc, n, r.end)
		sym.Range.End = model.Position{Line: end, Character: len(x.doc.Line(end))}
	}

	switch r.into {
	case defines:
		x.defines = append(x.defines, sym)
		x.claimed[n] = struct{}{}
	case aliases:
		x.aliases = append(x.aliases, sym)
		x.claimed[n] = struct{}{}
	default:
		x.structural = append(x.structural, sym)
	}
}

func (x *extraction) insideStructural(line int) bool {
	for _, s := range x.structural {
		if s.Range.ContainsLine(line) {
			return true
		}
	}
	return false
}

// globals reports variable declarations on lines no structural symbol covers.
func (x *extraction) globals() []*model.Symbol {
	var out []*model.Symbol
	for n := 0; n < x.doc.LineCount(); n++ {
		if _, ok := x.claimed[n]; ok || x.insideStructural(n) {
			continue
		}
		text := x.doc.Line(n)
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.Contains(text, "(") {
			continue
		}
		m := globalRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		start, end, ok := nameSelection(text, m[1])
		if !ok {
			continue
		}
		out = append(out, &model.Symbol{
			Name:      m[1],
			Kind:      model.Variable,
			Range:     model.LineRange(n, 0, n, len(text)),
			Selection: model.LineRange(n, start, n, end),
		})
	}
	return out
}

// braceEnd returns the line on which the brace depth counted from line start
// first returns to zero, or the last line when it never does.
func braceEnd(doc buffer.Lines, start int) int {
	depth := 0
	for n := start; n < doc.LineCount(); n++ {
		for _, ch := range doc.Line(n) {
			switch ch {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return n
				}
			}
		}
	}
	return doc.LineCount() - 1
}

// keywordEnd returns the first line after start matching end, or the last
// line.
func keywordEnd(doc buffer.Lines, start int, end *regexp.Regexp) int {
	for n := start + 1; n < doc.LineCount(); n++ {
		if end.MatchString(doc.Line(n)) {
			return n
		}
	}
	return doc.LineCount() - 1
}
