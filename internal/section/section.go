// Package section finds %% section headers and computes their fold extents.
package section

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/phobologic/sectionfold/internal/buffer"
	"github.com/phobologic/sectionfold/internal/model"
)

// Marker is the two-character token that opens a section header.
const Marker = "%%"

// DefaultTitle names a section whose header carries no text.
const DefaultTitle = "Section"

var (
	headerRe      = regexp.MustCompile(`^\s*(?://|#|;|--|/\*+|\*|<!--)?\s*%%(?:\s+(.*?))?\s*(?:\*/|-->)?\s*$`)
	trailCloserRe = regexp.MustCompile(`\s*(?:\*/|-->)\s*$`)
)

// Options controls fold extent computation.
type Options struct {
	// IndentAware ends a section early at the first non-blank line indented
	// less than its header.
	IndentAware bool
}

// ParseHeader reports whether text is a section header and, if so, returns
// the header fields that depend on the line alone. ContentStart and FoldEnd
// are left zero.
func ParseHeader(text string) (model.Section, bool) {
	if !headerRe.MatchString(text) {
		return model.Section{}, false
	}
	marker := strings.Index(text, Marker)
	if marker < 0 {
		return model.Section{}, false
	}
	return model.Section{
		HeaderIndent: buffer.Indent(text),
		Title:        title(text, marker),
		TitleStart:   marker,
		TitleEnd:     len(strings.TrimRightFunc(text, unicode.IsSpace)),
	}, true
}

func title(text string, marker int) string {
	raw := trailCloserRe.ReplaceAllString(text[marker+len(Marker):], "")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTitle
	}
	return raw
}

// Parse scans doc for section headers and computes each section's extent.
// A header on the last line gets FoldEnd == ContentStart == LineCount.
func Parse(doc buffer.Lines, opts Options) []model.Section {
	var headers []model.Section
	for n := 0; n < doc.LineCount(); n++ {
		s, ok := ParseHeader(doc.Line(n))
		if !ok {
			continue
		}
		s.HeaderLine = n
		s.ContentStart = n + 1
		s.FoldEnd = n + 1
		headers = append(headers, s)
	}

	for i := range headers {
		cur := &headers[i]
		maxEnd := doc.LineCount() - 1
		if i+1 < len(headers) {
			maxEnd = headers[i+1].HeaderLine - 1
		}
		end := maxEnd
		if opts.IndentAware {
			end = indentStop(doc, cur, maxEnd)
		}
		cur.FoldEnd = max(cur.ContentStart, end)
	}
	return headers
}

// indentStop returns the last line of s before the first non-blank line
// indented less than the header, or maxEnd if there is none.
func indentStop(doc buffer.Lines, s *model.Section, maxEnd int) int {
	for n := s.ContentStart; n <= maxEnd; n++ {
		text := doc.Line(n)
		if buffer.IsBlank(text) {
			continue
		}
		if buffer.Indent(text) < s.HeaderIndent {
			return n - 1
		}
	}
	return maxEnd
}

// At returns the index of the section whose header..FoldEnd span contains
// line, or -1.
func At(sections []model.Section, line int) int {
	for i, s := range sections {
		if line >= s.HeaderLine && line <= s.FoldEnd {
			return i
		}
	}
	return -1
}
