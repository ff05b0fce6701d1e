// Package buffer provides the line-oriented view of a text snapshot that the
// analyzers consume.
package buffer

import "strings"

// Lines is a read-only, line-addressable text snapshot.
type Lines interface {
	LineCount() int
	Line(n int) string
}

// Text is an immutable snapshot of a document split into lines.
type Text struct {
	lines []string
}

// New splits content on "\n", dropping a trailing "\r" from each line.
// An empty document has exactly one empty line, like an editor buffer.
func New(content string) *Text {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Text{lines: lines}
}

// FromLines wraps an existing slice of lines without copying.
func FromLines(lines []string) *Text {
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &Text{lines: lines}
}

// LineCount returns the number of lines in the snapshot.
func (t *Text) LineCount() int {
	return len(t.lines)
}

// Line returns the text of line n without its terminator.
// Out-of-range lines read as empty.
func (t *Text) Line(n int) string {
	if n < 0 || n >= len(t.lines) {
		return ""
	}
	return t.lines[n]
}

// Indent counts the leading space and tab characters of s.
func Indent(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

// IsBlank reports whether s contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// NextNonBlank returns the first non-blank line at or after from, or -1.
func NextNonBlank(doc Lines, from int) int {
	for n := from; n < doc.LineCount(); n++ {
		if !IsBlank(doc.Line(n)) {
			return n
		}
	}
	return -1
}
