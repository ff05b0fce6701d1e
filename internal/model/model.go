// Package model defines core data structures for sectionfold.
package model

// Kind is the syntactic kind of an outline symbol.
type Kind string

const (
	Function  Kind = "function"
	Struct    Kind = "struct"
	Class     Kind = "class"
	Enum      Kind = "enum"
	Namespace Kind = "namespace"
	Module    Kind = "module"
	Constant  Kind = "constant"
	TypeAlias Kind = "type-alias"
	Variable  Kind = "variable"
	Container Kind = "container"
)

// IsType reports whether k belongs to the aggregate type family.
func (k Kind) IsType() bool {
	return k == Struct || k == Class || k == Enum
}

// Position is a zero-based line and byte column.
type Position struct {
	Line      int `json:"line" yaml:"line"`
	Character int `json:"character" yaml:"character"`
}

// Before reports whether p sorts strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Character < q.Character
}

// Range is a half-open span of positions. End.Character points one past the
// last byte covered on End.Line.
type Range struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// LineRange builds a range from (startLine, startChar) to (endLine, endChar).
func LineRange(startLine, startChar, endLine, endChar int) Range {
	return Range{
		Start: Position{Line: startLine, Character: startChar},
		End:   Position{Line: endLine, Character: endChar},
	}
}

// Lines returns the number of lines the range spans beyond its first line.
func (r Range) Lines() int {
	return r.End.Line - r.Start.Line
}

// Contains reports whether r contains o, allowing equal bounds.
func (r Range) Contains(o Range) bool {
	return !o.Start.Before(r.Start) && !r.End.Before(o.End)
}

// ContainsLine reports whether line falls inside the range's line span.
func (r Range) ContainsLine(line int) bool {
	return line >= r.Start.Line && line <= r.End.Line
}

// Section is a region delimited by a %% header line.
type Section struct {
	HeaderLine   int    `json:"headerLine" yaml:"headerLine"`
	HeaderIndent int    `json:"headerIndent" yaml:"headerIndent"`
	Title        string `json:"title" yaml:"title"`
	TitleStart   int    `json:"titleStart" yaml:"titleStart"`
	TitleEnd     int    `json:"titleEnd" yaml:"titleEnd"`
	ContentStart int    `json:"contentStart" yaml:"contentStart"`
	FoldEnd      int    `json:"foldEnd" yaml:"foldEnd"`
}

// Symbol is a named span in the outline.
type Symbol struct {
	Name      string    `json:"name" yaml:"name"`
	Detail    string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Range     Range     `json:"range" yaml:"range"`
	Selection Range     `json:"selection" yaml:"selection"`
	Children  []*Symbol `json:"children,omitempty" yaml:"children,omitempty"`
}

// FoldKind classifies a folding range.
type FoldKind string

const Region FoldKind = "region"

// FoldRange is an inclusive, collapsible line span.
type FoldRange struct {
	Start int      `json:"start" yaml:"start"`
	End   int      `json:"end" yaml:"end"`
	Kind  FoldKind `json:"kind" yaml:"kind"`
}

// FileReport holds everything computed for a single document.
type FileReport struct {
	Path     string      `json:"path" yaml:"path"`
	Language string      `json:"language,omitempty" yaml:"language,omitempty"`
	Sections []Section   `json:"sections" yaml:"sections"`
	Folds    []FoldRange `json:"folds" yaml:"folds"`
	Outline  []*Symbol   `json:"outline" yaml:"outline"`
}

// Report is the result of scanning a set of files.
type Report struct {
	Root  string       `json:"root" yaml:"root"`
	Files []FileReport `json:"files" yaml:"files"`
}
