// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/sectionfold/internal/model"
	"github.com/phobologic/sectionfold/internal/outline"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a scan report into TOON format. Line numbers are 1-based.
func Encode(r *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(r.Root)))

	var fileRows [][]string
	for i := range r.Files {
		f := &r.Files[i]
		count := 0
		outline.Walk(f.Outline, func(*model.Symbol, int) { count++ })
		fileRows = append(fileRows, []string{
			f.Path,
			f.Language,
			strconv.Itoa(len(f.Sections)),
			strconv.Itoa(len(f.Folds)),
			strconv.Itoa(count),
		})
	}
	parts = append(parts, formatTabular("files", []string{"path", "language", "sections", "folds", "symbols"}, fileRows))

	var sectionRows [][]string
	for i := range r.Files {
		f := &r.Files[i]
		for _, s := range f.Sections {
			sectionRows = append(sectionRows, []string{
				f.Path,
				strconv.Itoa(s.HeaderLine + 1),
				strconv.Itoa(s.FoldEnd + 1),
				s.Title,
			})
		}
	}
	parts = append(parts, formatTabular("sections", []string{"file", "line", "end", "title"}, sectionRows))

	var symbolRows [][]string
	for i := range r.Files {
		f := &r.Files[i]
		outline.Walk(f.Outline, func(s *model.Symbol, depth int) {
			symbolRows = append(symbolRows, []string{
				f.Path,
				s.Name,
				string(s.Kind),
				strconv.Itoa(depth),
				strconv.Itoa(s.Range.Start.Line + 1),
				strconv.Itoa(s.Range.End.Line + 1),
				s.Detail,
			})
		})
	}
	parts = append(parts, formatTabular("symbols", []string{"file", "name", "kind", "depth", "line", "end", "detail"}, symbolRows))

	var foldRows [][]string
	for i := range r.Files {
		f := &r.Files[i]
		for _, fr := range f.Folds {
			foldRows = append(foldRows, []string{
				f.Path,
				strconv.Itoa(fr.Start + 1),
				strconv.Itoa(fr.End + 1),
			})
		}
	}
	parts = append(parts, formatTabular("folds", []string{"file", "start", "end"}, foldRows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
