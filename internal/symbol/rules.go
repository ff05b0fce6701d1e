package symbol

import (
	"regexp"
	"strings"

	"github.com/phobologic/sectionfold/internal/model"
)

// extent says how far a matched construct reaches.
type extent int

const (
	// lineExtent covers only the matched line.
	lineExtent extent = iota
	// declExtent covers the matched line and is dropped when the line
	// already lies inside an extracted block.
	declExtent
	// braceExtent runs to the brace that balances the block's opening brace.
	braceExtent
	// keywordExtent runs to the first line matching the rule's end pattern.
	keywordExtent
)

// bucket selects the output list a rule feeds.
type bucket int

const (
	structural bucket = iota
	defines
	aliases
)

// candidate is what a rule's matcher reports for one line.
type candidate struct {
	name   string
	detail string
	kind   model.Kind
	// selStart/selEnd delimit the selection on the matched line; a negative
	// selStart selects the whole line.
	selStart int
	selEnd   int
	hasBrace bool
}

// rule is one row of the line classifier. Rules are tried in table order and
// the first match consumes the line.
type rule struct {
	name   string
	match  func(text string) (candidate, bool)
	extent extent
	end    *regexp.Regexp
	into   bucket
}

var rules = []rule{
	{name: "define", match: matchDefine, extent: lineExtent, into: defines},
	{name: "alias", match: matchAlias, extent: lineExtent, into: aliases},
	{name: "function", match: matchFunctionDefinition, extent: braceExtent, into: structural},
	{name: "declaration", match: matchFunctionDeclaration, extent: declExtent, into: structural},
	{name: "type", match: matchTypeBlock, extent: braceExtent, into: structural},
	{name: "module", match: matchModule, extent: keywordExtent, end: endModuleRe, into: structural},
}

var (
	defineRe = regexp.MustCompile(`^\s*#\s*define\s+([A-Za-z_]\w*)\b`)
	aliasRe  = regexp.MustCompile(`^\s*using\s+([A-Za-z_]\w*)\s*=\s*.+;\s*$`)

	functionDefRe = regexp.MustCompile(
		`^\s*(?:template\s*<[^>]+>\s*)?(?:[\w:<>~*&]+\s+)+([A-Za-z_]\w*(?:::[A-Za-z_]\w*)?)\s*\(([^;{}()]*)\)\s*(?:const\s*)?(?:noexcept\s*)?(\{)?\s*$`)
	functionDeclRe = regexp.MustCompile(
		`^\s*(?:template\s*<[^>]+>\s*)?(?:[\w:<>~*&]+\s+)+([A-Za-z_]\w*(?:::[A-Za-z_]\w*)?)\s*\(([^{}()]*)\)\s*(?:const\s*)?(?:noexcept\s*)?(?:=\s*0\s*)?;\s*$`)

	namespaceRe = regexp.MustCompile(`^\s*namespace\s+([A-Za-z_]\w*(?:::[A-Za-z_]\w*)*)\s*(\{)?\s*$`)
	aggregateRe = regexp.MustCompile(`^\s*(typedef\s+)?(struct|class|union|enum)(?:\s+(class|struct))?(?:\s+([A-Za-z_]\w*))?\s*(\{)?\s*$`)

	moduleRe    = regexp.MustCompile(`^\s*module\s+([A-Za-z_]\w*)`)
	endModuleRe = regexp.MustCompile(`^\s*endmodule\b`)

	globalRe = regexp.MustCompile(
		`^\s*(?:static\s+|extern\s+|const\s+|volatile\s+|unsigned\s+|signed\s+|short\s+|long\s+|register\s+|auto\s+|mutable\s+|constexpr\s+|inline\s+)*[A-Za-z_]\w*(?:\s*[*&]\s*|\s+)+([A-Za-z_]\w*)\s*(?:=\s*[^;]+)?;\s*$`)
)

// controlKeywords look like calls followed by a brace but never name a
// function.
var controlKeywords = map[string]struct{}{
	"if":     {},
	"for":    {},
	"while":  {},
	"switch": {},
	"catch":  {},
}

func isControlKeyword(name string) bool {
	_, ok := controlKeywords[name]
	return ok
}

// nameSelection locates name on text for the candidate's selection.
func nameSelection(text, name string) (int, int, bool) {
	start := strings.Index(text, name)
	if start < 0 {
		return 0, 0, false
	}
	return start, start + len(name), true
}

func matchDefine(text string) (candidate, bool) {
	m := defineRe.FindStringSubmatch(text)
	if m == nil {
		return candidate{}, false
	}
	start, end, ok := nameSelection(text, m[1])
	if !ok {
		return candidate{}, false
	}
	return candidate{name: m[1], kind: model.Constant, selStart: start, selEnd: end}, true
}

func matchAlias(text string) (candidate, bool) {
	m := aliasRe.FindStringSubmatch(text)
	if m == nil {
		return candidate{}, false
	}
	start, end, ok := nameSelection(text, m[1])
	if !ok {
		return candidate{}, false
	}
	return candidate{name: m[1], detail: "type alias", kind: model.TypeAlias, selStart: start, selEnd: end}, true
}

func matchFunctionDefinition(text string) (candidate, bool) {
	m := functionDefRe.FindStringSubmatch(text)
	if m == nil || isControlKeyword(m[1]) {
		return candidate{}, false
	}
	return candidate{
		name:     m[1] + "(" + normalizeParams(m[2]) + ")",
		kind:     model.Function,
		selStart: -1,
		hasBrace: m[3] != "",
	}, true
}

func matchFunctionDeclaration(text string) (candidate, bool) {
	m := functionDeclRe.FindStringSubmatch(text)
	if m == nil || isControlKeyword(m[1]) {
		return candidate{}, false
	}
	display := m[1] + "(" + normalizeParams(m[2]) + ")"
	start := strings.Index(text, display)
	if start < 0 {
		start = max(0, strings.Index(text, m[1]))
	}
	return candidate{
		name:     display,
		detail:   "declaration",
		kind:     model.Function,
		selStart: start,
		selEnd:   min(len(text), start+len(display)),
	}, true
}

func matchTypeBlock(text string) (candidate, bool) {
	if m := namespaceRe.FindStringSubmatch(text); m != nil {
		return candidate{name: m[1], kind: model.Namespace, selStart: -1, hasBrace: m[2] != ""}, true
	}

	m := aggregateRe.FindStringSubmatch(text)
	if m == nil {
		return candidate{}, false
	}
	typedef, keyword, scoped, name, brace := m[1], m[2], m[3], m[4], m[5]

	display := keyword
	if scoped != "" {
		display += " " + scoped
	}
	if name != "" {
		display += " " + name
	}
	if typedef != "" {
		display = "typedef " + display
	}

	kind := model.Struct
	switch keyword {
	case "class":
		kind = model.Class
	case "enum":
		kind = model.Enum
	}
	return candidate{name: display, kind: kind, selStart: -1, hasBrace: brace != ""}, true
}

func matchModule(text string) (candidate, bool) {
	m := moduleRe.FindStringSubmatch(text)
	if m == nil {
		return candidate{}, false
	}
	return candidate{name: m[1], kind: model.Module, selStart: -1}, true
}

// normalizeParams collapses whitespace in a parameter list; an empty list
// renders as "void".
func normalizeParams(raw string) string {
	params := strings.Join(strings.Fields(raw), " ")
	if params == "" {
		return "void"
	}
	return params
}
