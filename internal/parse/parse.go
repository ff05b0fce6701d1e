// Package parse builds a fallback outline from tree-sitter definition queries.
package parse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/sectionfold/internal/lang"
	"github.com/phobologic/sectionfold/internal/model"
	"github.com/phobologic/sectionfold/internal/outline"
)

var captureMap = map[string]model.Kind{
	"definition.class":    model.Class,
	"definition.function": model.Function,
	"definition.method":   model.Function,
	"definition.module":   model.Module,
	"definition.type":     model.Struct,
}

// Definitions parses source and returns one flat symbol per definition
// capture, in match order. The parser must be created for l.
func Definitions(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte) []*model.Symbol {
	if len(source) == 0 {
		return nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var syms []*model.Symbol
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		for _, c := range match.Captures {
			kind, ok := captureMap[query.CaptureNameForId(c.Index)]
			if !ok {
				continue
			}
			if sym := definition(l, c.Node, kind, source); sym != nil {
				syms = append(syms, sym)
			}
		}
	}
	return syms
}

// Outline returns the nested definition forest for source, or nil.
func Outline(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte) []*model.Symbol {
	syms := Definitions(l, parser, query, source)
	if len(syms) == 0 {
		return nil
	}
	return outline.Build(syms)
}

func definition(l *lang.Language, node *sitter.Node, kind model.Kind, source []byte) *model.Symbol {
	if l.Classify != nil {
		kind = l.Classify(node, kind)
	}
	name := l.Signature(node, kind, source)
	if name == "" {
		return nil
	}
	sym := &model.Symbol{
		Name:  name,
		Kind:  kind,
		Range: nodeRange(node),
	}
	if l.Detail != nil {
		sym.Detail = l.Detail(node, source)
	}
	sym.Selection = sym.Range
	if id := node.ChildByFieldName("name"); id != nil {
		sym.Selection = nodeRange(id)
	}
	return sym
}

func nodeRange(node *sitter.Node) model.Range {
	start, end := node.StartPoint(), node.EndPoint()
	return model.LineRange(int(start.Row), int(start.Column), int(end.Row), int(end.Column))
}
