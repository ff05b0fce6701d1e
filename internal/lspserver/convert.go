package lspserver

import (
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"

	"github.com/phobologic/sectionfold/internal/buffer"
	"github.com/phobologic/sectionfold/internal/model"
)

var symbolKinds = map[model.Kind]protocol.SymbolKind{
	model.Function:  protocol.SymbolKindFunction,
	model.Struct:    protocol.SymbolKindStruct,
	model.Class:     protocol.SymbolKindClass,
	model.Enum:      protocol.SymbolKindEnum,
	model.Namespace: protocol.SymbolKindNamespace,
	model.Module:    protocol.SymbolKindModule,
	model.Constant:  protocol.SymbolKindConstant,
	model.TypeAlias: protocol.SymbolKindTypeParameter,
	model.Variable:  protocol.SymbolKindVariable,
	model.Container: protocol.SymbolKindObject,
}

const regionKind = protocol.FoldingRangeKind("region")

// utf16Column converts a byte offset on text to a UTF-16 code unit offset.
func utf16Column(text string, byteCol int) uint32 {
	if byteCol > len(text) {
		byteCol = len(text)
	}
	var units uint32
	for _, r := range text[:byteCol] {
		if r == utf8.RuneError {
			units++
			continue
		}
		units += uint32(utf16.RuneLen(r))
	}
	return units
}

func position(doc buffer.Lines, p model.Position) protocol.Position {
	line := p.Line
	if n := doc.LineCount(); line >= n {
		line = n - 1
	}
	if line < 0 {
		return protocol.Position{}
	}
	return protocol.Position{
		Line:      uint32(line),
		Character: utf16Column(doc.Line(line), p.Character),
	}
}

func toRange(doc buffer.Lines, r model.Range) protocol.Range {
	return protocol.Range{Start: position(doc, r.Start), End: position(doc, r.End)}
}

func foldingRanges(folds []model.FoldRange) []protocol.FoldingRange {
	if len(folds) == 0 {
		return nil
	}
	out := make([]protocol.FoldingRange, len(folds))
	for i, f := range folds {
		out[i] = protocol.FoldingRange{
			StartLine: uint32(f.Start),
			EndLine:   uint32(f.End),
			Kind:      regionKind,
		}
	}
	return out
}

func documentSymbols(doc buffer.Lines, forest []*model.Symbol) []protocol.DocumentSymbol {
	if len(forest) == 0 {
		return nil
	}
	out := make([]protocol.DocumentSymbol, len(forest))
	for i, s := range forest {
		out[i] = protocol.DocumentSymbol{
			Name:           s.Name,
			Detail:         s.Detail,
			Kind:           symbolKinds[s.Kind],
			Range:          toRange(doc, s.Range),
			SelectionRange: toRange(doc, s.Selection),
			Children:       documentSymbols(doc, s.Children),
		}
	}
	return out
}

func lineNumbers(lines []int) []uint32 {
	out := make([]uint32, len(lines))
	for i, n := range lines {
		out[i] = uint32(n)
	}
	return out
}
