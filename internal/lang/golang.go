package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/phobologic/sectionfold/internal/model"
)

func init() {
	Languages["go"] = &Language{
		Name:       "go",
		Extensions: []string{".go"},
		lang:       golang.GetLanguage(),
		Classify:   goClassify,
		Signature:  goSignature,
		Detail:     goReceiverType,
	}
}

// goClassify maps a type_spec to struct, class (interface) or type alias by
// the shape of its underlying type.
func goClassify(node *sitter.Node, kind model.Kind) model.Kind {
	if node.Type() != "type_spec" {
		return kind
	}
	switch {
	case childOfType(node, "struct_type") != nil:
		return model.Struct
	case childOfType(node, "interface_type") != nil:
		return model.Class
	default:
		return model.TypeAlias
	}
}

// goReceiverType extracts the receiver type name from a method_declaration node.
// Navigates: method_declaration → parameter_list (receiver) → parameter_declaration → type.
func goReceiverType(node *sitter.Node, source []byte) string {
	if node.Type() != "method_declaration" {
		return ""
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "parameter_list" || !isReceiverList(node, child) {
			continue
		}
		if param := childOfType(child, "parameter_declaration"); param != nil {
			return goTypeName(param, source)
		}
	}
	return ""
}

// goTypeName extracts the type name from a parameter_declaration,
// unwrapping pointer_type if present.
func goTypeName(param *sitter.Node, source []byte) string {
	if id := childOfType(param, "type_identifier"); id != nil {
		return NodeText(id, source)
	}
	if ptr := childOfType(param, "pointer_type"); ptr != nil {
		if id := childOfType(ptr, "type_identifier"); id != nil {
			return "*" + NodeText(id, source)
		}
	}
	return ""
}

func goSignature(defNode *sitter.Node, kind model.Kind, source []byte) string {
	if kind != model.Function {
		if id := childOfType(defNode, "type_identifier"); id != nil {
			return NodeText(id, source)
		}
		return ""
	}

	var name, params, result string
	for i := 0; i < int(defNode.ChildCount()); i++ {
		child := defNode.Child(i)
		switch child.Type() {
		case "identifier", "field_identifier":
			name = NodeText(child, source)
		case "parameter_list":
			if isReceiverList(defNode, child) {
				continue
			}
			if params == "" {
				params = CollapseWhitespace(NodeText(child, source))
			} else {
				result = CollapseWhitespace(NodeText(child, source))
			}
		case "simple_type", "pointer_type", "qualified_type",
			"slice_type", "map_type", "channel_type",
			"interface_type", "struct_type", "function_type",
			"type_identifier", "generic_type":
			result = CollapseWhitespace(NodeText(child, source))
		}
	}

	sig := name + params
	if result != "" {
		sig += " " + result
	}
	return sig
}

// isReceiverList checks if a parameter_list is the receiver (appears before the method name).
func isReceiverList(parent, paramList *sitter.Node) bool {
	if parent.Type() != "method_declaration" {
		return false
	}
	foundList := false
	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(i)
		if child == paramList {
			foundList = true
			continue
		}
		if foundList && child.Type() == "field_identifier" {
			return true
		}
	}
	return false
}
