package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/phobologic/sectionfold/internal/model"
)

func init() {
	Languages["python"] = &Language{
		Name:       "python",
		Extensions: []string{".py"},
		lang:       python.GetLanguage(),
		Signature:  pythonSignature,
		Detail:     pythonMethodClass,
	}
}

// pythonMethodClass returns the enclosing class name when a function
// definition is a method, or "".
func pythonMethodClass(funcNode *sitter.Node, source []byte) string {
	if funcNode.Type() != "function_definition" {
		return ""
	}
	classNode := pythonEnclosingClass(funcNode)
	if classNode == nil {
		return ""
	}
	if id := childOfType(classNode, "identifier"); id != nil {
		return NodeText(id, source)
	}
	return ""
}

func pythonEnclosingClass(funcNode *sitter.Node) *sitter.Node {
	parent := funcNode.Parent()
	if parent == nil {
		return nil
	}

	// Direct: func -> block -> class_definition
	if parent.Type() == "block" && parent.Parent() != nil && parent.Parent().Type() == "class_definition" {
		return parent.Parent()
	}

	// Decorated: func -> decorated_definition -> block -> class_definition
	if parent.Type() == "decorated_definition" {
		gp := parent.Parent()
		if gp != nil && gp.Type() == "block" && gp.Parent() != nil && gp.Parent().Type() == "class_definition" {
			return gp.Parent()
		}
	}

	return nil
}

func pythonSignature(defNode *sitter.Node, kind model.Kind, source []byte) string {
	if kind == model.Class {
		return pythonClassSignature(defNode, source)
	}
	return pythonFunctionSignature(defNode, source)
}

func pythonClassSignature(node *sitter.Node, source []byte) string {
	var name, args string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			name = NodeText(child, source)
		case "argument_list":
			args = NodeText(child, source)
		}
	}
	return name + args
}

func pythonFunctionSignature(node *sitter.Node, source []byte) string {
	var name, params, returnType string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			name = NodeText(child, source)
		case "parameters":
			params = CollapseWhitespace(NodeText(child, source))
		case "type":
			returnType = NodeText(child, source)
		}
	}
	sig := name + params
	if returnType != "" {
		sig += " -> " + returnType
	}
	return sig
}
