package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/phobologic/sectionfold/internal/model"
)

func init() {
	Languages["ruby"] = &Language{
		Name:       "ruby",
		Extensions: []string{".rb"},
		lang:       ruby.GetLanguage(),
		Signature:  rubySignature,
		Detail:     rubyMethodOwner,
	}
}

// rubyMethodOwner returns "self" for singleton methods, or "".
func rubyMethodOwner(node *sitter.Node, source []byte) string {
	if node.Type() != "singleton_method" {
		return ""
	}
	if obj := childOfType(node, "self", "constant"); obj != nil {
		return NodeText(obj, source)
	}
	return ""
}

// rubyClassName extracts the name from a class or module node.
func rubyClassName(node *sitter.Node, source []byte) string {
	if id := childOfType(node, "constant", "scope_resolution"); id != nil {
		return NodeText(id, source)
	}
	return ""
}

func rubySignature(defNode *sitter.Node, kind model.Kind, source []byte) string {
	switch kind {
	case model.Class:
		return rubyClassSignature(defNode, source)
	case model.Module:
		return rubyClassName(defNode, source)
	}
	return rubyMethodSignature(defNode, source)
}

func rubyClassSignature(node *sitter.Node, source []byte) string {
	name := rubyClassName(node, source)
	var superclass string
	if sc := childOfType(node, "superclass"); sc != nil {
		// superclass node contains "< ClassName"
		if id := childOfType(sc, "constant", "scope_resolution"); id != nil {
			superclass = NodeText(id, source)
		}
	}
	if superclass != "" {
		return name + " < " + superclass
	}
	return name
}

func rubyMethodSignature(node *sitter.Node, source []byte) string {
	var name, params string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			// singleton_method carries the receiver first; the last identifier is the name.
			name = NodeText(child, source)
		case "method_parameters":
			params = CollapseWhitespace(NodeText(child, source))
		}
	}
	return name + params
}
