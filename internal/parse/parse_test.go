package parse

import (
	"testing"

	"github.com/phobologic/sectionfold/internal/lang"
	"github.com/phobologic/sectionfold/internal/model"
)

func setup(t *testing.T, langName string) func(source string) []*model.Symbol {
	t.Helper()
	l := lang.Languages[langName]
	if l == nil {
		t.Fatalf("language %q not registered", langName)
	}
	q, err := l.GetTagQuery()
	if err != nil {
		t.Fatalf("GetTagQuery: %v", err)
	}
	return func(source string) []*model.Symbol {
		return Definitions(l, l.NewParser(), q, []byte(source))
	}
}

func find(syms []*model.Symbol, name string) *model.Symbol {
	for _, s := range syms {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func names(syms []*model.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	return out
}

// --- Python tests ---

func TestPythonFunction(t *testing.T) {
	t.Parallel()
	extract := setup(t, "python")

	syms := extract("def area(r: float) -> float:\n    return 3.14 * r * r\n")
	if len(syms) != 1 {
		t.Fatalf("expected 1 def, got %v", names(syms))
	}
	d := syms[0]
	if d.Name != "area(r: float) -> float" {
		t.Errorf("name = %q", d.Name)
	}
	if d.Kind != model.Function {
		t.Errorf("kind = %q, want function", d.Kind)
	}
	if d.Range != model.LineRange(0, 0, 1, 23) {
		t.Errorf("range = %v", d.Range)
	}
	if d.Selection != model.LineRange(0, 4, 0, 8) {
		t.Errorf("selection = %v", d.Selection)
	}
}

func TestPythonClassWithMethod(t *testing.T) {
	t.Parallel()
	extract := setup(t, "python")

	source := `class Shape(Base):
    def scale(self, k: int) -> None:
        pass
`
	syms := extract(source)
	cls := find(syms, "Shape(Base)")
	if cls == nil || cls.Kind != model.Class {
		t.Fatalf("class missing: %v", names(syms))
	}
	method := find(syms, "scale(self, k: int) -> None")
	if method == nil {
		t.Fatalf("method missing: %v", names(syms))
	}
	if method.Detail != "Shape" {
		t.Errorf("detail = %q, want Shape", method.Detail)
	}
}

func TestPythonOutlineNests(t *testing.T) {
	t.Parallel()
	l := lang.Languages["python"]
	q, err := l.GetTagQuery()
	if err != nil {
		t.Fatal(err)
	}

	source := "class A:\n    def f(self):\n        pass\n\ndef g():\n    pass\n"
	roots := Outline(l, l.NewParser(), q, []byte(source))
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %v", names(roots))
	}
	if roots[0].Name != "A" || len(roots[0].Children) != 1 || roots[0].Children[0].Name != "f(self)" {
		t.Errorf("unexpected tree: %v / %v", names(roots), names(roots[0].Children))
	}
	if roots[1].Name != "g()" {
		t.Errorf("second root = %q, want g()", roots[1].Name)
	}
}

func TestPythonEmpty(t *testing.T) {
	t.Parallel()
	extract := setup(t, "python")

	if syms := extract(""); len(syms) != 0 {
		t.Errorf("expected no symbols, got %v", names(syms))
	}
	l := lang.Languages["python"]
	q, _ := l.GetTagQuery()
	if roots := Outline(l, l.NewParser(), q, []byte("x = 1\n")); roots != nil {
		t.Errorf("expected nil outline, got %v", names(roots))
	}
}

// --- Go tests ---

func TestGoFunction(t *testing.T) {
	t.Parallel()
	extract := setup(t, "go")

	syms := extract("package main\n\nfunc Hello(name string) error { return nil }\n")
	if len(syms) != 1 {
		t.Fatalf("expected 1 def, got %v", names(syms))
	}
	if syms[0].Name != "Hello(name string) error" {
		t.Errorf("name = %q", syms[0].Name)
	}
	if syms[0].Range.Start.Line != 2 {
		t.Errorf("line = %d, want 2", syms[0].Range.Start.Line)
	}
}

func TestGoMethod(t *testing.T) {
	t.Parallel()
	extract := setup(t, "go")

	source := `package main

func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
}
`
	syms := extract(source)
	if len(syms) != 1 {
		t.Fatalf("expected 1 def, got %v", names(syms))
	}
	m := syms[0]
	if m.Name != "Handle(w http.ResponseWriter, r *http.Request)" {
		t.Errorf("name = %q", m.Name)
	}
	if m.Detail != "*Server" {
		t.Errorf("detail = %q, want *Server", m.Detail)
	}
	if m.Kind != model.Function {
		t.Errorf("kind = %q, want function", m.Kind)
	}
}

func TestGoTypes(t *testing.T) {
	t.Parallel()
	extract := setup(t, "go")

	source := `package main

type Server struct {
	addr string
}

type Handler interface {
	Serve()
}

type ID int
`
	syms := extract(source)
	tests := []struct {
		name string
		kind model.Kind
	}{
		{"Server", model.Struct},
		{"Handler", model.Class},
		{"ID", model.TypeAlias},
	}
	for _, tt := range tests {
		s := find(syms, tt.name)
		if s == nil {
			t.Errorf("%q missing from %v", tt.name, names(syms))
			continue
		}
		if s.Kind != tt.kind {
			t.Errorf("%q kind = %q, want %q", tt.name, s.Kind, tt.kind)
		}
	}
}

// --- Ruby tests ---

func TestRubyClass(t *testing.T) {
	t.Parallel()
	extract := setup(t, "ruby")

	syms := extract("class Foo < Bar\nend\n")
	if len(syms) != 1 {
		t.Fatalf("expected 1 def, got %v", names(syms))
	}
	if syms[0].Name != "Foo < Bar" || syms[0].Kind != model.Class {
		t.Errorf("got %q %q", syms[0].Name, syms[0].Kind)
	}
}

func TestRubyModuleAndMethods(t *testing.T) {
	t.Parallel()
	extract := setup(t, "ruby")

	source := `module Utils
  def greet(name)
    puts name
  end

  def self.build
  end
end
`
	syms := extract(source)
	mod := find(syms, "Utils")
	if mod == nil || mod.Kind != model.Module {
		t.Fatalf("module missing: %v", names(syms))
	}
	if find(syms, "greet(name)") == nil {
		t.Errorf("greet missing: %v", names(syms))
	}
	build := find(syms, "build")
	if build == nil {
		t.Fatalf("singleton method missing: %v", names(syms))
	}
	if build.Detail != "self" {
		t.Errorf("detail = %q, want self", build.Detail)
	}
}
