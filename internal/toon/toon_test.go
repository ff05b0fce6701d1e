package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/sectionfold/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "src/main.py", "src/main.py"},
		{"dotted name", "Foo.__init__", "Foo.__init__"},
		{"signature no special", "run(self) -> None", "run(self) -> None"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	child := &model.Symbol{
		Name:  "add(int a, int b)",
		Kind:  model.Function,
		Range: model.LineRange(1, 0, 3, 1),
	}
	r := &model.Report{
		Root: "proj",
		Files: []model.FileReport{
			{
				Path:     "src/math.c",
				Language: "c",
				Sections: []model.Section{{HeaderLine: 0, Title: "Helpers", FoldEnd: 4}},
				Folds:    []model.FoldRange{{Start: 0, End: 4, Kind: model.Region}},
				Outline: []*model.Symbol{{
					Name:     "Helpers",
					Kind:     model.Container,
					Range:    model.LineRange(0, 0, 4, 0),
					Children: []*model.Symbol{child},
				}},
			},
			{Path: "empty.m", Language: "m"},
		},
	}

	got := Encode(r)
	want := []string{
		"root: proj",
		"files[2]{path,language,sections,folds,symbols}:",
		"  src/math.c,c,1,1,2",
		"  empty.m,m,0,0,0",
		"sections[1]{file,line,end,title}:",
		"  src/math.c,1,5,Helpers",
		"symbols[2]{file,name,kind,depth,line,end,detail}:",
		`  src/math.c,Helpers,container,0,1,5,""`,
		`  src/math.c,"add(int a, int b)",function,1,2,4,""`,
		"folds[1]{file,start,end}:",
		"  src/math.c,1,5",
	}
	lines := strings.Split(got, "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(&model.Report{Root: "empty"})
	for _, header := range []string{
		"files[0]{path,language,sections,folds,symbols}:",
		"sections[0]{file,line,end,title}:",
		"symbols[0]{file,name,kind,depth,line,end,detail}:",
		"folds[0]{file,start,end}:",
	} {
		if !strings.Contains(got, header) {
			t.Errorf("expected %q, got:\n%s", header, got)
		}
	}
}
