package buffer

import "testing"

func TestNewSplitsLines(t *testing.T) {
	t.Parallel()

	text := New("a\r\nb\n\nc")
	if text.LineCount() != 4 {
		t.Fatalf("LineCount = %d, want 4", text.LineCount())
	}
	want := []string{"a", "b", "", "c"}
	for i, w := range want {
		if got := text.Line(i); got != w {
			t.Errorf("Line(%d) = %q, want %q", i, got, w)
		}
	}
	if got := text.Line(10); got != "" {
		t.Errorf("Line(10) = %q, want empty", got)
	}
}

func TestNewEmpty(t *testing.T) {
	t.Parallel()

	if got := New("").LineCount(); got != 1 {
		t.Errorf("LineCount = %d, want 1", got)
	}
	if got := FromLines(nil).LineCount(); got != 1 {
		t.Errorf("FromLines(nil).LineCount = %d, want 1", got)
	}
}

func TestIndent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"x", 0},
		{"  x", 2},
		{"\t\tx", 2},
		{" \t x", 3},
		{"    ", 4},
	}
	for _, tt := range tests {
		if got := Indent(tt.in); got != tt.want {
			t.Errorf("Indent(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNextNonBlank(t *testing.T) {
	t.Parallel()

	text := New("a\n\n  \nb")
	if got := NextNonBlank(text, 1); got != 3 {
		t.Errorf("NextNonBlank(1) = %d, want 3", got)
	}
	if got := NextNonBlank(text, 4); got != -1 {
		t.Errorf("NextNonBlank(4) = %d, want -1", got)
	}
}
