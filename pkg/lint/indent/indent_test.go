package indent_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/agenthands/pystyle/pkg/config"
	"github.com/agenthands/pystyle/pkg/lexer"
	"github.com/agenthands/pystyle/pkg/lint"
	"github.com/agenthands/pystyle/pkg/lint/indent"
)

func check(src string, unit int) []lint.Finding {
	cfg := config.Default()
	cfg.IndentUnitSize = unit
	return slices.Collect(indent.NewChecker(nil).Check(src, cfg))
}

func lines(fs []lint.Finding) []int {
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = f.Line
	}
	return out
}

func TestInvalidIndent(t *testing.T) {
	tests := []struct {
		name string
		src  string
		unit int
		want []int
	}{
		{"Four Spaces", "if x:\n    y\n", 4, nil},
		{"Three Spaces", "if x:\n   y\n", 4, []int{1}},
		{"Nested Consistent", "if a:\n    if b:\n        c\n    d\n", 4, nil},
		{"Unit Size Without Cumulative Prefix", "if a:\n  if b:\n    c\n", 4, []int{1, 2}},
		{"Tab", "if x:\n\ty\n", 4, []int{1}},
		{"Two Space Unit", "if x:\n  y\n", 2, nil},
		{"Invalid Unit Falls Back", "if x:\n  y\n", 0, []int{1}},
		{"After Dedent", "if a:\n    b\nif c:\n   d\n", 4, []int{3}},
		{"Blank And Comment Lines Ignored", "if a:\n\n  # note\n    b\n", 4, nil},
		{"Continuation Lines Ignored", "x = [\n  1,\n]\nif a:\n    b\n", 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lines(check(tt.src, tt.unit))
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected findings on lines %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFindingContent(t *testing.T) {
	fs := check("def f():\n   return 1\n", 4)
	if len(fs) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(fs))
	}
	want := lint.Finding{
		Line:     1,
		Col:      0,
		Excerpt:  "   ",
		Severity: lint.Error,
		Code:     indent.Code,
		Message:  "Indent should be 4 spaces.",
	}
	if fs[0] != want {
		t.Errorf("expected %+v, got %+v", want, fs[0])
	}
}

func TestValidateTokens(t *testing.T) {
	four := lexer.Token{Kind: lexer.KindIndent, Text: "    "}
	dedent := lexer.Token{Kind: lexer.KindDedent}

	tests := []struct {
		name    string
		toks    []lexer.Token
		want    int
		wantErr error
	}{
		{"Depth Two Needs Eight", []lexer.Token{four, four}, 1, nil},
		{"Balanced", []lexer.Token{four, dedent, four, dedent}, 0, nil},
		{"Underflow", []lexer.Token{four, dedent, dedent}, 0, indent.ErrUnderflow},
		{"Lexical Error", []lexer.Token{{Kind: lexer.KindIndent, Text: "  "}, {Kind: lexer.KindError}}, 1, lexer.ErrLexical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := 0
			err := indent.Validate(lexer.NewSliceStream(tt.toks), 4, func(lint.Finding) bool {
				n++
				return true
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if n != tt.want {
				t.Errorf("expected %d findings, got %d", tt.want, n)
			}
		})
	}
}

func TestMalformedRegionKeepsEarlierFindings(t *testing.T) {
	got := lines(check("if a:\n   b\nx = (\n", 4))
	if !slices.Equal(got, []int{1}) {
		t.Errorf("expected findings on lines [1], got %v", got)
	}
}

func TestIdempotent(t *testing.T) {
	src := "if a:\n  b\n  if c:\n       d\n"
	first := check(src, 4)
	second := check(src, 4)
	if len(first) != 2 || !slices.Equal(first, second) {
		t.Errorf("rescanning changed findings: %v vs %v", first, second)
	}
}

func TestNewCheckerDefaultsLogger(t *testing.T) {
	if c := indent.NewChecker(nil); c.Logger == nil {
		t.Error("expected the default logger")
	}
	var zero indent.Checker
	if got := slices.Collect(zero.Check("def f(:\n  x\n", config.Default())); len(got) != 0 {
		t.Errorf("expected no findings from a malformed region, got %v", got)
	}
}
