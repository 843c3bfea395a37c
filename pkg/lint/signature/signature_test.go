package signature_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/agenthands/pystyle/pkg/config"
	"github.com/agenthands/pystyle/pkg/lexer"
	"github.com/agenthands/pystyle/pkg/lint"
	"github.com/agenthands/pystyle/pkg/lint/bracket"
	"github.com/agenthands/pystyle/pkg/lint/signature"
	"github.com/agenthands/pystyle/pkg/pyast"
)

func check(src string) []lint.Finding {
	return slices.Collect(signature.NewChecker(nil).Check(src, config.Default()))
}

type pos struct{ line, col int }

func positions(fs []lint.Finding) []pos {
	out := make([]pos, len(fs))
	for i, f := range fs {
		out[i] = pos{f.Line, f.Col}
	}
	return out
}

func TestMissingReturnType(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []pos
	}{
		{"Annotated", "def f(a: int) -> int:\n    return a\n", nil},
		{"Bare", "def f(a):\n    return a\n", []pos{{0, 8}}},
		{"One Liner", "def f(): pass\n", []pos{{0, 7}}},
		{"Nested Parameter Types", "def f(x: Mapping[str, List[int]] = {}) :\n    pass\n", []pos{{0, 39}}},
		{"Type Parameters", "def f[T, U: (int, str)](x: T) :\n    pass\n", []pos{{0, 30}}},
		{"Annotated Type Parameters", "def f[T](x: T) -> T:\n    return x\n", nil},
		{"Multiline Parameters", "def f(\n    a,\n    b=(1, 2),\n):\n    pass\n", []pos{{3, 1}}},
		{"Method", "class A:\n    def m(self):\n        pass\n", []pos{{1, 15}}},
		{"Async", "async def f():\n    pass\n", []pos{{0, 13}}},
		{"Nested Def In Body", "def outer() -> None:\n    def inner():\n        pass\n", []pos{{1, 15}}},
		{"Lambda And String Default", "def f(cb=lambda: [d for d in 'def g():']):\n    pass\n", []pos{{0, 41}}},
		{"Def In String", "s = 'def f():'\n", nil},
		{"Def In Comment", "# def f():\nx = 1\n", nil},
		{"Irregular Follower", "def f() = 3\n", nil},
		{"Several", "def a(): pass\ndef b() -> int: return 1\ndef c(): pass\n", []pos{{0, 7}, {2, 7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := positions(check(tt.src))
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected findings at %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFindingContent(t *testing.T) {
	fs := check("    def method(self, x):\n        pass\n")
	if len(fs) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(fs))
	}
	f := fs[0]
	if f.Severity != lint.Error || f.Code != signature.Code || f.Message != signature.Message {
		t.Errorf("unexpected finding %+v", f)
	}
	if f.Excerpt != "def method(self, x):" {
		t.Errorf("excerpt = %q", f.Excerpt)
	}
}

func TestMalformedRegions(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		// Findings before the malformed declaration stand; nothing after it.
		{"Unterminated Parameters", "def ok(): pass\ndef f(a, b:\n", 1},
		{"Mismatched Brackets", "def f(a]:\n    pass\ndef g(): pass\n", 0},
		{"Missing Name", "def (a):\n    pass\ndef g(): pass\n", 0},
		{"Missing Parameter List", "def f:\n    pass\n", 0},
		{"Unterminated String", "def f(a='x):\n    pass\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(check(tt.src)); got != tt.want {
				t.Errorf("expected %d findings, got %d", tt.want, got)
			}
		})
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"Missing Name", "def (a): pass\n", signature.ErrMissingName},
		{"Missing Params", "def f: pass\n", signature.ErrMissingParams},
		{"Missing Params After Type Params", "def f[T]: pass\n", signature.ErrMissingParams},
		{"Mismatched", "def f(a]: pass\n", bracket.ErrMismatched},
		{"Unterminated", "def f(a:\n", bracket.ErrUnterminated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := signature.Scan(lexer.NewScanner(tt.src), func(lint.Finding) bool { return true })
			if !errors.Is(err, tt.want) {
				t.Errorf("Scan() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExhaustedAfterParameters(t *testing.T) {
	toks := []lexer.Token{
		{Kind: lexer.KindName, Text: "def", Line: 2, Col: 4, LineText: "    def f()"},
		{Kind: lexer.KindName, Text: "f", Line: 2, Col: 8},
		{Kind: lexer.KindLParen, Text: "(", Line: 2, Col: 9},
		{Kind: lexer.KindRParen, Text: ")", Line: 2, Col: 10},
	}

	var got []lint.Finding
	err := signature.Scan(lexer.NewSliceStream(toks), func(f lint.Finding) bool {
		got = append(got, f)
		return true
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Line != 2 || got[0].Col != 4 {
		t.Fatalf("expected one finding at the def keyword, got %+v", got)
	}
}

func TestStopEarly(t *testing.T) {
	src := "def a(): pass\ndef b(): pass\ndef c(): pass\n"
	n := 0
	for range signature.NewChecker(nil).Check(src, config.Default()) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("expected to stop after 2 findings, got %d", n)
	}
}

func TestIdempotent(t *testing.T) {
	src := "def a(x=[1, {2: (3,)}]):\n    pass\nclass B:\n    def c(self): pass\n"
	first := check(src)
	second := check(src)
	if !slices.Equal(first, second) {
		t.Errorf("rescanning changed findings: %v vs %v", first, second)
	}
}

// The token scanner must agree with a real Python parser on sources the
// parser understands.
func TestAgreesWithParser(t *testing.T) {
	sources := []string{
		"def f(a, b=(1, [2, {3: 4}])):\n    return a\n",
		"def f(a: int, *args, **kw) -> 'x':\n    pass\n",
		"class C(object):\n    def m(self, x=dict(a=1)):\n        def n(y) -> int:\n            return y\n        return n\n",
		"@decorator(arg=[1, 2])\ndef f():\n    pass\n",
		"x = lambda a: a\ndef g(cb=lambda: 0):\n    pass\n",
		"if True:\n    def h(s='def nested(): pass'):\n        pass\n",
	}

	for i, src := range sources {
		defs, err := pyast.MissingReturns(src)
		if err != nil {
			t.Fatalf("source %d: %v", i, err)
		}
		if got := len(check(src)); got != len(defs) {
			t.Errorf("source %d: scanner found %d, parser found %d", i, got, len(defs))
		}
	}
}

func TestNewCheckerDefaultsLogger(t *testing.T) {
	if c := signature.NewChecker(nil); c.Logger == nil {
		t.Error("expected the default logger")
	}
	var zero signature.Checker
	if got := slices.Collect(zero.Check("def f(:\n  x\n", config.Default())); len(got) != 0 {
		t.Errorf("expected no findings from a malformed region, got %v", got)
	}
}
