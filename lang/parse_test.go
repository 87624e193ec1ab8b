package lang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/tplc/lang/lexer"
)

func parseSource(t *testing.T, source string) (*Template, error) {
	t.Helper()

	tokens, err := lexer.Tokenize(context.Background(), source)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	return Parse(context.Background(), tokens)
}

func mustParse(t *testing.T, source string) *Template {
	t.Helper()

	tmpl, err := parseSource(t, source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return tmpl
}

// outputExpr returns the expression of a template consisting of a single
// interpolation.
func outputExpr(t *testing.T, source string) Expr {
	t.Helper()

	tmpl := mustParse(t, source)
	if len(tmpl.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(tmpl.Body))
	}

	out, ok := tmpl.Body[0].(*Output)
	if !ok {
		t.Fatalf("expected *Output, got %T", tmpl.Body[0])
	}

	return out.Value
}

func TestParse_Precedence(t *testing.T) {
	e := outputExpr(t, "{{ 1 + 2 * 3 }}")

	add, ok := e.(*Binary)
	if !ok || add.Op != Add {
		t.Fatalf("expected top-level addition, got %v", e)
	}

	mul, ok := add.R.(*Binary)
	if !ok || mul.Op != Mul {
		t.Fatalf("expected multiplication on the right, got %v", add.R)
	}

	if _, ok := add.L.(*Literal[float64]); !ok {
		t.Errorf("expected literal on the left, got %T", add.L)
	}
}

func TestParse_LeftAssociative(t *testing.T) {
	e := outputExpr(t, "{{ a - b - c }}")

	outer, ok := e.(*Binary)
	if !ok || outer.Op != Sub {
		t.Fatalf("expected subtraction, got %v", e)
	}

	if inner, ok := outer.L.(*Binary); !ok || inner.Op != Sub {
		t.Errorf("expected nested subtraction on the left, got %v", outer.L)
	}

	if id, ok := outer.R.(*Ident); !ok || id.Name != "c" {
		t.Errorf("expected identifier c on the right, got %v", outer.R)
	}
}

func TestParse_ExprString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "1 + 2 * 3"},
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"a - (b - c)", "a - (b - c)"},
		{"not a and b", "not a and b"},
		{"not (a or b)", "not (a or b)"},
		{"-a.b", "-a.b"},
		{"-(a + b)", "-(a + b)"},
		{"user.address->city", "user.address->city"},
		{"a == b or c < 2.5", "a == b or c < 2.5"},
		{`["x", true, [1]]`, `["x", true, [1]]`},
		{"[]", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := outputExpr(t, "{{ "+tt.input+" }}")
			if got := e.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_Unary(t *testing.T) {
	// Prefix operators bind tighter than multiplication but looser than
	// member access.
	e := outputExpr(t, "{{ -a.b * c }}")

	mul, ok := e.(*Binary)
	if !ok || mul.Op != Mul {
		t.Fatalf("expected multiplication, got %v", e)
	}

	neg, ok := mul.L.(*Unary)
	if !ok || neg.Op != Negate {
		t.Fatalf("expected negation on the left, got %v", mul.L)
	}

	if dot, ok := neg.X.(*Binary); !ok || dot.Op != Dot {
		t.Errorf("expected member access operand, got %v", neg.X)
	}
}

func TestParse_MemberField(t *testing.T) {
	e := outputExpr(t, "{{ user.name }}")

	dot, ok := e.(*Binary)
	if !ok || dot.Op != Dot {
		t.Fatalf("expected member access, got %v", e)
	}

	if f, ok := dot.R.(*Field); !ok || f.Name != "name" {
		t.Errorf("expected field name, got %T %v", dot.R, dot.R)
	}
}

func TestParse_Literals(t *testing.T) {
	e := outputExpr(t, `{{ ["a b", 2.5, false] }}`)

	list, ok := e.(*List)
	if !ok || len(list.Elems) != 3 {
		t.Fatalf("expected 3-element list, got %v", e)
	}

	if s, ok := list.Elems[0].(*Literal[string]); !ok || s.Value != "a b" {
		t.Errorf("expected string literal without quotes, got %v", list.Elems[0])
	}

	if n, ok := list.Elems[1].(*Literal[float64]); !ok || n.Value != 2.5 {
		t.Errorf("expected number 2.5, got %v", list.Elems[1])
	}

	if b, ok := list.Elems[2].(*Literal[bool]); !ok || b.Value {
		t.Errorf("expected false, got %v", list.Elems[2])
	}
}

func TestParse_ElifChain(t *testing.T) {
	tmpl := mustParse(t,
		"{% if a %}A{% elif b %}B{% elif c %}C{% else %}D{% endif %}")

	first, ok := tmpl.Body[0].(*If)
	if !ok {
		t.Fatalf("expected *If, got %T", tmpl.Body[0])
	}

	second, ok := first.Else[0].(*If)
	if !ok || len(first.Else) != 1 {
		t.Fatalf("expected nested elif, got %v", first.Else)
	}

	third, ok := second.Else[0].(*If)
	if !ok || len(second.Else) != 1 {
		t.Fatalf("expected second nested elif, got %v", second.Else)
	}

	if c, ok := third.Else[0].(*Content); !ok || c.Text != "D" {
		t.Errorf("expected else content D, got %v", third.Else)
	}
}

func TestParse_IfWithoutElse(t *testing.T) {
	tmpl := mustParse(t, "{% if a %}A{% endif %}")

	if n := tmpl.Body[0].(*If); len(n.Else) != 0 {
		t.Errorf("expected empty else, got %v", n.Else)
	}
}

func TestParse_ForDefaultFilter(t *testing.T) {
	tmpl := mustParse(t, "{% for x in xs %}{{ x }}{% endfor %}")

	f, ok := tmpl.Body[0].(*For)
	if !ok {
		t.Fatalf("expected *For, got %T", tmpl.Body[0])
	}

	if !f.Var.Binding {
		t.Error("expected loop variable to be a binding")
	}

	if !isLiteralTrue(f.Filter) {
		t.Errorf("expected default filter true, got %v", f.Filter)
	}
}

func TestParse_SetBodyIsTail(t *testing.T) {
	tmpl := mustParse(t, "a{% set x = 1 %}b{{ x }}c")

	if len(tmpl.Body) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(tmpl.Body))
	}

	set, ok := tmpl.Body[1].(*Set)
	if !ok {
		t.Fatalf("expected *Set, got %T", tmpl.Body[1])
	}

	if len(set.Body) != 3 {
		t.Errorf("expected set body of 3 statements, got %d", len(set.Body))
	}
}

func TestParse_SetBodyStopsAtBlockEnd(t *testing.T) {
	tmpl := mustParse(t, "{% if c %}{% set x = 1 %}{{ x }}{% endif %}{{ x }}")

	if len(tmpl.Body) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(tmpl.Body))
	}

	set := tmpl.Body[0].(*If).Body[0].(*Set)
	if len(set.Body) != 1 {
		t.Errorf("expected set body of 1 statement, got %d", len(set.Body))
	}
}

func TestParse_Macros(t *testing.T) {
	tmpl := mustParse(t,
		`x{% macro m(a, b = 2) %}{{ a }}{% endmacro %}y`+
			`{% set v = 1 %}{% macro n() %}{% endmacro %}{{ m(v) }}`)

	if len(tmpl.Macros) != 2 {
		t.Fatalf("expected 2 macros, got %d", len(tmpl.Macros))
	}

	m := tmpl.Macros[0]
	if m.Name.Symbol() != "macros::m" || !m.Name.Binding {
		t.Errorf("unexpected macro name %+v", m.Name)
	}

	if len(m.Args) != 2 || m.Args[0].Default != nil || m.Args[1].Default == nil {
		t.Errorf("unexpected macro arguments %+v", m.Args)
	}

	if m.Args[0].Name.Symbol() != "vsym_a" {
		t.Errorf("expected qualified argument vsym_a, got %s", m.Args[0].Name.Symbol())
	}

	for _, s := range tmpl.Body {
		if _, ok := s.(*Content); !ok {
			if _, ok := s.(*Set); !ok {
				t.Errorf("unexpected top-level statement %T", s)
			}
		}
	}

	set := tmpl.Body[2].(*Set)

	call, ok := set.Body[0].(*Call)
	if !ok {
		t.Fatalf("expected *Call in set body, got %T", set.Body[0])
	}

	if call.Name.Symbol() != "macros::m" || len(call.Args) != 1 {
		t.Errorf("unexpected call %+v", call)
	}
}

func TestParse_CallLookahead(t *testing.T) {
	tmpl := mustParse(t, "{{ f(1, x) }}{{ (f) }}{{ f() }}")

	if c, ok := tmpl.Body[0].(*Call); !ok || len(c.Args) != 2 {
		t.Errorf("expected call with 2 arguments, got %v", tmpl.Body[0])
	}

	if _, ok := tmpl.Body[1].(*Output); !ok {
		t.Errorf("expected output, got %T", tmpl.Body[1])
	}

	if c, ok := tmpl.Body[2].(*Call); !ok || len(c.Args) != 0 {
		t.Errorf("expected call without arguments, got %v", tmpl.Body[2])
	}
}

func TestParse_Lines(t *testing.T) {
	e := outputExpr(t, "{{ a +\n\n b }}")

	begin, end := e.Lines()
	if begin != 0 || end != 2 {
		t.Errorf("Lines() = %d, %d, want 0, 2", begin, end)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "missing endif",
			input: "{% if x %}",
			want:  "unexpected token '' (END_OF_INPUT) on line 1, expected ENDIF",
		},
		{
			name:  "empty interpolation",
			input: "\n{{ }}",
			want: "unexpected token '}}' (VAR_END) on line 2, expected one of OPENP, NOT, " +
				"BIN_OP, NUMBER, TRUE, FALSE, STRING, IDENTIFIER, OPENB",
		},
		{
			name:  "unknown character",
			input: "{{ a $ }}",
			want:  "unexpected token '$' (UNKNOWN) on line 1, expected VAR_END",
		},
		{
			name:  "nested macro",
			input: "{% for x in y %}{% macro m() %}{% endmacro %}{% endfor %}",
			want:  "unexpected token '{% macro' (MACRO) on line 1, expected ENDFOR",
		},
		{
			name:  "stray terminator",
			input: "a{% endfor %}",
			want:  "unexpected token '{% endfor' (ENDFOR) on line 1, expected END_OF_INPUT",
		},
		{
			name:  "member access needs field",
			input: "{{ a.1 }}",
			want:  "unexpected token '1' (NUMBER) on line 1, expected IDENTIFIER",
		},
		{
			name:  "set needs assignment",
			input: "{% set x 1 %}",
			want:  "unexpected token '1' (NUMBER) on line 1, expected ASSIGNMENT",
		},
		{
			name:  "unterminated list",
			input: "{{ [1, 2 }}",
			want:  "unexpected token '}}' (VAR_END) on line 1, expected CLOSEB",
		},
		{
			name:  "number overflows",
			input: "{{ 1" + strings.Repeat("0", 400) + " }}",
			want:  "invalid token '1" + strings.Repeat("0", 400) + "' (NUMBER) on line 1: number out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSource(t, tt.input)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}

			if got := pe.Error(); got != tt.want {
				t.Errorf("message mismatch:\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}
