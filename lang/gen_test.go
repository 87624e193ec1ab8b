package lang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func generate(t *testing.T, source string, opts ...Option) *Unit {
	t.Helper()

	tmpl := mustParse(t, source)
	if err := Validate(context.Background(), tmpl); err != nil {
		t.Fatalf("validate error: %v", err)
	}

	unit, err := Generate(context.Background(), tmpl, opts...)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	return unit
}

func TestGenerate_Golden(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text",
			input: "Hello",
			want: `#include <iostream>
#include <string>

template<typename OS>
void render_template(OS &o) {
	o << R"tplc(Hello)tplc";
}
`,
		},
		{
			name:  "empty template",
			input: "",
			want: `#include <iostream>
#include <string>

template<typename OS>
void render_template(OS &o) {
}
`,
		},
		{
			name:  "interpolation",
			input: "Hi {{ name }}!",
			want: `#include <iostream>
#include <string>

template<typename OS, typename N0>
void render_template(OS &o, N0 vsym_name) {
	o << R"tplc(Hi )tplc";
	o << vsym_name;
	o << R"tplc(!)tplc";
}
`,
		},
		{
			name:  "macro",
			input: "{% macro m(a, b = 2) %}{{ a }}{% endmacro %}{{ m(x) }}",
			want: `#include <iostream>
#include <string>

namespace macros {
	template<typename O, typename T0, typename T1 = decltype(2.0)>
	void m(O &o, T0 vsym_a, T1 vsym_b = 2.0);

	template<typename O, typename T0, typename T1>
	void m(O &o, T0 vsym_a, T1 vsym_b) {
		o << vsym_a;
	}
}

template<typename OS, typename N0>
void render_template(OS &o, N0 vsym_x) {
	macros::m(o, vsym_x);
}
`,
		},
		{
			name:  "if else",
			input: "{% if a %}A{% else %}B{% endif %}",
			want: `#include <iostream>
#include <string>

template<typename OS, typename N0>
void render_template(OS &o, N0 vsym_a) {
	if (vsym_a) {
		o << R"tplc(A)tplc";
	} else {
		o << R"tplc(B)tplc";
	}
}
`,
		},
		{
			name:  "for with filter",
			input: "{% for u in users if u.active %}{{ u.name }}{% endfor %}",
			want: `#include <iostream>
#include <string>

template<typename OS, typename N0>
void render_template(OS &o, N0 vsym_users) {
	for (const auto& vsym_u : vsym_users) {
		if ((vsym_u.active)) {
			o << (vsym_u.name);
		}
	}
}
`,
		},
		{
			name:  "set",
			input: "{% set x = 1 %}{{ x }}{% set x = x + 1 %}{{ x }}",
			want: `#include <iostream>
#include <string>

template<typename OS>
void render_template(OS &o) {
	{
		auto vsym_x = 1.0;
		o << vsym_x;
		{
			vsym_x = (vsym_x + 1.0);
			o << vsym_x;
		}
	}
}
`,
		},
		{
			name:  "set reading free variable of same name",
			input: "{% set x = x + 1 %}{{ x }}",
			want: `#include <iostream>
#include <string>

template<typename OS, typename N0>
void render_template(OS &o, N0 vsym_x) {
	{
		auto init_vsym_x = (vsym_x + 1.0);
		auto vsym_x = init_vsym_x;
		o << vsym_x;
	}
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := generate(t, tt.input)
			if diff := cmp.Diff(tt.want, unit.Code); diff != "" {
				t.Errorf("Code mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerate_Expressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1.0 + (2.0 * 3.0))"},
		{"(1 + 2) * 3", "((1.0 + 2.0) * 3.0)"},
		{"not a or b", "(!(vsym_a) || vsym_b)"},
		{"-x", "-(vsym_x)"},
		{"a == b and c != d", "((vsym_a == vsym_b) && (vsym_c != vsym_d))"},
		{"a.b->c", "((vsym_a.b)->c)"},
		{`"a\b"`, `std::string("a\\b")`},
		{"[1, 2.5]", "{1.0, 2.5}"},
		{"true", "true"},
		{"a >= 1 and a <= 2", "((vsym_a >= 1.0) && (vsym_a <= 2.0))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			unit := generate(t, "{{ "+tt.input+" }}")

			want := "\to << " + tt.want + ";\n"
			if !strings.Contains(unit.Code, want) {
				t.Errorf("expected code to contain %q, got:\n%s", want, unit.Code)
			}
		})
	}
}

func TestGenerate_Params(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "sorted by name",
			input: "{{ b }}{{ a }}{% for x in xs %}{{ x }}{{ y }}{% endfor %}",
			want:  []string{"vsym_a", "vsym_b", "vsym_xs", "vsym_y"},
		},
		{
			name:  "shadowing restores outer binding",
			input: "{% for x in xs %}{% for x in x %}{{ x }}{% endfor %}{{ x }}{% endfor %}{{ x }}",
			want:  []string{"vsym_x", "vsym_xs"},
		},
		{
			name:  "collection outside loop scope",
			input: "{% for x in x %}{% endfor %}",
			want:  []string{"vsym_x"},
		},
		{
			name:  "filter inside loop scope",
			input: "{% for x in xs if x %}{% endfor %}",
			want:  []string{"vsym_xs"},
		},
		{
			name:  "set binds its body",
			input: "{% set v = w %}{{ v }}",
			want:  []string{"vsym_w"},
		},
		{
			name:  "macro arguments are not params",
			input: "{% macro m(a) %}{{ a }}{% endmacro %}{{ m(b) }}",
			want:  []string{"vsym_b"},
		},
		{
			name:  "no params",
			input: "text",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := generate(t, tt.input)
			if diff := cmp.Diff(tt.want, unit.Params); diff != "" {
				t.Errorf("Params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerate_LoopShadowsMacroArgument(t *testing.T) {
	unit := generate(t, "{% macro m(x) %}"+
		"{% for x in x %}{{ x }}{% endfor %}{{ x }}"+
		"{% endmacro %}"+
		"{% set x = 1 %}"+
		"{% for x in xs %}{{ m(x) }}{% endfor %}"+
		"{{ x }}")

	if diff := cmp.Diff([]string{"vsym_xs"}, unit.Params); diff != "" {
		t.Errorf("Params mismatch (-want +got):\n%s", diff)
	}

	want := []MacroSignature{{Name: "m", Args: []string{"x"}, Required: 1}}
	if diff := cmp.Diff(want, unit.Macros); diff != "" {
		t.Errorf("Macros mismatch (-want +got):\n%s", diff)
	}

	if len(unit.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", unit.Warnings)
	}

	// The reference after the top-level loop reads the set binding.
	if !strings.HasSuffix(unit.Code, "\t\to << vsym_x;\n\t}\n}\n") {
		t.Errorf("expected trailing output of the set binding, got:\n%s", unit.Code)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	const input = "{% macro m(a) %}{{ a }}{{ q }}{% endmacro %}" +
		"{% for z in zs %}{{ m(z) }}{{ c }}{{ b }}{{ a }}{% endfor %}"

	first := generate(t, input)

	for range 10 {
		next := generate(t, input)
		if diff := cmp.Diff(first, next); diff != "" {
			t.Fatalf("output differs between runs (-first +next):\n%s", diff)
		}
	}
}

func TestGenerate_Macros(t *testing.T) {
	unit := generate(t, `{% macro m(a, b = 1, c = "x") %}{% endmacro %}`+
		`{% macro n() %}{{ nam }}{% endmacro %}`)

	want := []MacroSignature{
		{Name: "m", Args: []string{"a", "b", "c"}, Required: 1},
		{Name: "n", Unknown: []string{"nam"}},
	}

	if diff := cmp.Diff(want, unit.Macros); diff != "" {
		t.Errorf("Macros mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_Warnings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Warning
	}{
		{
			name:  "unknown symbol with hint",
			input: "{% macro greet(name) %}{{ nam }}{% endmacro %}",
			want: []Warning{{
				Line:    0,
				Message: "unknown symbol 'nam' in macro 'greet'",
				Hint:    "name",
			}},
		},
		{
			name:  "unknown symbol longer than candidate",
			input: "{% macro greet(name) %}\n{{ names }}{% endmacro %}",
			want: []Warning{{
				Line:    0,
				Message: "unknown symbol 'names' in macro 'greet'",
				Hint:    "name",
			}},
		},
		{
			name:  "undefined macro",
			input: "{% macro greet() %}{% endmacro %}\n{{ gret() }}",
			want: []Warning{{
				Line:    1,
				Message: "call of undefined macro 'gret'",
				Hint:    "greet",
			}},
		},
		{
			name:  "too few arguments",
			input: "{% macro m(a, b = 1) %}{% endmacro %}{{ m() }}",
			want: []Warning{{
				Message: "macro 'm' called with 0 arguments, expects 1 to 2",
			}},
		},
		{
			name:  "too many arguments",
			input: "{% macro m(a) %}{% endmacro %}{{ m(1, 2) }}",
			want: []Warning{{
				Message: "macro 'm' called with 2 arguments, expects 1",
			}},
		},
		{
			name:  "non-trailing default",
			input: "{% macro m(a = 1, b) %}{% endmacro %}",
			want: []Warning{{
				Message: "argument 'b' of macro 'm' has no default but follows an argument with one",
			}},
		},
		{
			name:  "redefinition",
			input: "{% macro m() %}{% endmacro %}\n{% macro m() %}{% endmacro %}",
			want: []Warning{{
				Line:    1,
				Message: "macro 'm' redefined",
			}},
		},
		{
			name:  "clean",
			input: "{% macro m(a) %}{% for x in a %}{{ x }}{% endfor %}{% endmacro %}{{ m(xs) }}",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := generate(t, tt.input)
			if diff := cmp.Diff(tt.want, unit.Warnings); diff != "" {
				t.Errorf("Warnings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerate_Strict(t *testing.T) {
	tmpl := mustParse(t, "{{ missing() }}")

	unit, err := Generate(context.Background(), tmpl, WithStrict(true))
	if !errors.Is(err, ErrStrict) {
		t.Fatalf("expected ErrStrict, got %v", err)
	}

	if unit == nil || len(unit.Warnings) != 1 {
		t.Fatalf("expected unit with 1 warning, got %+v", unit)
	}

	if _, err := Generate(context.Background(), mustParse(t, "ok"), WithStrict(true)); err != nil {
		t.Errorf("expected no error without warnings, got %v", err)
	}
}

func TestGenerate_Indent(t *testing.T) {
	unit := generate(t, "{% if a %}x{% endif %}", WithIndent("  "))

	if !strings.Contains(unit.Code, "\n  if (vsym_a) {\n    o << R\"tplc(x)tplc\";\n  }\n") {
		t.Errorf("unexpected indentation:\n%s", unit.Code)
	}
}

func TestGenerate_NilTemplate(t *testing.T) {
	if _, err := Generate(context.Background(), nil); !errors.Is(err, ErrGenerate) {
		t.Errorf("expected ErrGenerate, got %v", err)
	}
}

func TestWarning_String(t *testing.T) {
	tests := []struct {
		warning Warning
		want    string
	}{
		{Warning{Line: 0, Message: "m"}, "line 1: m"},
		{Warning{Line: 4, Message: "m", Hint: "x"}, "line 5: m (did you mean 'x'?)"},
	}

	for _, tt := range tests {
		if got := tt.warning.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestWarning_Detail(t *testing.T) {
	tests := []struct {
		warning Warning
		want    string
	}{
		{Warning{Line: 3, Message: "m"}, "m"},
		{Warning{Line: 3, Message: "m", Hint: "x"}, "m (did you mean 'x'?)"},
	}

	for _, tt := range tests {
		if got := tt.warning.Detail(); got != tt.want {
			t.Errorf("Detail() = %q, want %q", got, tt.want)
		}

		if got, want := tt.warning.String(), "line 4: "+tt.want; got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestCppNumber(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{2.5, "2.5"},
		{100, "100.0"},
		{1e21, "1000000000000000000000.0"},
		{0.125, "0.125"},
	}

	for _, tt := range tests {
		if got := cppNumber(tt.input); got != tt.want {
			t.Errorf("cppNumber(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCppString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{"plain", `"plain"`},
		{`a"b`, `"a\"b"`},
		{`a\b`, `"a\\b"`},
		{"a\nb\tc\r", `"a\nb\tc\r"`},
		{"\x01\x7f", `"\001\177"`},
		{"héllo", `"héllo"`},
	}

	for _, tt := range tests {
		if got := cppString(tt.input); got != tt.want {
			t.Errorf("cppString(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestRawString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x", `R"tplc(x)tplc"`},
		{"", `R"tplc()tplc"`},
		{"a\n\"b\"", "R\"tplc(a\n\"b\")tplc\""},
		{`a)tplc"b`, `R"tplc0(a)tplc"b)tplc0"`},
		{`)tplc" )tplc0"`, `R"tplc1()tplc" )tplc0")tplc1"`},
	}

	for _, tt := range tests {
		if got := rawString(tt.input); got != tt.want {
			t.Errorf("rawString(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
