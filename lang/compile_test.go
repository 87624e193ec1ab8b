package lang

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/ardnew/tplc/lang/lexer"
	"github.com/ardnew/tplc/log"
)

func TestCompile(t *testing.T) {
	res, err := Compile(context.Background(),
		"{% for user in users if user.active %}{{ user.name }}\n{% endfor %}")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if res.Template == nil || res.Unit == nil {
		t.Fatalf("expected template and unit, got %+v", res)
	}

	if len(res.Unit.Params) != 1 || res.Unit.Params[0] != "vsym_users" {
		t.Errorf("Params = %v, want [vsym_users]", res.Unit.Params)
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		template bool
	}{
		{"lex", "{% for x in xs", ErrLex, false},
		{"parse", "{% if x %}", ErrParse, false},
		{"type", "{% if 1 %}{% endif %}", ErrType, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compile(context.Background(), tt.input)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("expected %v, got %v", tt.sentinel, err)
			}

			if got := res != nil && res.Template != nil; got != tt.template {
				t.Errorf("template returned = %v, want %v", got, tt.template)
			}
		})
	}
}

func TestCompile_LexError(t *testing.T) {
	_, err := Compile(context.Background(), "text {{ a")
	if !errors.Is(err, lexer.ErrDeadEnd) {
		t.Fatalf("expected ErrDeadEnd, got %v", err)
	}

	var le *lexer.Error
	if !errors.As(err, &le) {
		t.Fatalf("expected *lexer.Error, got %T", err)
	}
}

func TestCompile_Strict(t *testing.T) {
	res, err := Compile(context.Background(), "{{ undefined() }}", WithStrict(true))
	if !errors.Is(err, ErrStrict) {
		t.Fatalf("expected ErrStrict, got %v", err)
	}

	if res == nil || res.Unit == nil {
		t.Fatal("expected unit alongside strict error")
	}
}

func TestCompile_Header(t *testing.T) {
	const source = "Hello"

	res, err := Compile(context.Background(), source, WithHeader("hello.tpl"))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := fmt.Sprintf("// Code generated by tplc from \"hello.tpl\". DO NOT EDIT.\n"+
		"// xxh3: %016x\n\n#include <iostream>\n", Digest(source))

	if !strings.HasPrefix(res.Unit.Code, want) {
		t.Errorf("unexpected header:\n%s", res.Unit.Code)
	}

	res, err = Compile(context.Background(), source)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if !strings.HasPrefix(res.Unit.Code, "#include") {
		t.Errorf("expected no header by default:\n%s", res.Unit.Code)
	}
}

func TestCompile_FreshState(t *testing.T) {
	first, err := Compile(context.Background(), "{{ a }}")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	second, err := Compile(context.Background(), "{{ b }}")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if len(first.Unit.Params) != 1 || len(second.Unit.Params) != 1 ||
		second.Unit.Params[0] != "vsym_b" {
		t.Errorf("state leaked between compilations: %v, %v",
			first.Unit.Params, second.Unit.Params)
	}
}

func TestCompile_WithLogger(t *testing.T) {
	var sb strings.Builder

	logger := log.Make(&sb,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithPretty(false),
	)

	if _, err := Compile(context.Background(), "{{ x }}", WithLogger(logger)); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	for _, msg := range []string{"compile start", "parsed", "validated", "generated"} {
		if !strings.Contains(sb.String(), `"msg":"`+msg+`"`) {
			t.Errorf("expected log message %q, got:\n%s", msg, sb.String())
		}
	}
}

func TestCompileReader(t *testing.T) {
	res, err := CompileReader(context.Background(), strings.NewReader("Hi {{ name }}"))
	if err != nil {
		t.Fatalf("CompileReader() error = %v", err)
	}

	if len(res.Unit.Params) != 1 || res.Unit.Params[0] != "vsym_name" {
		t.Errorf("Params = %v, want [vsym_name]", res.Unit.Params)
	}

	_, err = CompileReader(context.Background(), iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}

func TestDigest(t *testing.T) {
	if Digest("a") == Digest("b") {
		t.Error("expected distinct digests")
	}

	if Digest("a") != Digest("a") {
		t.Error("expected stable digest")
	}
}
