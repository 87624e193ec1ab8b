package cmd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/tplc/lang"
	"github.com/ardnew/tplc/lang/lexer"
)

func TestTokensRun(t *testing.T) {
	got, err := execute(t, &Tokens{Source: "-"}, "a{{ x }}b\n{% if y %}")
	if err != nil {
		t.Fatalf("Tokens.Run() error = %v", err)
	}

	want := "CONTENT:0[a]\n" +
		"VAR_START:0[{{]\n" +
		"IDENTIFIER:0[x]\n" +
		"VAR_END:0[}}]\n" +
		"CONTENT:0[b\n]\n" +
		"IF:1[{% if]\n" +
		"IDENTIFIER:1[y]\n"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokens.Run() mismatch (-want +got):\n%s", diff)
	}
}

func TestTokensDeadEnd(t *testing.T) {
	_, err := execute(t, &Tokens{Source: "-"}, "ok\n{{ broken")
	if !errors.Is(err, lang.ErrLex) {
		t.Fatalf("Tokens.Run() error = %v, want ErrLex", err)
	}

	var le *lexer.Error
	if !errors.As(err, &le) {
		t.Fatalf("Tokens.Run() error = %v, want *lexer.Error", err)
	}

	if le.Line != 1 {
		t.Errorf("dead-end line = %d, want 1", le.Line)
	}
}
