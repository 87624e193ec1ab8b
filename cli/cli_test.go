package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/tplc/cli/cmd"
	"github.com/ardnew/tplc/lang"
)

// run executes the CLI with stdin set to input and returns stdout.
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	restoreDefaultLog(t)

	var out bytes.Buffer

	ctx := cmd.WithStreams(context.Background(), cmd.Streams{
		In:  strings.NewReader(input),
		Out: &out,
		Err: &bytes.Buffer{},
	})

	exit := func(code int) { t.Fatalf("unexpected exit(%d)", code) }

	err := Run(ctx, exit, append([]string{"--log-level=error"}, args...)...)

	return out.String(), err
}

func TestRunDefaultCommand(t *testing.T) {
	got, err := run(t, "Hi {{ name }}!", "--no-header", "-")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := `#include <iostream>
#include <string>

template<typename OS, typename N0>
void render_template(OS &o, N0 vsym_name) {
	o << R"tplc(Hi )tplc";
	o << vsym_name;
	o << R"tplc(!)tplc";
}
`

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Run() mismatch (-want +got):\n%s", diff)
	}
}

func TestRunHeaderNamesStdin(t *testing.T) {
	got, err := run(t, "x", "compile")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.HasPrefix(got, `// Code generated by tplc from "<stdin>". DO NOT EDIT.`) {
		t.Errorf("Run() output lacks header:\n%s", got)
	}
}

func TestRunSubcommands(t *testing.T) {
	tests := []struct {
		args  []string
		input string
		want  string
	}{
		{[]string{"tokens"}, "a{{ x }}", "CONTENT:0[a]\nVAR_START:0[{{]\nIDENTIFIER:0[x]\nVAR_END:0[}}]\n"},
		{[]string{"fmt"}, "{{x}}", "{{ x }}"},
		{[]string{"ast", "--format=tree"}, "{{ x }}", "Template\n  Output x @1\n"},
		{[]string{"check", "--summary"}, "{{ x }}", "params: vsym_x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			got, err := run(t, tt.input, tt.args...)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Run() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := run(t, `{{ -"a" }}`, "check"); !errors.Is(err, lang.ErrType) {
		t.Errorf("Run() error = %v, want ErrType", err)
	}

	if _, err := run(t, "", "ast", "--format=xml"); err == nil {
		t.Error("Run() accepted an unknown AST format")
	}
}
