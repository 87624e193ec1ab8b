package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/tplc/lang"
	"github.com/ardnew/tplc/log"
)

// Check type-checks a template and lists its warnings without writing code.
type Check struct {
	Strict  bool `help:"Fail if any warning is reported."`
	Summary bool `help:"Also list parameters and macro signatures." short:"v"`

	Source string `arg:"" default:"-" help:"Template source file or '-' for stdin." name:"source"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source, name, err := readSource(ctx, c.Source)
	if err != nil {
		return err
	}

	res, err := lang.Compile(ctx, source,
		lang.WithLogger(log.FromContext(ctx)),
		lang.WithStrict(c.Strict),
	)

	// Strict failures still carry the unit whose warnings caused them.
	if res != nil && res.Unit != nil {
		out := streamsFrom(ctx).Out

		for _, w := range res.Unit.Warnings {
			fmt.Fprintf(out, "%s:%d: %s\n", name, w.Line+1, w.Detail())
		}

		if c.Summary && err == nil {
			writeSummary(ctx, res.Unit)
		}
	}

	return withSource(name, source, err)
}

// writeSummary lists the parameters of render_template and the signature of
// each macro.
func writeSummary(ctx context.Context, unit *lang.Unit) {
	out := streamsFrom(ctx).Out

	fmt.Fprintf(out, "params: %s\n", strings.Join(unit.Params, ", "))

	for _, m := range unit.Macros {
		args := make([]string, len(m.Args))

		for i, a := range m.Args {
			args[i] = a
			if i >= m.Required {
				args[i] += "?"
			}
		}

		fmt.Fprintf(out, "macro: %s(%s)\n", m.Name, strings.Join(args, ", "))
	}
}
