package lang

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// Fold replaces every operator application whose operands are all literals
// with the literal it evaluates to. Evaluation is delegated to expr-lang.
// Member access is never folded, and neither are results that are not
// finite numbers.
//
// Fold expects a validated template.
func Fold(ctx context.Context, t *Template, opts ...Option) error {
	cfg := makeConfig(opts...)
	f := &folder{}

	for _, m := range t.Macros {
		for _, a := range m.Args {
			if a.Default != nil {
				a.Default = f.expr(a.Default)
			}
		}

		f.stmts(m.Body)
	}

	f.stmts(t.Body)

	if f.err != nil {
		return ErrFold.Wrap(f.err)
	}

	cfg.logger.DebugContext(ctx, "folded", slog.Int("expressions", f.count))

	return nil
}

type folder struct {
	count int
	err   error
}

func (f *folder) stmts(stmts []Stmt) {
	for _, s := range stmts {
		switch s := s.(type) {
		case *If:
			s.Cond = f.expr(s.Cond)
			f.stmts(s.Body)
			f.stmts(s.Else)

		case *For:
			s.Coll = f.expr(s.Coll)
			s.Filter = f.expr(s.Filter)
			f.stmts(s.Body)

		case *Set:
			s.Value = f.expr(s.Value)
			f.stmts(s.Body)

		case *Output:
			s.Value = f.expr(s.Value)

		case *Call:
			for i, a := range s.Args {
				s.Args[i] = f.expr(a)
			}
		}
	}
}

// expr folds e bottom-up and returns its replacement.
func (f *folder) expr(e Expr) Expr {
	if f.err != nil {
		return e
	}

	switch e := e.(type) {
	case *List:
		for i, x := range e.Elems {
			e.Elems[i] = f.expr(x)
		}

	case *Unary:
		e.X = f.expr(e.X)

		if x, ok := exprSource(e.X); ok {
			return f.eval(e, "("+e.Op.Spelling()+" "+x+")")
		}

	case *Binary:
		if e.Op.IsMember() {
			return e
		}

		e.L = f.expr(e.L)
		e.R = f.expr(e.R)

		l, lok := exprSource(e.L)
		r, rok := exprSource(e.R)

		if lok && rok {
			return f.eval(e, "("+l+" "+e.Op.Spelling()+" "+r+")")
		}
	}

	return e
}

// eval evaluates source and returns the resulting literal, or e unchanged
// if the result has no literal form.
func (f *folder) eval(e Expr, source string) Expr {
	program, err := expr.Compile(source)
	if err != nil {
		f.err = err

		return e
	}

	out, err := expr.Run(program, nil)
	if err != nil {
		f.err = err

		return e
	}

	line, _ := e.Lines()

	var lit Expr

	switch v := out.(type) {
	case bool:
		lit = &Literal[bool]{Value: v, Line: line}
	case string:
		lit = &Literal[string]{Value: v, Line: line}
	case int:
		lit = &Literal[float64]{Value: float64(v), Line: line}
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return e
		}

		lit = &Literal[float64]{Value: v, Line: line}
	default:
		return e
	}

	f.count++

	return lit
}

// exprSource renders a literal as expr-lang source. Numbers always carry a
// fractional part so that arithmetic is done in floating point.
func exprSource(e Expr) (string, bool) {
	switch e := e.(type) {
	case *Literal[float64]:
		s := formatNumber(e.Value)
		if strings.ContainsAny(s, "eEnN") {
			return "", false
		}

		if !strings.Contains(s, ".") {
			s += ".0"
		}

		return s, true

	case *Literal[bool]:
		return strconv.FormatBool(e.Value), true

	case *Literal[string]:
		return strconv.Quote(e.Value), true
	}

	return "", false
}
