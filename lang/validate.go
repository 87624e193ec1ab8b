package lang

import (
	"context"
	"log/slog"
)

// Validate type-checks every expression of the template: macro argument
// defaults and bodies first, then the top-level body. The first violation
// is returned as an [ErrType] wrapping a [*TypeError].
func Validate(ctx context.Context, t *Template, opts ...Option) error {
	cfg := makeConfig(opts...)

	for _, m := range t.Macros {
		for _, a := range m.Args {
			if a.Default == nil {
				continue
			}

			if _, err := TypeOf(a.Default); err != nil {
				return ErrType.Wrap(err).With(slog.String("macro", m.Name.Name))
			}
		}

		if err := validateStmts(m.Body); err != nil {
			return ErrType.Wrap(err).With(slog.String("macro", m.Name.Name))
		}
	}

	if err := validateStmts(t.Body); err != nil {
		return ErrType.Wrap(err)
	}

	cfg.logger.DebugContext(ctx, "validated", slog.Int("macros", len(t.Macros)))

	return nil
}

func validateStmts(stmts []Stmt) error {
	for _, s := range stmts {
		if err := validateStmt(s); err != nil {
			return err
		}
	}

	return nil
}

func validateStmt(s Stmt) error {
	switch s := s.(type) {
	case *Content:
		return nil

	case *If:
		if err := require(s.Cond, TypeBoolean); err != nil {
			return err
		}

		if err := validateStmts(s.Body); err != nil {
			return err
		}

		return validateStmts(s.Else)

	case *For:
		if err := require(s.Filter, TypeBoolean); err != nil {
			return err
		}

		if err := require(s.Coll, TypeList); err != nil {
			return err
		}

		return validateStmts(s.Body)

	case *Set:
		if _, err := TypeOf(s.Value); err != nil {
			return err
		}

		return validateStmts(s.Body)

	case *Output:
		_, err := TypeOf(s.Value)

		return err

	case *Call:
		for _, a := range s.Args {
			if _, err := TypeOf(a); err != nil {
				return err
			}
		}
	}

	return nil
}

// require checks that e is well-typed and satisfies want.
func require(e Expr, want Type) error {
	t, err := TypeOf(e)
	if err != nil {
		return err
	}

	if !t.Accepts(want) {
		return &TypeError{Node: e, Actual: t, Expected: want}
	}

	return nil
}

// requireBoth checks the operands of a binary operator against want.
func requireBoth(l Expr, lt Type, r Expr, rt Type, want Type) error {
	if !lt.Accepts(want) {
		return &TypeError{Node: l, Actual: lt, Expected: want}
	}

	if !rt.Accepts(want) {
		return &TypeError{Node: r, Actual: rt, Expected: want}
	}

	return nil
}

// TypeOf computes the static type of an expression, checking all of its
// subexpressions. Identifiers are [TypeDeferred]; their real type is only
// known when the generated procedure is instantiated.
func TypeOf(e Expr) (Type, error) {
	switch e := e.(type) {
	case *Ident:
		return TypeDeferred, nil

	case *Field:
		return TypeField, nil

	case *Literal[float64]:
		return TypeNumber, nil

	case *Literal[bool]:
		return TypeBoolean, nil

	case *Literal[string]:
		return TypeText, nil

	case *List:
		return listType(e)

	case *Unary:
		want := TypeNumber
		if e.Op == Not {
			want = TypeBoolean
		}

		if err := require(e.X, want); err != nil {
			return 0, err
		}

		return want, nil

	case *Binary:
		return binaryType(e)
	}

	return 0, ErrType.With(slog.String("node", e.String()))
}

// listType requires every element to share the type of the first element
// whose type is not deferred.
func listType(l *List) (Type, error) {
	types := make([]Type, len(l.Elems))

	for i, x := range l.Elems {
		t, err := TypeOf(x)
		if err != nil {
			return 0, err
		}

		types[i] = t
	}

	anchor := TypeDeferred

	for i, t := range types {
		if anchor == TypeDeferred {
			anchor = t

			continue
		}

		if !t.Accepts(anchor) {
			return 0, &TypeError{Node: l.Elems[i], Actual: t, Expected: anchor}
		}
	}

	return TypeList, nil
}

func binaryType(b *Binary) (Type, error) {
	lt, err := TypeOf(b.L)
	if err != nil {
		return 0, err
	}

	rt, err := TypeOf(b.R)
	if err != nil {
		return 0, err
	}

	either := func(t Type) bool { return lt == t || rt == t }

	switch b.Op {
	case And, Or:
		return TypeBoolean, requireBoth(b.L, lt, b.R, rt, TypeBoolean)

	case Eq, Neq:
		want := TypeNumber

		switch {
		case either(TypeBoolean):
			want = TypeBoolean
		case either(TypeText):
			want = TypeText
		}

		return TypeBoolean, requireBoth(b.L, lt, b.R, rt, want)

	case Gt, Ge, Lt, Le:
		want := TypeNumber
		if either(TypeText) {
			want = TypeText
		}

		return TypeBoolean, requireBoth(b.L, lt, b.R, rt, want)

	case Add, Sub, Mul, Div:
		return TypeNumber, requireBoth(b.L, lt, b.R, rt, TypeNumber)

	case Dot, Arrow:
		if lt != TypeDeferred {
			return 0, &TypeError{Node: b.L, Actual: lt, Expected: TypeDeferred}
		}

		if rt != TypeField {
			return 0, &TypeError{Node: b.R, Actual: rt, Expected: TypeField}
		}

		return TypeDeferred, nil
	}

	return 0, ErrType.With(slog.String("operator", b.Op.Spelling()))
}
