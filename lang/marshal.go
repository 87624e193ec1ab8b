package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler for Template.
func (t *Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToMap())
}

// ToMap converts the template to native Go maps and slices. Each node
// becomes a map keyed by its construct, with line numbers 1-based.
func (t *Template) ToMap() map[string]any {
	macros := make([]any, len(t.Macros))
	for i, m := range t.Macros {
		macros[i] = m.ToMap()
	}

	return map[string]any{
		"macros": macros,
		"body":   stmtsToNative(t.Body),
	}
}

// ToMap converts a macro definition to native Go maps and slices.
func (m *Macro) ToMap() map[string]any {
	args := make([]any, len(m.Args))

	for i, a := range m.Args {
		arg := map[string]any{"name": a.Name.Name}
		if a.Default != nil {
			arg["default"] = exprToNative(a.Default)
		}

		args[i] = arg
	}

	return map[string]any{
		"macro": m.Name.Name,
		"args":  args,
		"body":  stmtsToNative(m.Body),
		"line":  m.Line + 1,
	}
}

func stmtsToNative(stmts []Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = stmtToNative(s)
	}

	return out
}

func stmtToNative(s Stmt) any {
	switch s := s.(type) {
	case *Content:
		return map[string]any{"content": s.Text, "line": s.Line + 1}

	case *If:
		m := map[string]any{
			"if":   exprToNative(s.Cond),
			"then": stmtsToNative(s.Body),
			"line": s.Line + 1,
		}
		if len(s.Else) > 0 {
			m["else"] = stmtsToNative(s.Else)
		}

		return m

	case *For:
		m := map[string]any{
			"for":  s.Var.Name,
			"in":   exprToNative(s.Coll),
			"body": stmtsToNative(s.Body),
			"line": s.Line + 1,
		}
		if !isLiteralTrue(s.Filter) {
			m["filter"] = exprToNative(s.Filter)
		}

		return m

	case *Set:
		return map[string]any{
			"set":   s.Var.Name,
			"value": exprToNative(s.Value),
			"body":  stmtsToNative(s.Body),
			"line":  s.Line + 1,
		}

	case *Output:
		return map[string]any{"output": exprToNative(s.Value), "line": s.Line + 1}

	case *Call:
		args := make([]any, len(s.Args))
		for i, a := range s.Args {
			args[i] = exprToNative(a)
		}

		return map[string]any{"call": s.Name.Name, "args": args, "line": s.Line + 1}
	}

	return nil
}

func exprToNative(e Expr) any {
	switch e := e.(type) {
	case *Ident:
		return map[string]any{"ident": e.Name}

	case *Field:
		return map[string]any{"field": e.Name}

	case *Literal[float64]:
		return map[string]any{"number": e.Value}

	case *Literal[bool]:
		return map[string]any{"boolean": e.Value}

	case *Literal[string]:
		return map[string]any{"text": e.Value}

	case *List:
		elems := make([]any, len(e.Elems))
		for i, x := range e.Elems {
			elems[i] = exprToNative(x)
		}

		return map[string]any{"list": elems}

	case *Unary:
		return map[string]any{"op": e.Op.Spelling(), "x": exprToNative(e.X)}

	case *Binary:
		return map[string]any{
			"op": e.Op.Spelling(),
			"l":  exprToNative(e.L),
			"r":  exprToNative(e.R),
		}
	}

	return nil
}
