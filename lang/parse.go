package lang

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/tplc/lang/token"
	"github.com/ardnew/tplc/log"
)

// Parse builds a [Template] from a token sequence.
//
// Statements are parsed by recursive descent and expressions by precedence
// climbing. A failure is an [ErrParse] wrapping a [*ParseError] that names
// the offending token and the categories that would have been accepted.
func Parse(ctx context.Context, tokens []token.Token, opts ...Option) (*Template, error) {
	cfg := makeConfig(opts...)

	p := &parser{
		cur:    token.NewCursor(tokens),
		logger: cfg.logger,
	}

	t, err := p.template()
	if err != nil {
		return nil, ErrParse.Wrap(err).With(slog.Int("tokens", len(tokens)))
	}

	p.logger.DebugContext(ctx, "parsed",
		slog.Int("statements", len(t.Body)),
		slog.Int("macros", len(t.Macros)),
	)

	return t, nil
}

// parser holds the parser state.
type parser struct {
	cur    *token.Cursor
	logger log.Logger
}

// atomStart lists the categories that can begin an expression.
var atomStart = []token.Kind{
	token.OpenParen,
	token.Not,
	token.BinOp,
	token.Number,
	token.True,
	token.False,
	token.String,
	token.Identifier,
	token.OpenBracket,
}

// errorAt returns a parse error for the current token.
func (p *parser) errorAt(expected ...token.Kind) *ParseError {
	return &ParseError{Token: p.cur.Peek(), Expected: expected}
}

// expect consumes the current token if it has the given kind.
func (p *parser) expect(kind token.Kind) (token.Token, error) {
	if p.cur.Peek().Kind != kind {
		return token.Token{}, p.errorAt(kind)
	}

	return p.cur.Next(), nil
}

// template parses the entire token sequence.
func (p *parser) template() (*Template, error) {
	t := new(Template)

	body, err := p.topStatements(&t.Macros)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.EOI); err != nil {
		return nil, err
	}

	t.Body = body

	return t, nil
}

// topStatements parses a top-level statement sequence, hoisting macro
// definitions into macros.
func (p *parser) topStatements(macros *[]*Macro) ([]Stmt, error) {
	var stmts []Stmt

	for {
		if p.cur.Peek().Kind == token.Macro {
			m, err := p.macro()
			if err != nil {
				return nil, err
			}

			*macros = append(*macros, m)

			continue
		}

		s, err := p.statement(macros)
		if err != nil {
			return nil, err
		}

		if s == nil {
			return stmts, nil
		}

		stmts = append(stmts, s)
	}
}

// statements parses a nested statement sequence. It stops without consuming
// at the first token that cannot begin a statement.
func (p *parser) statements() ([]Stmt, error) {
	var stmts []Stmt

	for {
		s, err := p.statement(nil)
		if err != nil {
			return nil, err
		}

		if s == nil {
			return stmts, nil
		}

		stmts = append(stmts, s)
	}
}

// statement parses one statement, or returns nil if the current token
// cannot begin one. A non-nil macros marks the top level.
func (p *parser) statement(macros *[]*Macro) (Stmt, error) {
	switch tok := p.cur.Peek(); tok.Kind {
	case token.Content:
		p.cur.Next()

		return &Content{Text: tok.Value, Line: tok.Line}, nil

	case token.If:
		return p.ifStatement()

	case token.For:
		return p.forStatement()

	case token.Set:
		return p.setStatement(macros)

	case token.VarStart:
		return p.interpolation()

	default:
		return nil, nil
	}
}

// ifStatement parses if/elif/else/endif. Each elif becomes an If nested as
// the sole statement of the previous branch's else.
func (p *parser) ifStatement() (Stmt, error) {
	tok := p.cur.Next()

	n, err := p.branch(tok.Line)
	if err != nil {
		return nil, err
	}

	tail := n

	for p.cur.Peek().Kind == token.Elif {
		elif, err := p.branch(p.cur.Next().Line)
		if err != nil {
			return nil, err
		}

		tail.Else = []Stmt{elif}
		tail = elif
	}

	if p.cur.Peek().Kind == token.Else {
		p.cur.Next()

		if tail.Else, err = p.statements(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.EndIf); err != nil {
		return nil, err
	}

	return n, nil
}

// branch parses the condition and body following an if or elif keyword.
func (p *parser) branch(line int) (*If, error) {
	cond, err := p.expr(0)
	if err != nil {
		return nil, err
	}

	body, err := p.statements()
	if err != nil {
		return nil, err
	}

	return &If{Cond: cond, Body: body, Line: line}, nil
}

// forStatement parses: for <var> in <expr> [if <expr>] ... endfor.
func (p *parser) forStatement() (Stmt, error) {
	n := &For{Line: p.cur.Next().Line}

	var err error

	if n.Var, err = p.varIdent(true); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.In); err != nil {
		return nil, err
	}

	if n.Coll, err = p.expr(0); err != nil {
		return nil, err
	}

	if p.cur.Peek().Kind == token.Filter {
		p.cur.Next()

		if n.Filter, err = p.expr(0); err != nil {
			return nil, err
		}
	} else {
		n.Filter = &Literal[bool]{Value: true, Line: p.cur.Peek().Line}
	}

	if n.Body, err = p.statements(); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.EndFor); err != nil {
		return nil, err
	}

	return n, nil
}

// setStatement parses: set <var> = <expr>, followed by the remainder of the
// enclosing sequence as its body.
func (p *parser) setStatement(macros *[]*Macro) (Stmt, error) {
	n := &Set{Line: p.cur.Next().Line}

	var err error

	if n.Var, err = p.varIdent(true); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}

	if n.Value, err = p.expr(0); err != nil {
		return nil, err
	}

	if macros != nil {
		n.Body, err = p.topStatements(macros)
	} else {
		n.Body, err = p.statements()
	}

	if err != nil {
		return nil, err
	}

	return n, nil
}

// interpolation parses {{ <expr> }} or {{ <name>(<args>) }}.
func (p *parser) interpolation() (Stmt, error) {
	start := p.cur.Next()

	if p.cur.Peek().Kind == token.Identifier &&
		p.cur.PeekAt(1).Kind == token.OpenParen {
		name := p.macroIdent(false)

		args, err := delimited(p, p.exprEntry, token.OpenParen, token.CloseParen)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.VarEnd); err != nil {
			return nil, err
		}

		return &Call{Name: name, Args: args, Line: start.Line}, nil
	}

	value, err := p.expr(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.VarEnd); err != nil {
		return nil, err
	}

	return &Output{Value: value, Line: start.Line}, nil
}

// macro parses: macro <name>(<args>) ... endmacro.
func (p *parser) macro() (*Macro, error) {
	tok := p.cur.Next()

	if p.cur.Peek().Kind != token.Identifier {
		return nil, p.errorAt(token.Identifier)
	}

	m := &Macro{Name: p.macroIdent(true), Line: tok.Line}

	var err error

	if m.Args, err = delimited(p, p.argument, token.OpenParen, token.CloseParen); err != nil {
		return nil, err
	}

	if m.Body, err = p.statements(); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.EndMacro); err != nil {
		return nil, err
	}

	return m, nil
}

// argument parses a macro parameter: <name> [= <expr>].
func (p *parser) argument() (*Argument, error) {
	name, err := p.varIdent(true)
	if err != nil {
		return nil, err
	}

	a := &Argument{Name: name}

	if p.cur.Peek().Kind == token.Assign {
		p.cur.Next()

		if a.Default, err = p.expr(0); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// delimited parses a possibly empty, separator-delimited list enclosed by
// open and close. Parsing continues only while a comma follows an entry.
func delimited[T any](
	p *parser,
	entry func() (T, error),
	open, close token.Kind,
) ([]T, error) {
	if _, err := p.expect(open); err != nil {
		return nil, err
	}

	var list []T

	for p.cur.Peek().Kind != close {
		e, err := entry()
		if err != nil {
			return nil, err
		}

		list = append(list, e)

		if p.cur.Peek().Kind != token.Comma {
			break
		}

		p.cur.Next()
	}

	if _, err := p.expect(close); err != nil {
		return nil, err
	}

	return list, nil
}

func (p *parser) exprEntry() (Expr, error) { return p.expr(0) }

// expr parses an expression by precedence climbing. Only operators binding
// at least as tightly as minPrec are consumed.
func (p *parser) expr(minPrec int) (Expr, error) {
	lhs, err := p.atom()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.cur.Peek()
		if tok.Kind != token.BinOp {
			return lhs, nil
		}

		op := binaryOpOf[tok.Value]
		if op.Precedence() < minPrec {
			return lhs, nil
		}

		p.cur.Next()

		var rhs Expr

		if op.IsMember() {
			rhs, err = p.field()
		} else {
			rhs, err = p.expr(op.Precedence() + 1)
		}

		if err != nil {
			return nil, err
		}

		lhs = &Binary{Op: op, L: lhs, R: rhs}
	}
}

// atom parses an operand: a parenthesized expression, a prefix operation, a
// literal, an identifier or a list.
func (p *parser) atom() (Expr, error) {
	tok := p.cur.Peek()

	switch tok.Kind {
	case token.OpenParen:
		p.cur.Next()

		e, err := p.expr(0)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.CloseParen); err != nil {
			return nil, err
		}

		return e, nil

	case token.Not:
		return p.unary(Not)

	case token.BinOp:
		if tok.Value == Sub.Spelling() {
			return p.unary(Negate)
		}

	case token.Number:
		p.cur.Next()

		// The lexer admits only digits with an optional fraction, so the
		// only possible failure is overflow.
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, &ParseError{Token: tok, Reason: "number out of range"}
		}

		return &Literal[float64]{Value: v, Line: tok.Line}, nil

	case token.True, token.False:
		p.cur.Next()

		return &Literal[bool]{Value: tok.Kind == token.True, Line: tok.Line}, nil

	case token.String:
		p.cur.Next()

		return &Literal[string]{Value: tok.Value[1 : len(tok.Value)-1], Line: tok.Line}, nil

	case token.Identifier:
		return p.varIdent(false)

	case token.OpenBracket:
		elems, err := delimited(p, p.exprEntry, token.OpenBracket, token.CloseBracket)
		if err != nil {
			return nil, err
		}

		return &List{Elems: elems, Begin: tok.Line, End: p.lastLine()}, nil
	}

	return nil, p.errorAt(atomStart...)
}

// unary parses a prefix operator and its operand.
func (p *parser) unary(op UnaryOp) (Expr, error) {
	tok := p.cur.Next()

	x, err := p.expr(unaryPrecedence)
	if err != nil {
		return nil, err
	}

	return &Unary{Op: op, X: x, Line: tok.Line}, nil
}

// field parses the member name on the right of a member access.
func (p *parser) field() (Expr, error) {
	tok, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}

	return &Field{Name: tok.Value, Line: tok.Line}, nil
}

// varIdent parses a variable name.
func (p *parser) varIdent(binding bool) (*Ident, error) {
	tok, err := p.expect(token.Identifier)
	if err != nil {
		return nil, err
	}

	return &Ident{Name: tok.Value, Binding: binding, Line: tok.Line}, nil
}

// macroIdent consumes the current identifier token as a macro name.
func (p *parser) macroIdent(binding bool) *Ident {
	tok := p.cur.Next()

	return &Ident{
		Name:      tok.Value,
		Namespace: macroNamespace,
		Binding:   binding,
		Line:      tok.Line,
	}
}

// lastLine returns the line of the most recently consumed token.
func (p *parser) lastLine() int {
	return p.cur.PeekAt(-1).Line
}
