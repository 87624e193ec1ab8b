package lang

import (
	"iter"
	"strconv"
	"strings"
)

// Qualification applied to names so that they never collide with the
// names the generator introduces itself.
const (
	varPrefix      = "vsym_"
	macroNamespace = "macros"
)

// Node is any element of a [Template].
type Node interface {
	node()
}

// Stmt is a statement node: [*Content], [*If], [*For], [*Set], [*Output] or
// [*Call].
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression node: [*Ident], [*Field], [*Literal], [*List],
// [*Unary] or [*Binary].
//
// String renders the expression in template syntax.
type Expr interface {
	Node
	String() string

	// Lines returns the 0-based source lines the expression spans.
	Lines() (begin, end int)

	expr()
}

// Template is the root of a parsed source. Macro definitions are hoisted out
// of Body into Macros in the order they appear.
type Template struct {
	Body   []Stmt
	Macros []*Macro
}

// Macro is a named, parameterized template fragment.
type Macro struct {
	Name *Ident
	Args []*Argument
	Body []Stmt
	Line int
}

// Argument is a macro parameter with an optional default value.
type Argument struct {
	Name    *Ident
	Default Expr // nil when no default is given
}

// Content is literal text copied to the output verbatim.
type Content struct {
	Text string
	Line int
}

// If is a conditional. An elif chain is represented as nested If nodes,
// each the sole statement of the previous node's Else.
type If struct {
	Cond Expr
	Body []Stmt
	Else []Stmt
	Line int
}

// For iterates Coll, binding each element to Var, and renders Body for the
// elements satisfying Filter.
type For struct {
	Var    *Ident
	Coll   Expr
	Filter Expr
	Body   []Stmt
	Line   int
}

// Set binds Value to Var for the remainder of the enclosing statement
// sequence, which is held in Body.
type Set struct {
	Var   *Ident
	Value Expr
	Body  []Stmt
	Line  int
}

// Output appends the rendered value of an expression.
type Output struct {
	Value Expr
	Line  int
}

// Call invokes a macro.
type Call struct {
	Name *Ident
	Args []Expr
	Line int
}

// Ident is a reference to a name supplied at render time, or a binding
// site (loop variable, set target, macro name or argument) when Binding is
// set.
type Ident struct {
	Name      string // source spelling
	Namespace string // empty for variables
	Binding   bool
	Line      int
}

// Symbol returns the qualified name of the identifier as it appears in
// generated code.
func (id *Ident) Symbol() string {
	if id.Namespace == "" {
		return varPrefix + id.Name
	}

	return id.Namespace + "::" + id.Name
}

// Field is a member name on the right of a member access.
type Field struct {
	Name string
	Line int
}

// LiteralValue constrains the Go types a [Literal] may carry.
type LiteralValue interface {
	float64 | bool | string
}

// Literal is a constant number, boolean or string.
type Literal[T LiteralValue] struct {
	Value T
	Line  int
}

// List is a bracketed sequence of expressions.
type List struct {
	Elems []Expr
	Begin int
	End   int
}

// Unary applies a prefix operator.
type Unary struct {
	Op   UnaryOp
	X    Expr
	Line int
}

// Binary applies an infix operator.
type Binary struct {
	Op BinaryOp
	L  Expr
	R  Expr
}

func (*Template) node() {}
func (*Macro) node()    {}
func (*Argument) node() {}

func (*Content) node() {}
func (*If) node()      {}
func (*For) node()     {}
func (*Set) node()     {}
func (*Output) node()  {}
func (*Call) node()    {}

func (*Content) stmt() {}
func (*If) stmt()      {}
func (*For) stmt()     {}
func (*Set) stmt()     {}
func (*Output) stmt()  {}
func (*Call) stmt()    {}

func (*Ident) node()      {}
func (*Field) node()      {}
func (*Literal[T]) node() {}
func (*List) node()       {}
func (*Unary) node()      {}
func (*Binary) node()     {}

func (*Ident) expr()      {}
func (*Field) expr()      {}
func (*Literal[T]) expr() {}
func (*List) expr()       {}
func (*Unary) expr()      {}
func (*Binary) expr()     {}

func (id *Ident) Lines() (int, int)     { return id.Line, id.Line }
func (f *Field) Lines() (int, int)      { return f.Line, f.Line }
func (l *Literal[T]) Lines() (int, int) { return l.Line, l.Line }
func (l *List) Lines() (int, int)       { return l.Begin, l.End }

func (u *Unary) Lines() (int, int) {
	_, end := u.X.Lines()

	return u.Line, end
}

func (b *Binary) Lines() (int, int) {
	begin, _ := b.L.Lines()
	_, end := b.R.Lines()

	return begin, end
}

func (id *Ident) String() string { return id.Name }
func (f *Field) String() string  { return f.Name }

func (l *Literal[T]) String() string {
	switch v := any(l.Value).(type) {
	case float64:
		return formatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return `"` + v + `"`
	}

	return ""
}

func (l *List) String() string {
	s := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		s[i] = e.String()
	}

	return "[" + strings.Join(s, ", ") + "]"
}

func (u *Unary) String() string {
	x := u.X.String()
	if b, ok := u.X.(*Binary); ok && b.Op.Precedence() < unaryPrecedence {
		x = "(" + x + ")"
	}

	if u.Op == Not {
		return "not " + x
	}

	return u.Op.Spelling() + x
}

func (b *Binary) String() string {
	l, r := b.L.String(), b.R.String()

	// Operators are left-associative: a right operand of equal precedence
	// needs parentheses, a left operand does not.
	switch p := b.L.(type) {
	case *Binary:
		if p.Op.Precedence() < b.Op.Precedence() {
			l = "(" + l + ")"
		}

	case *Unary:
		if b.Op.Precedence() > unaryPrecedence {
			l = "(" + l + ")"
		}
	}

	if p, ok := b.R.(*Binary); ok && p.Op.Precedence() <= b.Op.Precedence() {
		r = "(" + r + ")"
	}

	if b.Op.IsMember() {
		return l + b.Op.Spelling() + r
	}

	return l + " " + b.Op.Spelling() + " " + r
}

// formatNumber renders a numeric literal in positional notation with the
// fewest digits that round-trip. The template grammar has no exponents.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	Negate UnaryOp = iota
	Not
)

// unaryPrecedence is the binding strength of both prefix operators.
const unaryPrecedence = 4

// Spelling returns the template spelling of the operator.
func (op UnaryOp) Spelling() string {
	if op == Not {
		return "not"
	}

	return "-"
}

// BinaryOp is an infix operator.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Eq
	Neq
	Gt
	Ge
	Lt
	Le
	And
	Or
	Dot
	Arrow
)

var binaryOps = [...]struct {
	spelling string
	cpp      string
	prec     int
}{
	Add:   {"+", "+", 2},
	Sub:   {"-", "-", 2},
	Mul:   {"*", "*", 3},
	Div:   {"/", "/", 3},
	Eq:    {"==", "==", 1},
	Neq:   {"!=", "!=", 1},
	Gt:    {">", ">", 1},
	Ge:    {">=", ">=", 1},
	Lt:    {"<", "<", 1},
	Le:    {"<=", "<=", 1},
	And:   {"and", "&&", 0},
	Or:    {"or", "||", 0},
	Dot:   {".", ".", 5},
	Arrow: {"->", "->", 5},
}

// binaryOpOf maps template spellings to operators.
var binaryOpOf = func() map[string]BinaryOp {
	m := make(map[string]BinaryOp, len(binaryOps))
	for op, d := range binaryOps {
		m[d.spelling] = BinaryOp(op)
	}

	return m
}()

// Spelling returns the template spelling of the operator.
func (op BinaryOp) Spelling() string { return binaryOps[op].spelling }

// Precedence returns the binding strength of the operator, from 0 (and, or)
// to 5 (member access).
func (op BinaryOp) Precedence() int { return binaryOps[op].prec }

// IsMember reports whether op is a member access.
func (op BinaryOp) IsMember() bool { return op == Dot || op == Arrow }

// Walk returns an iterator over every node of the template in depth-first
// order: macros (with their arguments and bodies) first, then the body.
func (t *Template) Walk() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, m := range t.Macros {
			if !walkMacro(m, yield) {
				return
			}
		}

		walkStmts(t.Body, yield)
	}
}

func walkMacro(m *Macro, yield func(Node) bool) bool {
	if !yield(m) || !yield(m.Name) {
		return false
	}

	for _, a := range m.Args {
		if !yield(a) || !yield(a.Name) {
			return false
		}

		if a.Default != nil && !walkExpr(a.Default, yield) {
			return false
		}
	}

	return walkStmts(m.Body, yield)
}

func walkStmts(stmts []Stmt, yield func(Node) bool) bool {
	for _, s := range stmts {
		if !walkStmt(s, yield) {
			return false
		}
	}

	return true
}

func walkStmt(s Stmt, yield func(Node) bool) bool {
	if !yield(s) {
		return false
	}

	switch s := s.(type) {
	case *Content:
		return true

	case *If:
		return walkExpr(s.Cond, yield) &&
			walkStmts(s.Body, yield) &&
			walkStmts(s.Else, yield)

	case *For:
		return yield(s.Var) &&
			walkExpr(s.Coll, yield) &&
			walkExpr(s.Filter, yield) &&
			walkStmts(s.Body, yield)

	case *Set:
		return yield(s.Var) &&
			walkExpr(s.Value, yield) &&
			walkStmts(s.Body, yield)

	case *Output:
		return walkExpr(s.Value, yield)

	case *Call:
		if !yield(s.Name) {
			return false
		}

		for _, a := range s.Args {
			if !walkExpr(a, yield) {
				return false
			}
		}
	}

	return true
}

func walkExpr(e Expr, yield func(Node) bool) bool {
	if !yield(e) {
		return false
	}

	switch e := e.(type) {
	case *List:
		for _, x := range e.Elems {
			if !walkExpr(x, yield) {
				return false
			}
		}

	case *Unary:
		return walkExpr(e.X, yield)

	case *Binary:
		return walkExpr(e.L, yield) && walkExpr(e.R, yield)
	}

	return true
}
