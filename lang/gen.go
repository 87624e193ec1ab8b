package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tplc/pkg"
)

// Unit is a generated C++ compilation unit.
type Unit struct {
	// Code is the C++ source text.
	Code string

	// Params are the free symbols of the top-level procedure, in the order
	// they appear in its signature.
	Params []string

	// Macros describes the generated macro procedures in definition order.
	Macros []MacroSignature

	// Warnings are advisory diagnostics found while generating.
	Warnings []Warning
}

// MacroSignature describes a generated macro procedure.
type MacroSignature struct {
	Name     string
	Args     []string
	Required int      // number of leading arguments without a default
	Unknown  []string // names referenced in the body that are not arguments
}

// Warning is an advisory diagnostic. Warnings do not stop generation unless
// strict mode is enabled.
type Warning struct {
	Line    int // 0-based
	Message string
	Hint    string // suggested replacement, if any
}

// String formats the warning for humans.
func (w Warning) String() string {
	return "line " + strconv.Itoa(w.Line+1) + ": " + w.Detail()
}

// Detail returns the message followed by the hint, if any.
func (w Warning) Detail() string {
	if w.Hint == "" {
		return w.Message
	}

	return w.Message + " (did you mean '" + w.Hint + "'?)"
}

// C++ spellings used by the generator.
const (
	sinkParam   = "o"
	renderProc  = "render_template"
	macroSink   = "O"
	macroType   = "T"
	renderSink  = "OS"
	renderType  = "N"
	rawStringID = "tplc"
	initPrefix  = "init_"
)

// Generate emits the C++ rendering procedures for a template: one function
// template per macro inside namespace macros, followed by render_template,
// whose parameters are the free symbols of the top-level body in
// lexicographic order.
func Generate(ctx context.Context, t *Template, opts ...Option) (*Unit, error) {
	if t == nil {
		return nil, ErrGenerate.Wrap(errNoTemplate)
	}

	cfg := makeConfig(opts...)

	g := &generator{
		cfg:    cfg,
		macros: make(map[string]*Macro, len(t.Macros)),
	}

	for _, m := range t.Macros {
		if _, ok := g.macros[m.Name.Name]; ok {
			g.warn(m.Line, "", "macro '%s' redefined", m.Name.Name)
		}

		g.macros[m.Name.Name] = m
	}

	var (
		unit   Unit
		protos []string
		defs   []string
	)

	for _, m := range t.Macros {
		proto, def, sig := g.macro(m)
		protos = append(protos, proto)
		defs = append(defs, def)
		unit.Macros = append(unit.Macros, sig)
	}

	g.enter(nil)
	g.stmts(t.Body, 1)
	body := g.out.String()
	unit.Params = g.symbols.sorted()

	if g.err != nil {
		return nil, ErrGenerate.Wrap(g.err)
	}

	var sb strings.Builder

	g.header(&sb)

	sb.WriteString("#include <iostream>\n")
	sb.WriteString("#include <string>\n\n")

	if len(protos) > 0 {
		sb.WriteString("namespace " + macroNamespace + " {\n")

		for _, p := range protos {
			sb.WriteString(p)
			sb.WriteString(";\n\n")
		}

		sb.WriteString(strings.Join(defs, "\n"))
		sb.WriteString("}\n\n")
	}

	sb.WriteString(signature(renderSink, renderType, "", renderProc, unit.Params, nil))
	sb.WriteString(" {\n")
	sb.WriteString(body)
	sb.WriteString("}\n")

	unit.Code = sb.String()
	unit.Warnings = g.warnings

	for _, w := range g.warnings {
		cfg.logger.WarnContext(ctx, w.Message,
			slog.Int("line", w.Line+1),
			slog.String("hint", w.Hint),
		)
	}

	cfg.logger.DebugContext(ctx, "generated",
		slog.Int("params", len(unit.Params)),
		slog.Int("macros", len(unit.Macros)),
		slog.Int("warnings", len(unit.Warnings)),
		slog.Int("bytes", len(unit.Code)),
	)

	if cfg.strict && len(g.warnings) > 0 {
		return &unit, ErrStrict.With(slog.Int("warnings", len(g.warnings)))
	}

	return &unit, nil
}

// generator carries emission state through a tree walk. The symbol table is
// replaced when entering each macro and the top-level body.
type generator struct {
	cfg      config
	macros   map[string]*Macro
	out      strings.Builder
	symbols  *symbols
	warnings []Warning
	err      error
}

// enter resets the output buffer and starts a fresh scope with names
// initially bound.
func (g *generator) enter(names []string) {
	g.out.Reset()
	g.symbols = newSymbols()

	for _, n := range names {
		g.symbols.bind(n)
	}
}

func (g *generator) warn(line int, hint string, format string, args ...any) {
	g.warnings = append(g.warnings, Warning{
		Line:    line,
		Message: fmt.Sprintf(format, args...),
		Hint:    hint,
	})
}

func (g *generator) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

func (g *generator) indent(level int) {
	g.out.WriteString(strings.Repeat(g.cfg.indent, level))
}

// header writes the optional comment identifying the generator and source.
func (g *generator) header(sb *strings.Builder) {
	if g.cfg.header == "" {
		return
	}

	sb.WriteString("// Code generated by " + pkg.Name + " from " +
		strconv.Quote(g.cfg.header) + ". DO NOT EDIT.\n")

	if g.cfg.digest != 0 {
		sb.WriteString("// xxh3: " + fmt.Sprintf("%016x", g.cfg.digest) + "\n")
	}

	sb.WriteString("\n")
}

// signature formats a function template head and declarator:
//
//	template<typename <sink>, typename <typ>0, ...>
//	<indent>void <name>(<sink> &o, <typ>0 <param0>, ...)
//
// defaults, when non-nil, holds a default expression (or "") per parameter.
func signature(sink, typ, indent, name string, params, defaults []string) string {
	var sb strings.Builder

	sb.WriteString(indent + "template<typename " + sink)

	for i := range params {
		sb.WriteString(", typename " + typ + strconv.Itoa(i))

		if defaults != nil && defaults[i] != "" {
			sb.WriteString(" = decltype(" + defaults[i] + ")")
		}
	}

	sb.WriteString(">\n")
	sb.WriteString(indent + "void " + name + "(" + sink + " &" + sinkParam)

	for i, p := range params {
		sb.WriteString(", " + typ + strconv.Itoa(i) + " " + p)

		if defaults != nil && defaults[i] != "" {
			sb.WriteString(" = " + defaults[i])
		}
	}

	sb.WriteString(")")

	return sb.String()
}

// macro returns the forward declaration and definition of a macro.
func (g *generator) macro(m *Macro) (proto, def string, sig MacroSignature) {
	sig.Name = m.Name.Name

	params := make([]string, len(m.Args))
	defaults := make([]string, len(m.Args))
	hasDefault := false

	// Default values are evaluated in the caller's scope, so no argument
	// is bound while they are rendered.
	g.enter(nil)

	for i, a := range m.Args {
		params[i] = a.Name.Symbol()
		sig.Args = append(sig.Args, a.Name.Name)

		if a.Default != nil {
			g.out.Reset()
			g.expr(a.Default)
			defaults[i] = g.out.String()
			hasDefault = true

			continue
		}

		if hasDefault {
			g.warn(a.Name.Line, "",
				"argument '%s' of macro '%s' has no default but follows an argument with one",
				a.Name.Name, m.Name.Name)
		}

		sig.Required = i + 1
	}

	unknown := g.symbols.free

	g.enter(params)

	for s := range unknown {
		g.symbols.free[s] = struct{}{}
	}

	g.stmts(m.Body, 2)

	for _, s := range g.symbols.sorted() {
		name := strings.TrimPrefix(s, varPrefix)
		sig.Unknown = append(sig.Unknown, name)

		g.warn(m.Line, suggest(name, sig.Args),
			"unknown symbol '%s' in macro '%s'", name, m.Name.Name)
	}

	proto = signature(macroSink, macroType, g.cfg.indent, m.Name.Name, params, defaults)
	def = signature(macroSink, macroType, g.cfg.indent, m.Name.Name, params, nil) +
		" {\n" + g.out.String() + g.cfg.indent + "}\n"

	return proto, def, sig
}

func (g *generator) stmts(stmts []Stmt, level int) {
	for _, s := range stmts {
		g.stmt(s, level)
	}
}

func (g *generator) stmt(s Stmt, level int) {
	switch s := s.(type) {
	case *Content:
		g.indent(level)
		g.out.WriteString(sinkParam + " << " + rawString(s.Text) + ";\n")

	case *Output:
		g.indent(level)
		g.out.WriteString(sinkParam + " << ")
		g.expr(s.Value)
		g.out.WriteString(";\n")

	case *Call:
		g.call(s, level)

	case *If:
		g.indent(level)
		g.out.WriteString("if (")
		g.expr(s.Cond)
		g.out.WriteString(") {\n")
		g.stmts(s.Body, level+1)

		if len(s.Else) > 0 {
			g.indent(level)
			g.out.WriteString("} else {\n")
			g.stmts(s.Else, level+1)
		}

		g.indent(level)
		g.out.WriteString("}\n")

	case *For:
		// The collection is evaluated outside the loop variable's scope; the
		// filter and body inside it.
		g.indent(level)
		g.out.WriteString("for (const auto& " + s.Var.Symbol() + " : ")
		g.expr(s.Coll)
		g.out.WriteString(") {\n")

		g.symbols.bind(s.Var.Symbol())

		if isLiteralTrue(s.Filter) {
			g.stmts(s.Body, level+1)
		} else {
			g.indent(level + 1)
			g.out.WriteString("if (")
			g.expr(s.Filter)
			g.out.WriteString(") {\n")
			g.stmts(s.Body, level+2)
			g.indent(level + 1)
			g.out.WriteString("}\n")
		}

		g.symbols.unbind(s.Var.Symbol())

		g.indent(level)
		g.out.WriteString("}\n")

	case *Set:
		sym := s.Var.Symbol()

		g.indent(level)
		g.out.WriteString("{\n")
		g.indent(level + 1)

		switch {
		case g.symbols.bound(sym):
			g.out.WriteString(sym + " = ")
			g.expr(s.Value)

		case refers(s.Value, sym):
			// A C++ local is in scope within its own initializer, so the
			// free value is read into a temporary before it is shadowed.
			g.out.WriteString("auto " + initPrefix + sym + " = ")
			g.expr(s.Value)
			g.out.WriteString(";\n")
			g.indent(level + 1)
			g.out.WriteString("auto " + sym + " = " + initPrefix + sym)

		default:
			g.out.WriteString("auto " + sym + " = ")
			g.expr(s.Value)
		}

		g.out.WriteString(";\n")

		g.symbols.bind(sym)
		g.stmts(s.Body, level+1)
		g.symbols.unbind(sym)

		g.indent(level)
		g.out.WriteString("}\n")

	default:
		g.fail(fmt.Errorf("unsupported statement %T", s))
	}
}

// call emits a macro invocation and checks it against the macro's
// definition.
func (g *generator) call(c *Call, level int) {
	if m, ok := g.macros[c.Name.Name]; !ok {
		g.warn(c.Line, suggest(c.Name.Name, sortedKeys(g.macros)),
			"call of undefined macro '%s'", c.Name.Name)
	} else if required := requiredArgs(m); len(c.Args) < required || len(c.Args) > len(m.Args) {
		g.warn(c.Line, "",
			"macro '%s' called with %d arguments, expects %s",
			c.Name.Name, len(c.Args), arity(required, len(m.Args)))
	}

	g.indent(level)
	g.out.WriteString(c.Name.Symbol() + "(" + sinkParam)

	for _, a := range c.Args {
		g.out.WriteString(", ")
		g.expr(a)
	}

	g.out.WriteString(");\n")
}

func (g *generator) expr(e Expr) {
	switch e := e.(type) {
	case *Ident:
		sym := e.Symbol()
		if !e.Binding && !g.symbols.bound(sym) {
			g.symbols.free[sym] = struct{}{}
		}

		g.out.WriteString(sym)

	case *Field:
		g.out.WriteString(e.Name)

	case *Literal[float64]:
		g.out.WriteString(cppNumber(e.Value))

	case *Literal[bool]:
		g.out.WriteString(strconv.FormatBool(e.Value))

	case *Literal[string]:
		g.out.WriteString("std::string(" + cppString(e.Value) + ")")

	case *List:
		g.out.WriteString("{")

		for i, x := range e.Elems {
			if i > 0 {
				g.out.WriteString(", ")
			}

			g.expr(x)
		}

		g.out.WriteString("}")

	case *Unary:
		if e.Op == Not {
			g.out.WriteString("!(")
		} else {
			g.out.WriteString("-(")
		}

		g.expr(e.X)
		g.out.WriteString(")")

	case *Binary:
		pad := " "
		if e.Op.IsMember() {
			pad = ""
		}

		g.out.WriteString("(")
		g.expr(e.L)
		g.out.WriteString(pad + binaryOps[e.Op].cpp + pad)
		g.expr(e.R)
		g.out.WriteString(")")

	default:
		g.fail(fmt.Errorf("unsupported expression %T", e))
	}
}

// refers reports whether e reads the variable sym.
func refers(e Expr, sym string) bool {
	found := false

	walkExpr(e, func(n Node) bool {
		if id, ok := n.(*Ident); ok && id.Symbol() == sym {
			found = true
		}

		return !found
	})

	return found
}

func isLiteralTrue(e Expr) bool {
	l, ok := e.(*Literal[bool])

	return ok && l.Value
}

// requiredArgs returns the number of leading arguments a call must supply.
func requiredArgs(m *Macro) int {
	n := 0

	for i, a := range m.Args {
		if a.Default == nil {
			n = i + 1
		}
	}

	return n
}

func arity(lo, hi int) string {
	if lo == hi {
		return strconv.Itoa(lo)
	}

	return strconv.Itoa(lo) + " to " + strconv.Itoa(hi)
}

// suggest returns the candidate that best matches name, or "".
func suggest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}

	if matches := fuzzy.Find(name, candidates); len(matches) > 0 {
		return matches[0].Str
	}

	// Also try the reverse direction so that a misspelling longer than the
	// intended name still finds it.
	best, score := "", math.MinInt

	for _, c := range candidates {
		if m := fuzzy.Find(c, []string{name}); len(m) > 0 && m[0].Score > score {
			best, score = c, m[0].Score
		}
	}

	return best
}

// cppNumber renders a number as a C++ floating-point literal.
func cppNumber(v float64) string {
	s := formatNumber(v)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}

	return s
}

// cppString renders s as a quoted C++ string literal.
func cppString(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if c < 0x20 || c == 0x7f {
				sb.WriteString(fmt.Sprintf(`\%03o`, c))
			} else {
				sb.WriteByte(c)
			}
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

// rawString renders s as a C++ raw string literal. The delimiter is
// extended with a counter until its closing sequence does not occur in s.
func rawString(s string) string {
	delim := rawStringID

	for n := 0; strings.Contains(s, ")"+delim+`"`); n++ {
		delim = rawStringID + strconv.Itoa(n)
	}

	return `R"` + delim + "(" + s + ")" + delim + `"`
}

// errNoTemplate is reported when generation is requested without a tree.
var errNoTemplate = errors.New("nil template")
