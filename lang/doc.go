// Package lang compiles templates into C++ rendering procedures.
//
// A template is text interleaved with code blocks and interpolation blocks:
//
//	{% macro greet(name, punct = "!") %}Hello, {{ name }}{{ punct }}{% endmacro %}
//	{% for user in users if user.active %}
//	{{ greet(user.name) }}
//	{% endfor %}
//
// [Compile] runs the pipeline: the source is tokenized by package lexer,
// parsed into a [Template], type-checked by [Validate], optionally folded by
// [Fold], and emitted by [Generate] as a C++ compilation unit. The unit holds
// one function template per macro inside namespace macros and a top-level
// function template render_template whose parameters are the free
// identifiers of the body, ordered by name:
//
//	template<typename OS, typename N0>
//	void render_template(OS &o, N0 vsym_users) { ... }
//
// # Grammar
//
// Informal EBNF:
//
//	Template   → (Stmt | Macro)* EOF
//	Macro      → '{% macro' Ident '(' [Arg (',' Arg)*] ')' Stmt* '{% endmacro'
//	Arg        → Ident ['=' Expr]
//	Stmt       → Content | If | For | Set | Output | Call
//	If         → '{% if' Expr Stmt* ('{% elif' Expr Stmt*)* ['{% else' Stmt*] '{% endif'
//	For        → '{% for' Ident 'in' Expr ['if' Expr] Stmt* '{% endfor'
//	Set        → '{% set' Ident '=' Expr Stmt*
//	Output     → '{{' Expr '}}'
//	Call       → '{{' Ident '(' [Expr (',' Expr)*] ')' '}}'
//
// A set statement has no closing keyword: its body is the remainder of the
// enclosing statement sequence.
//
// # Types
//
// Every expression has a static [Type]. Identifiers are [TypeDeferred]: their
// real type is only known when the generated procedure is instantiated, so a
// deferred value satisfies every type requirement.
//
// # Scoping
//
// Loop variables, set targets and macro arguments bind names for the extent
// of their body. Bindings nest: an inner binding of a name shadows an outer
// one, and the outer one is visible again afterward. Macros see only their
// own arguments; any other name referenced in a macro body is reported as a
// [Warning].
package lang
