// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

// Package dsl implements the lexer and parser for the rule language:
// WHEN <condition> THEN <action>. It translates rule text into the
// canonical AST defined by internal/rules/types, performing the parse-time
// validations the language requires (regex compilation, reserved-word
// rejection, SET path shape) before handing a RuleFile to the caller.
package dsl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ruleLexer defines the token types for the rule language. Order matters:
// longer operator patterns must precede shorter ones that share a prefix
// (">=" before ">", "==" before nothing shorter exists here, but the
// principle holds for any future addition).
var ruleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "OpEq", Pattern: `==`},
	{Name: "OpNe", Pattern: `!=`},
	{Name: "OpLe", Pattern: `<=`},
	{Name: "OpGe", Pattern: `>=`},
	{Name: "OpLt", Pattern: `<`},
	{Name: "OpGt", Pattern: `>`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Punct", Pattern: `[()]`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

// --- Grammar AST (private to this package; compiled into types.RuleFile) ---

// program is the top-level production: file := rule*.
type program struct {
	Pos   lexer.Position
	Rules []*rule `parser:"@@*"`
}

// rule is: rule := 'WHEN' expr 'THEN' action.
type rule struct {
	Pos       lexer.Position
	Condition *expr   `parser:"'WHEN' @@"`
	Action    *action `parser:"'THEN' @@"`
}

// expr := or.
type expr struct {
	Pos lexer.Position
	Or  *orExpr `parser:"@@"`
}

// or := and ('OR' and)*.
type orExpr struct {
	Pos  lexer.Position
	Ands []*andExpr `parser:"@@ ('OR' @@)*"`
}

// and := not ('AND' not)*.
type andExpr struct {
	Pos  lexer.Position
	Nots []*notExpr `parser:"@@ ('AND' @@)*"`
}

// not := 'NOT'? primary.
type notExpr struct {
	Pos     lexer.Position
	Negated bool     `parser:"@'NOT'?"`
	Primary *primary `parser:"@@"`
}

// primary := comparison | existence | '(' expr ')'.
//
// Comparison and existence share a FieldPath prefix, so the parser needs
// full backtracking (UseLookahead) to pick the right alternative; see
// NewParser below.
type primary struct {
	Pos        lexer.Position
	Comparison *comparison `parser:"  @@"`
	Existence  *existence  `parser:"| @@"`
	Group      *expr       `parser:"| '(' @@ ')'"`
}

// fieldPath is a dotted identifier chain.
type fieldPath struct {
	Pos      lexer.Position
	Segments []string `parser:"@Ident (Dot @Ident)*"`
}

// comparison := path cmp_op value.
type comparison struct {
	Pos   lexer.Position
	Left  *fieldPath `parser:"@@"`
	Op    string     `parser:"@(OpEq | OpNe | OpLe | OpGe | OpLt | OpGt | 'CONTAINS' | 'MATCHES')"`
	Right *value     `parser:"@@"`
}

// existence := path 'IS' 'NOT'? 'NULL'.
type existence struct {
	Pos     lexer.Position
	Left    *fieldPath `parser:"@@ 'IS'"`
	Negated bool       `parser:"@'NOT'? 'NULL'"`
}

// value is a literal: string, number, bool, or null.
type value struct {
	Pos  lexer.Position
	Str  *string  `parser:"  @String"`
	Num  *float64 `parser:"| @Number"`
	Bool *string  `parser:"| @('true' | 'false')"`
	Null bool     `parser:"| @'null'"`
}

// action := 'SET' path 'TO' value | 'ASSERT' path 'IS' value | 'APPLY' string.
type action struct {
	Pos    lexer.Position
	Set    *setAction    `parser:"  @@"`
	Assert *assertAction `parser:"| @@"`
	Apply  *applyAction  `parser:"| @@"`
}

type setAction struct {
	Pos   lexer.Position
	Path  *fieldPath `parser:"'SET' @@"`
	Value *value     `parser:"'TO' @@"`
}

type assertAction struct {
	Pos      lexer.Position
	Path     *fieldPath `parser:"'ASSERT' @@"`
	Expected *value     `parser:"'IS' @@"`
}

type applyAction struct {
	Pos      lexer.Position
	Template string `parser:"'APPLY' @String"`
}

// NewParser constructs a participle parser for the rule grammar.
// UseLookahead enables full backtracking: comparison and existence both
// start with a FieldPath, so the parser must speculatively try each
// alternative and backtrack when the next token doesn't fit.
func NewParser() (*participle.Parser[program], error) {
	return participle.Build[program](
		participle.Lexer(ruleLexer),
		participle.Unquote("String"),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(participle.MaxLookahead),
	)
}
