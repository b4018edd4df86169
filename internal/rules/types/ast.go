// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package types

import "strings"

// CmpOp identifies the operator of a Comparison.
type CmpOp string

// Comparison operators recognized by the grammar.
const (
	OpEq       CmpOp = "=="
	OpNe       CmpOp = "!="
	OpLt       CmpOp = "<"
	OpLe       CmpOp = "<="
	OpGt       CmpOp = ">"
	OpGe       CmpOp = ">="
	OpContains CmpOp = "CONTAINS"
	OpMatches  CmpOp = "MATCHES"
)

// Comparison is `left op right`, e.g. `vendor == "juniper"`.
type Comparison struct {
	Left  FieldPath
	Op    CmpOp
	Right Value
}

// ExistencePolarity identifies which side of IS [NOT] NULL a check asserts.
type ExistencePolarity int

// Existence polarities.
const (
	IsNull ExistencePolarity = iota
	IsNotNull
)

// ExistenceCheck is `path IS [NOT] NULL`.
type ExistenceCheck struct {
	Left     FieldPath
	Polarity ExistencePolarity
}

// Expr is the algebraic sum of condition forms: exactly one field is
// non-nil. And/Or/Not nodes nest recursively; Group is elided because the
// nested structure alone preserves associativity.
type Expr struct {
	Comparison *Comparison
	Existence  *ExistenceCheck
	And        *LogicalExpr
	Or         *LogicalExpr
	Not        *Expr
}

// LogicalExpr holds the two operands of an And or Or node.
type LogicalExpr struct {
	Left  *Expr
	Right *Expr
}

// SetAction writes Value at Path in the delta. Path must begin with
// "custom_data"; this is enforced at parse time.
type SetAction struct {
	Path  FieldPath
	Value Value
}

// AssertAction checks that Path resolves to Expected in the effective
// context, recording a Violation when it does not.
type AssertAction struct {
	Path     FieldPath
	Expected Value
}

// ApplyAction records Template as an applied template identifier.
type ApplyAction struct {
	Template string
}

// Action is the algebraic sum of action kinds: exactly one field is non-nil.
type Action struct {
	Set    *SetAction
	Assert *AssertAction
	Apply  *ApplyAction
}

// Rule is `WHEN condition THEN action`, annotated with the source location
// of the WHEN keyword for diagnostics.
type Rule struct {
	Condition *Expr
	Action    *Action
	Line      int
	Column    int
}

// RuleFile is an ordered sequence of Rules plus a stable origin identifier
// supplied by the caller (conventionally a file basename), used to label
// Violations. File-level application order is the order of the slice
// passed to the evaluator, not OriginID.
type RuleFile struct {
	OriginID string
	Rules    []*Rule
}

// String renders e in a form close to the DSL's surface syntax, for
// diagnostics. Literals use Value.ToDisplayString, so strings and regex
// patterns appear unquoted and null appears empty; the output is not
// guaranteed to parse back into the same AST.
func (e *Expr) String() string {
	if e == nil {
		return "<empty>"
	}
	switch {
	case e.Comparison != nil:
		return e.Comparison.Left.String() + " " + string(e.Comparison.Op) + " " + e.Comparison.Right.ToDisplayString()
	case e.Existence != nil:
		if e.Existence.Polarity == IsNotNull {
			return e.Existence.Left.String() + " IS NOT NULL"
		}
		return e.Existence.Left.String() + " IS NULL"
	case e.And != nil:
		return "(" + e.And.Left.String() + " AND " + e.And.Right.String() + ")"
	case e.Or != nil:
		return "(" + e.Or.Left.String() + " OR " + e.Or.Right.String() + ")"
	case e.Not != nil:
		return "NOT " + e.Not.String()
	default:
		return "<empty>"
	}
}

// String renders a in DSL-like form; SET and ASSERT values are rendered
// unquoted, only the APPLY template is quoted.
func (a *Action) String() string {
	if a == nil {
		return "<empty>"
	}
	switch {
	case a.Set != nil:
		return "SET " + a.Set.Path.String() + " TO " + a.Set.Value.ToDisplayString()
	case a.Assert != nil:
		return "ASSERT " + a.Assert.Path.String() + " IS " + a.Assert.Expected.ToDisplayString()
	case a.Apply != nil:
		return `APPLY "` + a.Apply.Template + `"`
	default:
		return "<empty>"
	}
}

// String renders r as `WHEN condition THEN action`.
func (r *Rule) String() string {
	return "WHEN " + r.Condition.String() + " THEN " + r.Action.String()
}

// String renders f as one rule per line.
func (f *RuleFile) String() string {
	var b strings.Builder
	for i, r := range f.Rules {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.String())
	}
	return b.String()
}
