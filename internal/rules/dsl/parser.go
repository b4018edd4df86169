// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Bede Carroll

package dsl

import (
	"fmt"
	"regexp"

	"github.com/alecthomas/participle/v2"

	"github.com/bedecarroll/unet-sub001/internal/rules/types"
)

// reservedWords are keywords that must not appear as field-path segments.
// Matching is case-sensitive, mirroring the grammar's case-sensitive
// keyword set.
var reservedWords = map[string]bool{
	"WHEN": true, "THEN": true, "SET": true, "TO": true,
	"ASSERT": true, "IS": true, "APPLY": true,
	"AND": true, "OR": true, "NOT": true, "NULL": true,
	"CONTAINS": true, "MATCHES": true,
	"true": true, "false": true, "null": true,
}

// IsReservedWord reports whether word is a rule-language keyword.
func IsReservedWord(word string) bool {
	return reservedWords[word]
}

// ParseErrorKind classifies a ParseError per the documented error kinds.
type ParseErrorKind string

// Parse error kinds.
const (
	KindUnexpectedToken ParseErrorKind = "unexpected_token"
	KindBadRegex        ParseErrorKind = "bad_regex"
	KindBadSetPath      ParseErrorKind = "bad_set_path"
)

// ParseError is the only error kind the parser surfaces. Line and Column
// are 1-based positions of the offending token.
type ParseError struct {
	Kind    ParseErrorKind
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// parser is the singleton participle parser instance; building it is not
// cheap and the grammar never varies at runtime.
var parser *participle.Parser[program]

func init() {
	var err error
	parser, err = NewParser()
	if err != nil {
		panic(fmt.Sprintf("failed to build rule parser: %v", err))
	}
}

// Parse parses rule text with an empty origin identifier. Use ParseNamed
// when the caller wants RuleFile.OriginID populated (conventionally a
// file basename used to label violations).
func Parse(text string) (*types.RuleFile, error) {
	return ParseNamed(text, "")
}

// ParseNamed parses text into a RuleFile, failing fast on the first
// unrecoverable syntax error. Parsing is pure and deterministic: no I/O,
// no shared mutable state beyond the read-only singleton parser.
func ParseNamed(text, originID string) (*types.RuleFile, error) {
	prog, err := parser.ParseString("", text)
	if err != nil {
		return nil, translateParseError(err)
	}
	return compileProgram(prog, originID)
}

// translateParseError converts a participle failure into a ParseError with
// 1-based line/column, per the documented diagnostic contract.
func translateParseError(err error) error {
	var perr participle.Error
	if ok := asParticipleError(err, &perr); ok {
		pos := perr.Position()
		return &ParseError{
			Kind:    KindUnexpectedToken,
			Line:    pos.Line,
			Column:  pos.Column,
			Message: perr.Message(),
		}
	}
	return &ParseError{Kind: KindUnexpectedToken, Line: 1, Column: 1, Message: err.Error()}
}

func asParticipleError(err error, target *participle.Error) bool {
	if pe, ok := err.(participle.Error); ok {
		*target = pe
		return true
	}
	return false
}

// --- program -> types.RuleFile compilation ---

func compileProgram(p *program, originID string) (*types.RuleFile, error) {
	rules := make([]*types.Rule, 0, len(p.Rules))
	for _, r := range p.Rules {
		cond, err := compileExpr(r.Condition)
		if err != nil {
			return nil, err
		}
		act, err := compileAction(r.Action)
		if err != nil {
			return nil, err
		}
		rules = append(rules, &types.Rule{
			Condition: cond,
			Action:    act,
			Line:      r.Pos.Line,
			Column:    r.Pos.Column,
		})
	}
	return &types.RuleFile{OriginID: originID, Rules: rules}, nil
}

func compileExpr(e *expr) (*types.Expr, error) {
	return compileOr(e.Or)
}

func compileOr(o *orExpr) (*types.Expr, error) {
	result, err := compileAnd(o.Ands[0])
	if err != nil {
		return nil, err
	}
	for _, a := range o.Ands[1:] {
		right, err := compileAnd(a)
		if err != nil {
			return nil, err
		}
		result = &types.Expr{Or: &types.LogicalExpr{Left: result, Right: right}}
	}
	return result, nil
}

func compileAnd(a *andExpr) (*types.Expr, error) {
	result, err := compileNot(a.Nots[0])
	if err != nil {
		return nil, err
	}
	for _, n := range a.Nots[1:] {
		right, err := compileNot(n)
		if err != nil {
			return nil, err
		}
		result = &types.Expr{And: &types.LogicalExpr{Left: result, Right: right}}
	}
	return result, nil
}

func compileNot(n *notExpr) (*types.Expr, error) {
	p, err := compilePrimary(n.Primary)
	if err != nil {
		return nil, err
	}
	if n.Negated {
		return &types.Expr{Not: p}, nil
	}
	return p, nil
}

func compilePrimary(p *primary) (*types.Expr, error) {
	switch {
	case p.Comparison != nil:
		cmp, err := compileComparison(p.Comparison)
		if err != nil {
			return nil, err
		}
		return &types.Expr{Comparison: cmp}, nil
	case p.Existence != nil:
		exist, err := compileExistence(p.Existence)
		if err != nil {
			return nil, err
		}
		return &types.Expr{Existence: exist}, nil
	case p.Group != nil:
		return compileExpr(p.Group)
	default:
		return nil, &ParseError{Kind: KindUnexpectedToken, Line: p.Pos.Line, Column: p.Pos.Column, Message: "empty primary expression"}
	}
}

func compileFieldPath(fp *fieldPath) (types.FieldPath, error) {
	for _, seg := range fp.Segments {
		if IsReservedWord(seg) {
			return nil, &ParseError{
				Kind:    KindUnexpectedToken,
				Line:    fp.Pos.Line,
				Column:  fp.Pos.Column,
				Message: fmt.Sprintf("reserved word %q cannot be used as a field segment", seg),
			}
		}
	}
	return types.FieldPath(fp.Segments), nil
}

func compileValue(v *value) types.Value {
	switch {
	case v.Str != nil:
		return types.StringValue(*v.Str)
	case v.Num != nil:
		return types.NumberValue(*v.Num)
	case v.Bool != nil:
		return types.BoolValue(*v.Bool == "true")
	default:
		return types.NullValue()
	}
}

func compileComparison(c *comparison) (*types.Comparison, error) {
	left, err := compileFieldPath(c.Left)
	if err != nil {
		return nil, err
	}
	op := types.CmpOp(c.Op)

	if op == types.OpMatches {
		if c.Right.Str == nil {
			return nil, &ParseError{
				Kind:    KindBadRegex,
				Line:    c.Right.Pos.Line,
				Column:  c.Right.Pos.Column,
				Message: "MATCHES requires a string literal pattern",
			}
		}
		re, err := regexp.Compile(*c.Right.Str)
		if err != nil {
			return nil, &ParseError{
				Kind:    KindBadRegex,
				Line:    c.Right.Pos.Line,
				Column:  c.Right.Pos.Column,
				Message: fmt.Sprintf("bad regex %q: %v", *c.Right.Str, err),
			}
		}
		return &types.Comparison{Left: left, Op: op, Right: types.RegexValue(re)}, nil
	}

	return &types.Comparison{Left: left, Op: op, Right: compileValue(c.Right)}, nil
}

func compileExistence(e *existence) (*types.ExistenceCheck, error) {
	left, err := compileFieldPath(e.Left)
	if err != nil {
		return nil, err
	}
	polarity := types.IsNull
	if e.Negated {
		polarity = types.IsNotNull
	}
	return &types.ExistenceCheck{Left: left, Polarity: polarity}, nil
}

func compileAction(a *action) (*types.Action, error) {
	switch {
	case a.Set != nil:
		path, err := compileFieldPath(a.Set.Path)
		if err != nil {
			return nil, err
		}
		if !path.HasPrefix("custom_data") {
			return nil, &ParseError{
				Kind:    KindBadSetPath,
				Line:    a.Set.Pos.Line,
				Column:  a.Set.Pos.Column,
				Message: fmt.Sprintf("SET path %q must begin with custom_data", path.String()),
			}
		}
		return &types.Action{Set: &types.SetAction{Path: path, Value: compileValue(a.Set.Value)}}, nil

	case a.Assert != nil:
		path, err := compileFieldPath(a.Assert.Path)
		if err != nil {
			return nil, err
		}
		return &types.Action{Assert: &types.AssertAction{Path: path, Expected: compileValue(a.Assert.Expected)}}, nil

	case a.Apply != nil:
		return &types.Action{Apply: &types.ApplyAction{Template: a.Apply.Template}}, nil

	default:
		return nil, &ParseError{Kind: KindUnexpectedToken, Line: a.Pos.Line, Column: a.Pos.Column, Message: "empty action"}
	}
}
