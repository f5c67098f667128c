package criteria

import (
	"fmt"
	"strconv"
	"strings"
)

// Context maps fact names (hardware/firmware attributes such as "HWSET" or
// "FWVERSION") to their values. Values are either numeric (any Go integer or
// float type) or strings holding a number or a 4-component dotted version.
// A Context is immutable for the duration of a translation call.
type Context map[string]any

// Operator is a comparison operator in a criteria expression.
type Operator string

// Comparison operators, in match order. Two-character operators are matched
// before single-character ones so that "<=" is never read as "<".
const (
	OperatorLessEqual    Operator = "<="
	OperatorGreaterEqual Operator = ">="
	OperatorEqual        Operator = "=="
	OperatorNotEqual     Operator = "!="
	OperatorLess         Operator = "<"
	OperatorGreater      Operator = ">"
)

// operandKind discriminates the two comparable literal forms.
type operandKind int

const (
	operandNumber operandKind = iota
	operandVersion
)

// operand is a parsed comparison operand: either a number or a 4-component
// version tuple.
type operand struct {
	kind    operandKind
	number  float64
	version [4]int
}

// Expr is a parsed criteria expression. An Expr is immutable and safe for
// concurrent evaluation.
type Expr struct {
	// Fact is the context fact name the expression tests.
	Fact string

	// Op is the comparison operator.
	Op Operator

	// Literal is the right-hand side as written in the expression.
	Literal string

	raw     string
	literal operand
}

// Parse parses a criteria expression of the form ?<FACT><OP><LITERAL>.
// The leading "?" is optional. It returns a *Error if the expression has no
// operator, an empty fact name, or a literal that is neither a number nor a
// 4-component dotted version.
func Parse(expression string) (*Expr, error) {
	body := strings.TrimSpace(expression)
	body = strings.TrimPrefix(body, "?")

	fact, op, literal, ok := splitExpression(body)
	if !ok {
		return nil, &Error{Expression: expression, Message: "no comparison operator found"}
	}

	fact = strings.TrimSpace(fact)
	if fact == "" {
		return nil, &Error{Expression: expression, Message: "empty fact name"}
	}

	literal = strings.TrimSpace(literal)
	if literal == "" {
		return nil, &Error{Expression: expression, Message: "empty literal"}
	}

	lit, err := parseOperand(literal)
	if err != nil {
		return nil, &Error{Expression: expression, Message: "invalid literal", Cause: err}
	}

	return &Expr{
		Fact:    fact,
		Op:      op,
		Literal: literal,
		raw:     expression,
		literal: lit,
	}, nil
}

// splitExpression finds the earliest operator occurrence and splits the
// expression around it. At equal positions the two-character token wins.
func splitExpression(s string) (fact string, op Operator, literal string, ok bool) {
	for i := 0; i < len(s); i++ {
		if i+1 < len(s) {
			switch two := Operator(s[i : i+2]); two {
			case OperatorLessEqual, OperatorGreaterEqual, OperatorEqual, OperatorNotEqual:
				return s[:i], two, s[i+2:], true
			}
		}
		switch one := Operator(s[i : i+1]); one {
		case OperatorLess, OperatorGreater:
			return s[:i], one, s[i+1:], true
		}
	}
	return "", "", "", false
}

// Eval evaluates the expression against a context. A fact absent from the
// context evaluates to false without an error. A context value that can be
// compared with the literal neither as a version tuple nor as a number is
// reported as a *Error.
func (e *Expr) Eval(ctx Context) (bool, error) {
	raw, present := ctx[e.Fact]
	if !present {
		return false, nil
	}

	actual, err := contextOperand(raw)
	if err != nil {
		return false, &Error{
			Expression: e.raw,
			Message:    fmt.Sprintf("fact %q has uncomparable value", e.Fact),
			Cause:      err,
		}
	}

	// Version comparison applies only when both sides are versions.
	// A version on one side and a number on the other cannot be ordered.
	var cmp int
	switch {
	case actual.kind == operandVersion && e.literal.kind == operandVersion:
		cmp = compareVersions(actual.version, e.literal.version)
	case actual.kind == operandNumber && e.literal.kind == operandNumber:
		cmp = compareNumbers(actual.number, e.literal.number)
	default:
		return false, &Error{
			Expression: e.raw,
			Message:    fmt.Sprintf("cannot compare fact %q: version and number operands are incompatible", e.Fact),
		}
	}

	return applyOperator(e.Op, cmp), nil
}

// Evaluate parses and evaluates an expression in one step.
func Evaluate(expression string, ctx Context) (bool, error) {
	expr, err := Parse(expression)
	if err != nil {
		return false, err
	}
	return expr.Eval(ctx)
}

// applyOperator maps a three-way comparison result onto an operator.
func applyOperator(op Operator, cmp int) bool {
	switch op {
	case OperatorLessEqual:
		return cmp <= 0
	case OperatorGreaterEqual:
		return cmp >= 0
	case OperatorEqual:
		return cmp == 0
	case OperatorNotEqual:
		return cmp != 0
	case OperatorLess:
		return cmp < 0
	case OperatorGreater:
		return cmp > 0
	default:
		return false
	}
}

// parseOperand parses a literal string as a version tuple or a number.
func parseOperand(s string) (operand, error) {
	if v, ok := parseVersion(s); ok {
		return operand{kind: operandVersion, version: v}, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return operand{}, fmt.Errorf("%q is neither a number nor a 4-component version", s)
	}
	return operand{kind: operandNumber, number: n}, nil
}

// contextOperand converts a context value into a comparable operand.
func contextOperand(v any) (operand, error) {
	switch val := v.(type) {
	case string:
		return parseOperand(val)
	case float64:
		return operand{kind: operandNumber, number: val}, nil
	case float32:
		return operand{kind: operandNumber, number: float64(val)}, nil
	case int:
		return operand{kind: operandNumber, number: float64(val)}, nil
	case int8:
		return operand{kind: operandNumber, number: float64(val)}, nil
	case int16:
		return operand{kind: operandNumber, number: float64(val)}, nil
	case int32:
		return operand{kind: operandNumber, number: float64(val)}, nil
	case int64:
		return operand{kind: operandNumber, number: float64(val)}, nil
	case uint:
		return operand{kind: operandNumber, number: float64(val)}, nil
	case uint8:
		return operand{kind: operandNumber, number: float64(val)}, nil
	case uint16:
		return operand{kind: operandNumber, number: float64(val)}, nil
	case uint32:
		return operand{kind: operandNumber, number: float64(val)}, nil
	case uint64:
		return operand{kind: operandNumber, number: float64(val)}, nil
	default:
		return operand{}, fmt.Errorf("cannot compare value of type %T", v)
	}
}

// parseVersion parses a 4-component dotted version ("10.9.0.0") into an
// integer tuple. All four components must be base-10 integers.
func parseVersion(s string) ([4]int, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return [4]int{}, false
	}
	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return [4]int{}, false
		}
		v[i] = n
	}
	return v, true
}

// compareVersions compares version tuples component-wise in lexicographic
// order: major, then minor, then patch, then build.
func compareVersions(a, b [4]int) int {
	for i := 0; i < 4; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func compareNumbers(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
