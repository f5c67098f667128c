package criteria

import (
	"errors"
	"testing"
)

// TestParse_Expressions tests expression splitting and literal parsing.
func TestParse_Expressions(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantFact    string
		wantOp      Operator
		wantLiteral string
		wantErr     bool
	}{
		{
			name:        "greater equal with question mark",
			expression:  "?HWSET>=3",
			wantFact:    "HWSET",
			wantOp:      OperatorGreaterEqual,
			wantLiteral: "3",
		},
		{
			name:        "less equal",
			expression:  "?HWSET<=2",
			wantFact:    "HWSET",
			wantOp:      OperatorLessEqual,
			wantLiteral: "2",
		},
		{
			name:        "equal",
			expression:  "?BOARDREV==7",
			wantFact:    "BOARDREV",
			wantOp:      OperatorEqual,
			wantLiteral: "7",
		},
		{
			name:        "not equal",
			expression:  "?BOARDREV!=0",
			wantFact:    "BOARDREV",
			wantOp:      OperatorNotEqual,
			wantLiteral: "0",
		},
		{
			name:        "less than",
			expression:  "?HWSET<4",
			wantFact:    "HWSET",
			wantOp:      OperatorLess,
			wantLiteral: "4",
		},
		{
			name:        "greater than without question mark",
			expression:  "HWSET>1",
			wantFact:    "HWSET",
			wantOp:      OperatorGreater,
			wantLiteral: "1",
		},
		{
			name:        "version literal",
			expression:  "?FWVERSION>=10.9.0.0",
			wantFact:    "FWVERSION",
			wantOp:      OperatorGreaterEqual,
			wantLiteral: "10.9.0.0",
		},
		{
			name:        "decimal literal",
			expression:  "?VOLT>2.5",
			wantFact:    "VOLT",
			wantOp:      OperatorGreater,
			wantLiteral: "2.5",
		},
		{
			name:        "surrounding whitespace",
			expression:  "  ?HWSET >= 3  ",
			wantFact:    "HWSET",
			wantOp:      OperatorGreaterEqual,
			wantLiteral: "3",
		},
		{
			name:       "no operator",
			expression: "?HWSET",
			wantErr:    true,
		},
		{
			name:       "empty fact",
			expression: "?>=3",
			wantErr:    true,
		},
		{
			name:       "empty literal",
			expression: "?HWSET>=",
			wantErr:    true,
		},
		{
			name:       "non-numeric literal",
			expression: "?HWSET==abc",
			wantErr:    true,
		},
		{
			name:       "three-component version literal",
			expression: "?FWVERSION==10.9.0",
			wantErr:    true,
		},
		{
			name:       "empty expression",
			expression: "",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.expression)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %+v, want error", tt.expression, expr)
				}
				var cerr *Error
				if !errors.As(err, &cerr) {
					t.Errorf("Parse(%q) error is %T, want *criteria.Error", tt.expression, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.expression, err)
			}
			if expr.Fact != tt.wantFact {
				t.Errorf("fact = %q, want %q", expr.Fact, tt.wantFact)
			}
			if expr.Op != tt.wantOp {
				t.Errorf("operator = %q, want %q", expr.Op, tt.wantOp)
			}
			if expr.Literal != tt.wantLiteral {
				t.Errorf("literal = %q, want %q", expr.Literal, tt.wantLiteral)
			}
		})
	}
}

// TestParse_TwoCharOperatorPrecedence verifies that "<=" is never read as "<".
func TestParse_TwoCharOperatorPrecedence(t *testing.T) {
	expr, err := Parse("?HWSET<=3")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if expr.Op != OperatorLessEqual {
		t.Errorf("operator = %q, want %q", expr.Op, OperatorLessEqual)
	}
	if expr.Literal != "3" {
		t.Errorf("literal = %q, want %q", expr.Literal, "3")
	}
}

// TestEval_Numeric tests numeric comparisons over all operators.
func TestEval_Numeric(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		ctx        Context
		want       bool
	}{
		{"int greater equal true", "?HWSET>=3", Context{"HWSET": 3}, true},
		{"int greater equal false", "?HWSET>=3", Context{"HWSET": 2}, false},
		{"int less true", "?HWSET<3", Context{"HWSET": 2}, true},
		{"int less false", "?HWSET<3", Context{"HWSET": 3}, false},
		{"int equal", "?HWSET==3", Context{"HWSET": 3}, true},
		{"int not equal", "?HWSET!=3", Context{"HWSET": 4}, true},
		{"float context value", "?VOLT>2.5", Context{"VOLT": 3.3}, true},
		{"numeric string context value", "?HWSET>=3", Context{"HWSET": "4"}, true},
		{"int64 context value", "?HWSET<=3", Context{"HWSET": int64(3)}, true},
		{"decimal literal against int", "?HWSET>2.5", Context{"HWSET": 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expression, tt.ctx)
			if err != nil {
				t.Fatalf("Evaluate(%q) returned error: %v", tt.expression, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q, %v) = %v, want %v", tt.expression, tt.ctx, got, tt.want)
			}
		})
	}
}

// TestEval_Versions tests component-wise version comparison against every
// operator, including the carry cases plain string comparison would get wrong.
func TestEval_Versions(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		value      string
		want       bool
	}{
		{"equal versions", "?FW==10.9.0.0", "10.9.0.0", true},
		{"unequal build component", "?FW!=10.9.0.0", "10.9.0.1", true},
		{"greater by minor", "?FW>10.9.0.0", "10.10.0.0", true},
		{"less by major", "?FW<10.9.0.0", "9.99.99.99", true},
		{"two-digit beats one-digit component", "?FW>=2.0.0.0", "10.0.0.0", true},
		{"greater equal at boundary", "?FW>=10.9.0.0", "10.9.0.0", true},
		{"less equal false", "?FW<=10.9.0.0", "10.9.1.0", false},
		{"build component decides", "?FW>10.9.0.0", "10.9.0.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expression, Context{"FW": tt.value})
			if err != nil {
				t.Fatalf("Evaluate returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q, FW=%q) = %v, want %v", tt.expression, tt.value, got, tt.want)
			}
		})
	}
}

// TestEval_MissingFact verifies that an absent fact means "no match", not an error.
func TestEval_MissingFact(t *testing.T) {
	got, err := Evaluate("?HWSET>=3", Context{})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if got {
		t.Error("Evaluate with missing fact = true, want false")
	}
}

// TestEval_IncomparableOperands verifies that mixed version/number operands
// and unparseable context values produce a *criteria.Error.
func TestEval_IncomparableOperands(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		ctx        Context
	}{
		{"version fact against number literal", "?FW>=3", Context{"FW": "10.9.0.0"}},
		{"number fact against version literal", "?FW>=10.9.0.0", Context{"FW": 3}},
		{"non-numeric string fact", "?HWSET>=3", Context{"HWSET": "rev-b"}},
		{"unsupported fact type", "?HWSET>=3", Context{"HWSET": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.expression, tt.ctx)
			if err == nil {
				t.Fatal("Evaluate returned nil error, want *criteria.Error")
			}
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Errorf("error is %T, want *criteria.Error", err)
			}
		})
	}
}

// TestEval_Deterministic verifies evaluation has no side effects across calls.
func TestEval_Deterministic(t *testing.T) {
	expr, err := Parse("?HWSET>=3")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	ctx := Context{"HWSET": 5}
	for i := 0; i < 100; i++ {
		got, err := expr.Eval(ctx)
		if err != nil {
			t.Fatalf("Eval returned error on iteration %d: %v", i, err)
		}
		if !got {
			t.Fatalf("Eval = false on iteration %d, want true", i)
		}
	}
}

func BenchmarkEval_Numeric(b *testing.B) {
	expr, err := Parse("?HWSET>=3")
	if err != nil {
		b.Fatal(err)
	}
	ctx := Context{"HWSET": 5}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := expr.Eval(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEval_Version(b *testing.B) {
	expr, err := Parse("?FW>=10.9.0.0")
	if err != nil {
		b.Fatal(err)
	}
	ctx := Context{"FW": "10.10.0.0"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := expr.Eval(ctx); err != nil {
			b.Fatal(err)
		}
	}
}
