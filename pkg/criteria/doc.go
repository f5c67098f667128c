// Package criteria provides parsing and evaluation for macro selection
// criteria expressions.
//
// A criteria expression is a single comparison of a named context fact
// against a literal, written as:
//
//	?<FACT><OP><LITERAL>
//
// where OP is one of <=, >=, ==, !=, <, > and LITERAL is either a number
// (integer or decimal) or a 4-component dotted version such as "10.9.0.0".
// The leading "?" is optional.
//
// # Usage
//
// Expressions are parsed once and evaluated against a Context, a mapping
// of fact names to values:
//
//	expr, err := criteria.Parse("?HWSET>=3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok, err := expr.Eval(criteria.Context{"HWSET": 4})
//
// A fact that is absent from the context makes the expression evaluate to
// false without an error; a missing fact fails to match but does not abort
// rule resolution.
//
// # Comparison semantics
//
// When both the context value and the literal parse as 4-component dotted
// versions, components are compared as integers in lexicographic order
// (major, then minor, then patch, then build). Otherwise both sides must
// parse as numbers and are compared numerically. Anything else is reported
// as a *criteria.Error.
package criteria
