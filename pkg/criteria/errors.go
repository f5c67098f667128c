package criteria

import "fmt"

// Error indicates that a criteria expression could not be parsed or that
// its operands could not be compared. It points at a configuration defect:
// callers are expected to abort rule resolution rather than skip the rule.
type Error struct {
	// Expression is the original expression text.
	Expression string

	// Message describes what went wrong.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("criteria %q: %s: %v", e.Expression, e.Message, e.Cause)
	}
	return fmt.Sprintf("criteria %q: %s", e.Expression, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}
