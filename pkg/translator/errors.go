package translator

import "fmt"

// ValidationError indicates that a structural check rule was violated
// during serialization. The whole Marshal call fails; no partial document
// is returned.
type ValidationError struct {
	// Function is the logical function the offending parameter belongs to.
	Function string

	// Param is the logical name of the offending parameter.
	Param string

	// Message describes the violated constraint.
	Message string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s.%s: %s", e.Function, e.Param, e.Message)
}

// FormatError indicates that input bytes could not be decoded or parsed
// as a macro document. It is distinct from an unknown-name lookup failure:
// a well-formed document naming an unmapped macro is not a FormatError.
type FormatError struct {
	// Message describes what could not be parsed.
	Message string

	// Cause is the underlying decode or XML error, if any.
	Cause error
}

// Error returns the error message.
func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed macro document: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed macro document: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *FormatError) Unwrap() error {
	return e.Cause
}
