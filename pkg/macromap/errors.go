package macromap

import "fmt"

// ConfigError indicates that a rule or alias document is structurally
// invalid or violates the bijection invariant. It is raised at load time
// and is fatal to that load; a Manager keeps serving the previous
// generation when a reload fails this way.
type ConfigError struct {
	// Document names the offending document ("rules" or "aliases").
	Document string

	// Section is the family or function entry the error occurred in,
	// empty for document-level problems.
	Section string

	// Message describes the defect.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s document: %s", e.Document, e.Message)
	if e.Section != "" {
		msg = fmt.Sprintf("%s document: entry %q: %s", e.Document, e.Section, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// UnknownNameError indicates that a function, macro or parameter name has
// no entry in the alias map. It is raised during translation and is fatal
// to that specific call.
type UnknownNameError struct {
	// Kind names the namespace the lookup failed in: "function", "macro"
	// or "parameter".
	Kind string

	// Name is the unmapped name.
	Name string

	// Scope is the enclosing function or macro for parameter lookups,
	// empty otherwise.
	Scope string
}

// Error returns the error message.
func (e *UnknownNameError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("unknown %s %q in %q", e.Kind, e.Name, e.Scope)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}
