package journal

import "fmt"

// RecorderError is returned when a record could not be enqueued for
// writing, typically because the async buffer is full or the recorder
// is shutting down.
type RecorderError struct {
	RecordID string
	Cause    error
}

func (e *RecorderError) Error() string {
	return fmt.Sprintf("journal recorder error for record %s: %v", e.RecordID, e.Cause)
}

func (e *RecorderError) Unwrap() error {
	return e.Cause
}
