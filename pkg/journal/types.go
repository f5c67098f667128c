package journal

import (
	"context"
	"time"
)

// Translation directions recorded in the journal.
const (
	DirectionToXML   = "to_xml"
	DirectionFromXML = "from_xml"
)

// OutcomeOK is the outcome value for a successful translation. Failed
// translations record their error kind instead (e.g. "validation_error").
const OutcomeOK = "ok"

// Record is one journal entry describing a single translation call.
type Record struct {
	// ID is the unique record identifier (UUID).
	ID string `json:"id"`

	// TraceID correlates the record with bridge request logs.
	TraceID string `json:"trace_id"`

	// Direction is the translation direction: "to_xml" or "from_xml".
	Direction string `json:"direction"`

	// Functions lists the logical function names involved.
	Functions []string `json:"functions"`

	// Macros lists the physical macro names involved.
	Macros []string `json:"macros"`

	// Bytes is the macro document size in bytes, zero when the call
	// failed before a document existed.
	Bytes int `json:"bytes"`

	// Duration is how long the translation call took.
	Duration time.Duration `json:"duration"`

	// Outcome is OutcomeOK or the error kind that failed the call.
	Outcome string `json:"outcome"`

	// CreatedAt is when the record was created.
	CreatedAt time.Time `json:"created_at"`
}

// Query filters journal reads. Zero values mean "no filter"; a zero
// Limit falls back to the backend's default.
type Query struct {
	// Limit caps the number of returned records, newest first.
	Limit int

	// TraceID filters to records with this trace id.
	TraceID string

	// Outcome filters to records with this outcome.
	Outcome string
}

// DefaultQueryLimit is used when a Query has no limit.
const DefaultQueryLimit = 100

// Storage is the journal persistence interface. Implementations must be
// safe for concurrent use.
type Storage interface {
	// Write persists one record.
	Write(ctx context.Context, record *Record) error

	// Query returns matching records, newest first.
	Query(ctx context.Context, q Query) ([]*Record, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteOlderThan removes records created before the cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// TrimToCount removes the oldest records beyond max and returns how
	// many were removed.
	TrimToCount(ctx context.Context, max int64) (int64, error)

	// Close releases backend resources.
	Close() error
}
