package bridge

import (
	"encoding/json"
	"errors"
	"net/http"

	"testlab-hq/macrolink/pkg/criteria"
	"testlab-hq/macrolink/pkg/macromap"
	"testlab-hq/macrolink/pkg/translator"
)

// errorResponse is the JSON error body returned by all endpoints.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	// Kind classifies the failure: "unknown_name", "validation_error",
	// "criteria_error", "format_error", "config_error", "bad_request"
	// or "internal".
	Kind string `json:"kind"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// TraceID correlates the error with logs and journal records.
	TraceID string `json:"trace_id,omitempty"`
}

// classifyError maps a translation error to an error kind and HTTP
// status code. Client-side data problems map to 4xx, document problems
// to 500.
func classifyError(err error) (kind string, status int) {
	var unknownName *macromap.UnknownNameError
	var validation *translator.ValidationError
	var criteriaErr *criteria.Error
	var format *translator.FormatError
	var configErr *macromap.ConfigError

	switch {
	case errors.As(err, &unknownName):
		return "unknown_name", http.StatusUnprocessableEntity
	case errors.As(err, &validation):
		return "validation_error", http.StatusUnprocessableEntity
	case errors.As(err, &criteriaErr):
		return "criteria_error", http.StatusUnprocessableEntity
	case errors.As(err, &format):
		return "format_error", http.StatusBadRequest
	case errors.As(err, &configErr):
		return "config_error", http.StatusInternalServerError
	default:
		return "internal", http.StatusInternalServerError
	}
}

// writeError writes the JSON error body for err using classifyError.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind, status := classifyError(err)
	writeErrorKind(w, r, kind, err.Error(), status)
}

// writeErrorKind writes a JSON error body with an explicit kind and
// status.
func writeErrorKind(w http.ResponseWriter, r *http.Request, kind, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorDetail{
			Kind:    kind,
			Message: message,
			TraceID: GetTraceID(r.Context()),
		},
	})
}
