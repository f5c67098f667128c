// Package bridge provides the HTTP bridge server that exposes the
// macro translation engine to station software over a small JSON/XML
// API.
//
// # Endpoints
//
//   - POST /v1/translate: logical parameters to a UTF-16 macro document
//   - POST /v1/parse: a UTF-16 macro document to logical parameters
//   - POST /v1/resolve: one macro family to its selected variant
//   - POST /v1/reload: force a reload of the translation documents
//   - GET /v1/journal: query recent translation journal records
//   - GET /healthz: liveness probe
//   - GET /readyz: readiness probe (documents loaded)
//   - GET /metrics: Prometheus metrics (configurable path)
//
// # Request correlation
//
// Every request carries a trace id, taken from the X-Trace-Id header
// when the client provides one and generated otherwise. The trace id is
// echoed in the response header, attached to log records and stored in
// journal entries.
package bridge
