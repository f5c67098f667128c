package bridge

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"testlab-hq/macrolink/pkg/criteria"
	"testlab-hq/macrolink/pkg/journal"
	"testlab-hq/macrolink/pkg/macromap"
	"testlab-hq/macrolink/pkg/selector"
	"testlab-hq/macrolink/pkg/telemetry/metrics"
	"testlab-hq/macrolink/pkg/translator"
)

// maxBodyBytes caps request body size for all endpoints.
const maxBodyBytes = 8 << 20 // 8 MB

// xmlContentType is the content type of marshalled macro documents.
const xmlContentType = "application/xml; charset=utf-16"

// Handlers holds the endpoint handlers and their shared dependencies.
type Handlers struct {
	manager  *macromap.Manager
	storage  journal.Storage
	recorder *journal.Recorder
	metrics  *metrics.TranslationMetrics
	logger   *slog.Logger
}

// NewHandlers creates the endpoint handlers. storage, recorder and
// metrics may be nil; the corresponding features are then disabled.
func NewHandlers(manager *macromap.Manager, storage journal.Storage, recorder *journal.Recorder, tm *metrics.TranslationMetrics, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		manager:  manager,
		storage:  storage,
		recorder: recorder,
		metrics:  tm,
		logger:   logger,
	}
}

// translateRequest is the JSON body of POST /v1/translate.
type translateRequest struct {
	// Params maps functions to their logical parameters, in order.
	Params *translator.ParamSet `json:"params"`

	// Context holds the station facts used by selection criteria.
	Context criteria.Context `json:"context"`
}

// parseResponse is the JSON body of POST /v1/parse responses.
type parseResponse struct {
	Params *translator.ParamSet `json:"params"`
}

// resolveRequest is the JSON body of POST /v1/resolve.
type resolveRequest struct {
	Family  string           `json:"family"`
	Context criteria.Context `json:"context"`
}

// resolveResponse is the JSON body of POST /v1/resolve responses.
type resolveResponse struct {
	Family string `json:"family"`
	Macro  string `json:"macro"`
}

// Translate handles POST /v1/translate: logical parameters in, a UTF-16
// macro document out.
func (h *Handlers) Translate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorKind(w, r, "bad_request", "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req translateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorKind(w, r, "bad_request", "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Params == nil {
		req.Params = translator.NewParamSet()
	}

	gen, err := h.manager.Current()
	if err != nil {
		writeError(w, r, err)
		return
	}

	start := time.Now()
	doc, err := translator.NewForGeneration(gen, h.logger).Marshal(req.Params, req.Context)
	duration := time.Since(start)

	if err != nil {
		h.observe(r, journal.DirectionToXML, req.Params, nil, 0, duration, err)
		writeError(w, r, err)
		return
	}

	h.observe(r, journal.DirectionToXML, req.Params, gen, len(doc), duration, nil)

	w.Header().Set("Content-Type", xmlContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// Parse handles POST /v1/parse: a UTF-16 macro document in, logical
// parameters out.
func (h *Handlers) Parse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorKind(w, r, "bad_request", "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	doc, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeErrorKind(w, r, "bad_request", "failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	gen, err := h.manager.Current()
	if err != nil {
		writeError(w, r, err)
		return
	}

	start := time.Now()
	set, err := translator.NewForGeneration(gen, h.logger).Unmarshal(doc)
	duration := time.Since(start)

	if err != nil {
		h.observe(r, journal.DirectionFromXML, nil, nil, len(doc), duration, err)
		writeError(w, r, err)
		return
	}

	h.observe(r, journal.DirectionFromXML, set, gen, len(doc), duration, nil)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(parseResponse{Params: set})
}

// Resolve handles POST /v1/resolve: one macro family plus station facts
// in, the selected macro variant out.
func (h *Handlers) Resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorKind(w, r, "bad_request", "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorKind(w, r, "bad_request", "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Family == "" {
		writeErrorKind(w, r, "bad_request", "family is required", http.StatusBadRequest)
		return
	}

	gen, err := h.manager.Current()
	if err != nil {
		writeError(w, r, err)
		return
	}

	macro, err := selector.New(gen.Rules, h.logger).Choose(req.Family, req.Context)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordSelection(req.Family, macro)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resolveResponse{Family: req.Family, Macro: macro})
}

// Reload handles POST /v1/reload: forces a document reload and reports
// the active generation.
func (h *Handlers) Reload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorKind(w, r, "bad_request", "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.manager.Reload(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}

	gen, err := h.manager.Current()
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"generation": gen.Sequence,
		"loaded_at":  gen.LoadedAt,
	})
}

// Journal handles GET /v1/journal with optional limit, trace_id and
// outcome query parameters.
func (h *Handlers) Journal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorKind(w, r, "bad_request", "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.storage == nil {
		writeErrorKind(w, r, "not_found", "journal is disabled", http.StatusNotFound)
		return
	}

	q := journal.Query{
		TraceID: r.URL.Query().Get("trace_id"),
		Outcome: r.URL.Query().Get("outcome"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeErrorKind(w, r, "bad_request", "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		q.Limit = limit
	}

	records, err := h.storage.Query(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*journal.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"records": records})
}

// Health handles GET /healthz liveness checks.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// Ready handles GET /readyz readiness checks. The bridge is ready once
// a document generation has loaded.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := "ready"
	statusCode := http.StatusOK
	if !h.manager.Ready() {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"timestamp": time.Now().Unix(),
	})
}

// observe records the outcome of a translation call in the journal and
// metrics.
func (h *Handlers) observe(r *http.Request, direction string, set *translator.ParamSet, gen *macromap.Generation, bytes int, duration time.Duration, callErr error) {
	outcome := journal.OutcomeOK
	if callErr != nil {
		outcome, _ = classifyError(callErr)
	}

	if h.metrics != nil {
		h.metrics.RecordTranslation(direction, outcome, duration, bytes)
	}

	if h.recorder == nil {
		return
	}

	record := &journal.Record{
		TraceID:   GetTraceID(r.Context()),
		Direction: direction,
		Bytes:     bytes,
		Duration:  duration,
		Outcome:   outcome,
	}
	if set != nil {
		record.Functions = set.Functions()
		if gen != nil {
			record.Macros = h.macrosFor(set, gen)
		}
	}

	status := "ok"
	if err := h.recorder.Record(record); err != nil {
		status = "error"
		h.logger.Warn("failed to enqueue journal record",
			"trace_id", record.TraceID,
			"error", err,
		)
	}
	if h.metrics != nil {
		h.metrics.RecordJournalWrite(status)
	}
}

// macrosFor resolves the macro family of every function in the set.
// Families (not selected variants) are recorded: the variant depends on
// the call's context, the family is stable for querying.
func (h *Handlers) macrosFor(set *translator.ParamSet, gen *macromap.Generation) []string {
	var macros []string
	for _, function := range set.Functions() {
		family, err := gen.Aliases.MacroFamily(function)
		if err != nil {
			continue
		}
		macros = append(macros, family)
	}
	return macros
}
