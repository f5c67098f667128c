package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"testlab-hq/macrolink/pkg/config"
)

func newTestMetrics() (*TranslationMetrics, *httptest.Server) {
	registry := NewRegistry()
	cfg := &config.MetricsConfig{Enabled: true, Namespace: "macrolink", Path: "/metrics"}
	tm := NewTranslationMetrics(cfg, registry)
	srv := httptest.NewServer(Handler(registry))
	return tm, srv
}

func scrape(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	var sb strings.Builder
	buf := make([]byte, 64*1024)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}

// TestTranslationMetrics_Exposition verifies recorded values reach the
// exposition endpoint under the configured namespace.
func TestTranslationMetrics_Exposition(t *testing.T) {
	tm, srv := newTestMetrics()
	defer srv.Close()

	tm.RecordTranslation(DirectionToXML, "ok", 5*time.Millisecond, 1024)
	tm.RecordTranslation(DirectionFromXML, "format_error", time.Millisecond, 0)
	tm.RecordSelection("RELAIS", "RELAY2")
	tm.RecordJournalWrite("ok")

	body := scrape(t, srv)

	wantLines := []string{
		`macrolink_translations_total{direction="to_xml",outcome="ok"} 1`,
		`macrolink_translations_total{direction="from_xml",outcome="format_error"} 1`,
		`macrolink_selections_total{family="RELAIS",target="RELAY2"} 1`,
		`macrolink_journal_writes_total{status="ok"} 1`,
	}
	for _, want := range wantLines {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
	if !strings.Contains(body, "macrolink_translation_duration_seconds_bucket") {
		t.Error("duration histogram missing from exposition")
	}
}

// TestTranslationMetrics_ZeroBytesSkipsSizeObservation verifies failed
// calls with no document do not pollute the size histogram.
func TestTranslationMetrics_ZeroBytesSkipsSizeObservation(t *testing.T) {
	tm, srv := newTestMetrics()
	defer srv.Close()

	tm.RecordTranslation(DirectionToXML, "validation_error", time.Millisecond, 0)

	body := scrape(t, srv)
	if strings.Contains(body, `macrolink_document_bytes_count{direction="to_xml"} 1`) {
		t.Error("zero-byte translation was observed in the size histogram")
	}
}
