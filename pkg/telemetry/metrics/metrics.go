// Package metrics provides Prometheus metrics for the translation engine
// and the bridge service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"testlab-hq/macrolink/pkg/config"
)

// Translation directions as used in metric labels.
const (
	DirectionToXML   = "to_xml"
	DirectionFromXML = "from_xml"
)

// TranslationMetrics tracks the translation engine and journal activity.
//
// Metrics:
//   - macrolink_translations_total: translation count by direction, outcome
//   - macrolink_translation_duration_seconds: duration histogram by direction
//   - macrolink_document_bytes: document size histogram by direction
//   - macrolink_selections_total: macro selections by family and target
//   - macrolink_journal_writes_total: journal writes by status
type TranslationMetrics struct {
	translationsTotal   *prometheus.CounterVec
	translationDuration *prometheus.HistogramVec
	documentBytes       *prometheus.HistogramVec
	selectionsTotal     *prometheus.CounterVec
	journalWritesTotal  *prometheus.CounterVec
}

// NewTranslationMetrics creates and registers the translation metrics
// with the provided registry.
func NewTranslationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *TranslationMetrics {
	tm := &TranslationMetrics{
		translationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "translations_total",
				Help:      "Total number of translation calls",
			},
			[]string{"direction", "outcome"},
		),

		translationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "translation_duration_seconds",
				Help:      "Duration of translation calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"direction"},
		),

		documentBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "document_bytes",
				Help:      "Size of macro documents in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 2, 12), // 256B to 512KB
			},
			[]string{"direction"},
		),

		selectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "selections_total",
				Help:      "Total number of macro variant selections",
			},
			[]string{"family", "target"},
		),

		journalWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "journal_writes_total",
				Help:      "Total number of journal record writes",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		tm.translationsTotal,
		tm.translationDuration,
		tm.documentBytes,
		tm.selectionsTotal,
		tm.journalWritesTotal,
	)

	return tm
}

// RecordTranslation records one translation call.
func (tm *TranslationMetrics) RecordTranslation(direction, outcome string, duration time.Duration, bytes int) {
	tm.translationsTotal.WithLabelValues(direction, outcome).Inc()
	tm.translationDuration.WithLabelValues(direction).Observe(duration.Seconds())
	if bytes > 0 {
		tm.documentBytes.WithLabelValues(direction).Observe(float64(bytes))
	}
}

// RecordSelection records one macro variant selection.
func (tm *TranslationMetrics) RecordSelection(family, target string) {
	tm.selectionsTotal.WithLabelValues(family, target).Inc()
}

// RecordJournalWrite records a journal write attempt.
func (tm *TranslationMetrics) RecordJournalWrite(status string) {
	tm.journalWritesTotal.WithLabelValues(status).Inc()
}
