// Package metrics stellt die Prometheus-Metriken des Template-Moduls bereit.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome-Labels für importierte Templates.
const (
	OutcomeImported  = "imported"
	OutcomeMalformed = "malformed"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

// Metrics bündelt alle Zähler und Histogramme.
type Metrics struct {
	TemplatesImported *prometheus.CounterVec
	TemplatesPurged   prometheus.Counter
	OrphansRemoved    prometheus.Counter
	ImportDuration    prometheus.Histogram
}

// New registriert alle Metriken an reg. Tests übergeben eine eigene prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TemplatesImported: f.NewCounterVec(prometheus.CounterOpts{
			Name: "report_templates_imported_total",
			Help: "Template imports by outcome.",
		}, []string{"outcome"}),
		TemplatesPurged: f.NewCounter(prometheus.CounterOpts{
			Name: "report_templates_purged_total",
			Help: "Total number of purged templates.",
		}),
		OrphansRemoved: f.NewCounter(prometheus.CounterOpts{
			Name: "report_template_orphan_files_removed_total",
			Help: "Template files removed because no record referenced them.",
		}),
		ImportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "report_template_import_duration_seconds",
			Help:    "Duration of template imports (parse, resolve, store).",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveImport zählt einen Import und misst seine Dauer ab start.
func (m *Metrics) ObserveImport(outcome string, start time.Time) {
	m.TemplatesImported.WithLabelValues(outcome).Inc()
	m.ImportDuration.Observe(time.Since(start).Seconds())
}
