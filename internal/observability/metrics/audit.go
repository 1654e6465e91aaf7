package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AuditMetrics struct {
	registry *prometheus.Registry

	extractionTotal    *prometheus.CounterVec
	extractionDuration *prometheus.HistogramVec
	analysisBatchTotal *prometheus.CounterVec
	analysisDuration   *prometheus.HistogramVec
	registryCheckTotal *prometheus.CounterVec
	auditDuration      prometheus.Histogram
	auditDocuments     prometheus.Histogram
	auditInFlight      prometheus.Gauge
}

func NewAuditMetrics(service string) *AuditMetrics {
	registry := prometheus.NewRegistry()

	extractionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nca",
			Subsystem: "audit",
			Name:      "extraction_total",
			Help:      "Total extracted documents by extraction method.",
		},
		[]string{"service", "method"},
	)
	extractionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nca",
			Subsystem: "audit",
			Name:      "extraction_duration_seconds",
			Help:      "Per-document extraction duration in seconds by method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method"},
	)
	analysisBatchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nca",
			Subsystem: "audit",
			Name:      "analysis_batch_total",
			Help:      "Total classified batches by outcome.",
		},
		[]string{"service", "status"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nca",
			Subsystem: "audit",
			Name:      "analysis_batch_duration_seconds",
			Help:      "Classification batch duration in seconds by outcome.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
		[]string{"service", "status"},
	)
	registryCheckTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nca",
			Subsystem: "audit",
			Name:      "registry_check_total",
			Help:      "Total WRAS directory lookups by resulting status.",
		},
		[]string{"service", "status"},
	)
	auditDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nca",
			Subsystem: "audit",
			Name:      "run_duration_seconds",
			Help:      "End-to-end audit run duration in seconds.",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 120, 300, 600},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	auditDocuments := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nca",
			Subsystem: "audit",
			Name:      "run_documents",
			Help:      "Distribution of uploaded documents per audit run.",
			Buckets:   []float64{1, 2, 4, 8, 14, 20, 30, 50},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	auditInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nca",
			Subsystem: "audit",
			Name:      "runs_in_flight",
			Help:      "Number of audit runs currently executing.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		extractionTotal,
		extractionDuration,
		analysisBatchTotal,
		analysisDuration,
		registryCheckTotal,
		auditDuration,
		auditDocuments,
		auditInFlight,
	)

	return &AuditMetrics{
		registry:           registry,
		extractionTotal:    extractionTotal,
		extractionDuration: extractionDuration,
		analysisBatchTotal: analysisBatchTotal,
		analysisDuration:   analysisDuration,
		registryCheckTotal: registryCheckTotal,
		auditDuration:      auditDuration,
		auditDocuments:     auditDocuments,
		auditInFlight:      auditInFlight,
	}
}

func (m *AuditMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *AuditMetrics) ObserveExtraction(method string, duration time.Duration) {
	m.extractionTotal.WithLabelValues("audit", method).Inc()
	m.extractionDuration.WithLabelValues("audit", method).Observe(duration.Seconds())
}

func (m *AuditMetrics) ObserveAnalysisBatch(status string, duration time.Duration) {
	m.analysisBatchTotal.WithLabelValues("audit", status).Inc()
	m.analysisDuration.WithLabelValues("audit", status).Observe(duration.Seconds())
}

func (m *AuditMetrics) ObserveRegistryCheck(status string) {
	m.registryCheckTotal.WithLabelValues("audit", status).Inc()
}

func (m *AuditMetrics) StartAudit() {
	m.auditInFlight.Inc()
}

func (m *AuditMetrics) FinishAudit(duration time.Duration, documents int) {
	m.auditInFlight.Dec()
	m.auditDuration.Observe(duration.Seconds())
	m.auditDocuments.Observe(float64(documents))
}
