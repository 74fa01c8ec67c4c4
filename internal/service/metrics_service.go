package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// rota domain.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	generations        prometheus.Counter
	assignmentsPlaced  prometheus.Counter
	unfilledSlots      prometheus.Counter
	coverageViolations prometheus.Counter
	exportJobs         *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a dedicated registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rota_generations_total",
		Help: "Number of completed rota generation runs",
	})
	assignmentsPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rota_assignments_published_total",
		Help: "Assignments published across all generation runs",
	})
	unfilledSlots := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rota_unfilled_slots_total",
		Help: "Slots left without an eligible candidate",
	})
	coverageViolations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rota_coverage_violations_total",
		Help: "Under-staffed half-hour windows reported by the audit",
	})
	exportJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rota_export_jobs_total",
		Help: "Export jobs by terminal status",
	}, []string{"status"})

	registry.MustRegister(requestDuration, requestTotal, generations, assignmentsPlaced, unfilledSlots, coverageViolations, exportJobs)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		generations:        generations,
		assignmentsPlaced:  assignmentsPlaced,
		unfilledSlots:      unfilledSlots,
		coverageViolations: coverageViolations,
		exportJobs:         exportJobs,
	}
}

// Handler serves the scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	return m.handler
}

// ObserveRequest records one HTTP request sample.
func (m *MetricsService) ObserveRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, path, status).Observe(seconds)
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordGeneration tallies one rota run's outcome.
func (m *MetricsService) RecordGeneration(assignments, unfilled, violations int) {
	if m == nil {
		return
	}
	m.generations.Inc()
	m.assignmentsPlaced.Add(float64(assignments))
	m.unfilledSlots.Add(float64(unfilled))
	m.coverageViolations.Add(float64(violations))
}

// RecordExportJob tallies a terminal export status.
func (m *MetricsService) RecordExportJob(status string) {
	if m == nil {
		return
	}
	m.exportJobs.WithLabelValues(status).Inc()
}
