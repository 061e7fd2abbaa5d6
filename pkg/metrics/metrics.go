package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jakechorley/duty-rota/pkg/core/allocator"
)

// Metrics holds the Prometheus collectors of the service on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	generationRuns     *prometheus.CounterVec
	generationDuration prometheus.Histogram
	conflicts          prometheus.Histogram
	unassignedDays     prometheus.Histogram
	violations         prometheus.Counter
	actions            *prometheus.CounterVec

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

// New registers the collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()

	generationRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "duty_rota_generation_runs_total",
		Help: "Schedule generation runs by coverage result",
	}, []string{"coverage"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "duty_rota_generation_duration_seconds",
		Help:    "Duration of one schedule generation pass",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	})

	conflicts := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "duty_rota_generation_conflicts",
		Help:    "Conflicts reported per generation run",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 31},
	})

	unassignedDays := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "duty_rota_generation_unassigned_days",
		Help:    "Days left unassigned per generation run",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 31},
	})

	violations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "duty_rota_generation_violations_total",
		Help: "Hard-constraint violations found by the post-run validation",
	})

	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "duty_rota_schedule_actions_total",
		Help: "Preview, apply, undo and discard actions by result",
	}, []string{"action", "result"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	registry.MustRegister(generationRuns, generationDuration, conflicts, unassignedDays, violations, actions,
		requestDuration, requestTotal, collectors.NewGoCollector())

	return &Metrics{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		generationRuns:     generationRuns,
		generationDuration: generationDuration,
		conflicts:          conflicts,
		unassignedDays:     unassignedDays,
		violations:         violations,
		actions:            actions,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
	}
}

// Handler exposes the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveGeneration records the result of one generation run
func (m *Metrics) ObserveGeneration(outcome *allocator.Outcome, elapsed time.Duration) {
	if m == nil || outcome == nil {
		return
	}
	coverage := "full"
	if !outcome.FullyCovered() {
		coverage = "partial"
	}
	m.generationRuns.WithLabelValues(coverage).Inc()
	m.generationDuration.Observe(elapsed.Seconds())
	m.conflicts.Observe(float64(len(outcome.Conflicts)))
	m.unassignedDays.Observe(float64(len(outcome.Unassigned)))
	m.violations.Add(float64(len(outcome.Violations)))
}

// ObserveAction counts a schedule action
func (m *Metrics) ObserveAction(action string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.actions.WithLabelValues(action, result).Inc()
}

// ObserveHTTPRequest records request metrics
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}
