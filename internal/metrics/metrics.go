package metrics

import (
	"net/http"
	"time"

	"github.com/EricMurray-e-m-dev/infra-manager/internal/adapter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "infra_manager"

// Operation labels.
const (
	OperationReport = "report"
	OperationDelete = "delete"
	OperationList   = "list"
)

const statusSuccess = "success"

// Metrics holds the adapter instruments. It also serves as the adapters' Observer.
type Metrics struct {
	registry *prometheus.Registry

	operations   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	degradations *prometheus.CounterVec
}

// New registers the instruments, plus Go runtime and process collectors,
// on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,

		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_operations_total",
			Help:      "Adapter operations by service, operation and outcome",
		}, []string{"service", "operation", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "adapter_operation_duration_seconds",
			Help:      "Adapter operation duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}, []string{"service", "operation"}),

		degradations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partial_degradations_total",
			Help:      "Items replaced by a placeholder because enumerating them failed",
		}, []string{"service"}),
	}
}

// ObserveOperation records one finished adapter call. The status label is
// "success" or the error's kind.
func (m *Metrics) ObserveOperation(service, operation string, started time.Time, err error) {
	status := statusSuccess
	if err != nil {
		status = string(adapter.KindOf(err))
	}

	m.operations.WithLabelValues(service, operation, status).Inc()
	m.duration.WithLabelValues(service, operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) PartialDegradation(service string, err error) {
	m.degradations.WithLabelValues(service).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
