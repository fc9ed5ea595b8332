// Package metrics expone las métricas del ledger en formato Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

const namespace = "almacen"

var _ inventory.Metrics = (*Prometheus)(nil)

// Prometheus implementa inventory.Metrics sobre un registro propio.
type Prometheus struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	lockWait   prometheus.Histogram
}

// NewPrometheus crea y registra los colectores (incluye los de proceso y runtime de Go).
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Operaciones del ledger por tipo y resultado.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Duración de las operaciones del ledger (incluye espera de bloqueos).",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "lock_wait_seconds",
			Help:      "Tiempo de espera para adquirir los bloqueos de (item, ubicación).",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		}),
	}
	reg.MustRegister(
		p.operations,
		p.duration,
		p.lockWait,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// ObserveOperation cuenta la operación y registra su duración.
func (p *Prometheus) ObserveOperation(op, outcome string, elapsed time.Duration) {
	p.operations.WithLabelValues(op, outcome).Inc()
	p.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveLockWait registra la espera de bloqueos.
func (p *Prometheus) ObserveLockWait(elapsed time.Duration) {
	p.lockWait.Observe(elapsed.Seconds())
}

// Handler handler HTTP de /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry registro subyacente (tests).
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }
