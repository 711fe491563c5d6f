// Package metrics expone contadores Prometheus de la API en un registro propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics colectores de HTTP, despacho de recursos y sincronización de matrices.
type Metrics struct {
	registry    *prometheus.Registry
	httpReqCnt  *prometheus.CounterVec
	httpDur     *prometheus.HistogramVec
	httpInfl    *prometheus.GaugeVec
	dispatchCnt *prometheus.CounterVec
	dispatchDur *prometheus.HistogramVec
	syncCnt     *prometheus.CounterVec
	syncRows    *prometheus.HistogramVec
}

// New registra los colectores bajo namespace.
func New(namespace string) *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Buckets: prometheus.DefBuckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	dispatchCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "resource_requests_total"}, []string{"resource", "verb", "status"})
	dispatchDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "resource_request_duration_seconds", Buckets: prometheus.DefBuckets}, []string{"resource", "verb"})
	r.MustRegister(dispatchCnt, dispatchDur)

	syncCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "matrix_syncs_total"}, []string{"matrix", "result"})
	syncRows := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "matrix_sync_rows", Buckets: []float64{0, 1, 5, 10, 25, 50, 100}}, []string{"matrix"})
	r.MustRegister(syncCnt, syncRows)

	return &Metrics{
		registry:    r,
		httpReqCnt:  httpReqCnt,
		httpDur:     httpDur,
		httpInfl:    httpInfl,
		dispatchCnt: dispatchCnt,
		dispatchDur: dispatchDur,
		syncCnt:     syncCnt,
		syncRows:    syncRows,
	}
}

// DispatchDone registra una petición resuelta por el despachador. m puede ser nil.
func (m *Metrics) DispatchDone(resource, verb string, status int, since time.Time) {
	if m == nil {
		return
	}
	m.dispatchCnt.WithLabelValues(resource, verb, strconv.Itoa(status)).Inc()
	m.dispatchDur.WithLabelValues(resource, verb).Observe(time.Since(since).Seconds())
}

// SyncDone registra una sincronización de matriz. m puede ser nil.
func (m *Metrics) SyncDone(matrix string, rows int, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.syncCnt.WithLabelValues(matrix, result).Inc()
	if err == nil {
		m.syncRows.WithLabelValues(matrix).Observe(float64(rows))
	}
}

// Middleware mide cada petición HTTP por ruta registrada.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.httpReqCnt.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDur.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		return err
	}
}

// Inflight cuenta peticiones en curso por prefijo fijo (la ruta final aún no se conoce).
func (m *Metrics) Inflight(prefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		g := m.httpInfl.WithLabelValues(prefix)
		g.Inc()
		defer g.Dec()
		return c.Next()
	}
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
