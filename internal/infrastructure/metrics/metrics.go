// Package metrics expone las métricas Prometheus de la API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
)

var _ access.DecisionRecorder = (*Metrics)(nil)

// Metrics agrupa los colectores de la API registrados en un registro propio.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AuthzDecisionsTotal *prometheus.CounterVec
	PMWorkOrdersTotal   prometheus.Counter
}

// New crea y registra los colectores (más los de proceso y runtime de Go).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cmms_http_requests_total",
				Help: "Total de peticiones HTTP",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cmms_http_request_duration_seconds",
				Help:    "Duración de las peticiones HTTP en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthzDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cmms_authz_decisions_total",
				Help: "Decisiones de autorización por permiso",
			},
			[]string{"permission", "decision"},
		),
		PMWorkOrdersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cmms_pm_work_orders_generated_total",
			Help: "Órdenes de trabajo generadas por planes preventivos",
		}),
	}
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthzDecisionsTotal,
		m.PMWorkOrdersTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordDecision cuenta una decisión del guard de permisos.
func (m *Metrics) RecordDecision(perm access.Permission, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	m.AuthzDecisionsTotal.WithLabelValues(string(perm), decision).Inc()
}

// RecordPMGenerated suma las OTs creadas por el programador.
func (m *Metrics) RecordPMGenerated(n int) {
	if n > 0 {
		m.PMWorkOrdersTotal.Add(float64(n))
	}
}

// Middleware mide cada petición. Usa la ruta registrada (/api/assets/:id) como etiqueta
// para no crear una serie por ID.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
