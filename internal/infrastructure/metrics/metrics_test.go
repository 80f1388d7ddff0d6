package metrics_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/metrics"
)

func TestRecordDecision(t *testing.T) {
	m := metrics.New()
	m.RecordDecision(access.PermWorkOrdersClose, true)
	m.RecordDecision(access.PermWorkOrdersClose, false)
	m.RecordDecision(access.PermWorkOrdersClose, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthzDecisionsTotal.WithLabelValues("work_orders.close", "allow")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthzDecisionsTotal.WithLabelValues("work_orders.close", "deny")))
}

func TestMiddleware_EtiquetaPorRuta(t *testing.T) {
	m := metrics.New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/assets/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, id := range []string{"a1", "a2"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/assets/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/assets/:id", "200")))
}

func TestRecordPMGenerated(t *testing.T) {
	m := metrics.New()
	m.RecordPMGenerated(0)
	m.RecordPMGenerated(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.PMWorkOrdersTotal))
}
