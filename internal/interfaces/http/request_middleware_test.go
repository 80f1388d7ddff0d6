package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	apphttp "github.com/jhoicas/Mantenimiento-api/internal/interfaces/http"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

func loginApp(proxies ...string) *fiber.App {
	app := fiber.New(apphttp.WithTrustedProxies(fiber.Config{}, proxies, ""))
	app.Post("/login", apphttp.LoginRateLimit(1, 2), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func postLogin(t *testing.T, app *fiber.App, xff string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	if xff != "" {
		req.Header.Set(fiber.HeaderXForwardedFor, xff)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestLoginRateLimit_IgnoraXFFDeParNoConfiable(t *testing.T) {
	app := loginApp()

	limited := 0
	for i := 0; i < 20; i++ {
		if postLogin(t, app, fmt.Sprintf("10.0.0.%d", i)) == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 18, limited, "cambiar X-Forwarded-For no debe abrir buckets nuevos")
}

func TestLoginRateLimit_ProxyConfiableUsaXFF(t *testing.T) {
	app := loginApp("0.0.0.0")

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, postLogin(t, app, fmt.Sprintf("10.0.0.%d", i)))
	}
	assert.Equal(t, http.StatusNoContent, postLogin(t, app, "203.0.113.7"))
	assert.Equal(t, http.StatusNoContent, postLogin(t, app, "203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, postLogin(t, app, "203.0.113.7"))
}

func TestWithTrustedProxies_SinProxiesNoLeeHeader(t *testing.T) {
	cfg := apphttp.WithTrustedProxies(fiber.Config{ProxyHeader: fiber.HeaderXForwardedFor}, []string{" ", ""}, "")
	assert.Empty(t, cfg.ProxyHeader)
	assert.False(t, cfg.EnableTrustedProxyCheck)

	cfg = apphttp.WithTrustedProxies(fiber.Config{}, []string{" 10.0.0.0/8 "}, "")
	assert.True(t, cfg.EnableTrustedProxyCheck)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
	assert.Equal(t, fiber.HeaderXForwardedFor, cfg.ProxyHeader)
}

func TestRequestLogger_IncluyeLaSesion(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})
	resolver := auth.NewSessionResolver(testJWTSecret, nil, nil)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	app.Get("/api/x", apphttp.AuthMiddleware(resolver, testCookie), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp := doRequest(t, app, http.MethodGet, "/api/x", tokenForRole(t, access.RoleSupervisor), "")
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, testUserID, line["user_id"])
	assert.Equal(t, testCompanyID, line["company_id"])
	assert.Equal(t, "/api/x", line["route"])
	assert.EqualValues(t, 204, line["status"])
}
