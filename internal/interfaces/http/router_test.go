package http_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/repository"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/Mantenimiento-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Mantenimiento-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// App completa con fakes
// ──────────────────────────────────────────────────────────────────────────────

type memTemplates struct {
	repository.WorkOrderTemplateRepository
	rows []*entity.WorkOrderTemplate
}

func (m *memTemplates) ListByCompany(_ context.Context, companyID string) ([]*entity.WorkOrderTemplate, error) {
	var out []*entity.WorkOrderTemplate
	for _, t := range m.rows {
		if t.CompanyID == companyID {
			out = append(out, t)
		}
	}
	return out, nil
}

type testServer struct {
	app     *fiber.App
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	m := metrics.New()
	table := access.DefaultTable()
	guard := access.NewGuard(table, m)
	templates := &memTemplates{rows: []*entity.WorkOrderTemplate{
		{ID: "t1", CompanyID: testCompanyID, Name: "Lubricación", Title: "Lubricar rodamientos"},
		{ID: "t2", CompanyID: "otra-empresa", Name: "Ajena", Title: "No visible"},
	}}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         auth.NewAuthUseCase(nil, table, auth.JWTConfig{Secret: testJWTSecret}),
		Sessions:       auth.NewSessionResolver(testJWTSecret, nil, nil),
		WorkOrderUC:    usecase.NewWorkOrderUseCase(usecase.WorkOrderDeps{Templates: templates, Guard: guard}),
		Metrics:        m,
		CookieName:     testCookie,
		LoginPerMinute: 1,
		LoginBurst:     2,
	})
	return testServer{app: app, metrics: m}
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización por permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestTemplates_TecnicoRecibe403(t *testing.T) {
	srv := newTestServer(t)
	resp := doRequest(t, srv.app, http.MethodGet, "/api/work-orders/templates", tokenForRole(t, access.RoleTecnico), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "FORBIDDEN", body["code"])
	assert.NotEmpty(t, body["error"], "la denegación debe explicar el motivo")
}

func TestTemplates_AdminEmpresaVeSoloSuEmpresa(t *testing.T) {
	srv := newTestServer(t)
	resp := doRequest(t, srv.app, http.MethodGet, "/api/work-orders/templates", tokenForRole(t, access.RoleAdminEmpresa), "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Lubricación")
	assert.NotContains(t, string(raw), "Ajena")
}

func TestTemplates_SinSesionRecibe401(t *testing.T) {
	srv := newTestServer(t)
	resp := doRequest(t, srv.app, http.MethodGet, "/api/work-orders/templates", "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión actual
// ──────────────────────────────────────────────────────────────────────────────

func TestMe_DevuelveAlcanceYPermisos(t *testing.T) {
	srv := newTestServer(t)
	resp := doRequest(t, srv.app, http.MethodGet, "/api/me", tokenForRole(t, access.RoleTecnico), "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "TECNICO", body["role"])
	assert.Equal(t, "company", body["scope"])
	assert.Contains(t, body["permissions"], "work_orders.view")
	assert.NotContains(t, body["permissions"], "work_orders.manage_templates")
}

func TestMe_SinEmpresaRecibe403(t *testing.T) {
	srv := newTestServer(t)
	tok := tokenFor(t, pkgjwt.Session{UserID: testUserID, Role: "ADMIN_EMPRESA"})
	resp := doRequest(t, srv.app, http.MethodGet, "/api/me", "Bearer "+tok, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearOT_ValidacionDevuelveDetalles(t *testing.T) {
	srv := newTestServer(t)
	resp := doRequest(t, srv.app, http.MethodPost, "/api/work-orders", tokenForRole(t, access.RoleSupervisor), `{"title":"x"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "INVALID_INPUT", body["code"])

	details, ok := body["details"].([]any)
	require.True(t, ok, "details debe ser una lista de campos")
	fields := map[string]string{}
	for _, d := range details {
		fe := d.(map[string]any)
		fields[fe["field"].(string)] = fe["rule"].(string)
	}
	assert.Equal(t, "min", fields["title"])
	assert.Equal(t, "required", fields["type"])
	assert.Equal(t, "required", fields["priority"])
}

func TestCrearOT_CuerpoMalformado(t *testing.T) {
	srv := newTestServer(t)
	resp := doRequest(t, srv.app, http.MethodPost, "/api/work-orders", tokenForRole(t, access.RoleSupervisor), `{"title":`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login: límite de intentos y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_LimiteDeIntentosPorIP(t *testing.T) {
	srv := newTestServer(t)
	for i := 0; i < 2; i++ {
		resp := doRequest(t, srv.app, http.MethodPost, "/api/auth/login", "", `{"email":"no-es-email"}`)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
	resp := doRequest(t, srv.app, http.MethodPost, "/api/auth/login", "", `{"email":"no-es-email"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestMetrics_ExponeContadores(t *testing.T) {
	srv := newTestServer(t)
	r := doRequest(t, srv.app, http.MethodGet, "/api/work-orders/templates", tokenForRole(t, access.RoleTecnico), "")
	r.Body.Close()

	resp := doRequest(t, srv.app, http.MethodGet, "/metrics", "", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `cmms_http_requests_total{method="GET",route="/api/work-orders/templates",status="403"} 1`)
	assert.Contains(t, string(raw), `cmms_authz_decisions_total{decision="deny",permission="work_orders.manage_templates"} 1`)
}
