package http

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
)

func TestRespondError_StatusPorClase(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.Unauthenticated("sin sesión"), fiber.StatusUnauthorized, "UNAUTHENTICATED"},
		{domain.Forbidden("permiso requerido: assets.manage"), fiber.StatusForbidden, "FORBIDDEN"},
		{domain.InvalidInput("datos inválidos", nil), fiber.StatusBadRequest, "INVALID_INPUT"},
		{domain.NotFound("activo no encontrado"), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.Conflict("stock insuficiente", domain.ErrInsufficientStock), fiber.StatusConflict, "CONFLICT"},
		{fmt.Errorf("repo: %w", domain.ErrInvalidTransition), fiber.StatusConflict, "CONFLICT"},
		{fmt.Errorf("pgx: conexión rechazada"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tc.err) })

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())

		var body dto.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, tc.code, body.Code)
	}
}

func TestRespondError_InternoNoExponeCausa(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return respondError(c, fmt.Errorf("password=secreto"))
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error interno", body.Error)
}

func TestValidateStruct_DetallesConNombreJSON(t *testing.T) {
	err := validateStruct(&dto.RegisterMovementRequest{Type: "TRANSFER"})
	require.Error(t, err)
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	details, ok := domain.DetailsOf(err).([]dto.FieldError)
	require.True(t, ok)
	rules := map[string]string{}
	for _, d := range details {
		rules[d.Field] = d.Rule
	}
	assert.Equal(t, "required", rules["spare_part_id"])
	assert.Equal(t, "oneof", rules["type"])
}

func TestIPLimiter_TokenBucketPorIP(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	l := newIPLimiter(rate.Every(time.Minute), 1, 10*time.Minute)

	assert.True(t, l.allow("10.0.0.1", now))
	assert.False(t, l.allow("10.0.0.1", now.Add(time.Second)))
	assert.True(t, l.allow("10.0.0.2", now.Add(time.Second)), "cada IP tiene su propio bucket")
	assert.True(t, l.allow("10.0.0.1", now.Add(61*time.Second)))
}

func TestIPLimiter_PurgaBucketsInactivos(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	l := newIPLimiter(rate.Every(time.Minute), 1, time.Minute)
	l.allow("10.0.0.1", now)
	l.allow("10.0.0.2", now.Add(2*time.Minute))

	assert.Len(t, l.buckets, 1)
}
