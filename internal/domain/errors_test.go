package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Mantenimiento-api/internal/domain"
)

func TestKindOf_ErroresTipados(t *testing.T) {
	assert.Equal(t, domain.KindForbidden, domain.KindOf(domain.Forbidden("x")))
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(domain.Unauthenticated("x")))
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(domain.InvalidInput("x", nil)))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(domain.NotFound("x")))
	assert.Equal(t, domain.KindConflict, domain.KindOf(domain.Conflict("x", nil)))
}

func TestKindOf_EnvueltosYCentinelas(t *testing.T) {
	wrapped := fmt.Errorf("caso de uso: %w", domain.Forbidden("permiso requerido"))
	assert.Equal(t, domain.KindForbidden, domain.KindOf(wrapped))

	assert.Equal(t, domain.KindNotFound, domain.KindOf(fmt.Errorf("get: %w", domain.ErrNotFound)))
	assert.Equal(t, domain.KindConflict, domain.KindOf(domain.ErrEmailAlreadyExists))
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(domain.ErrUnauthorized))
	assert.Equal(t, domain.KindInternal, domain.KindOf(errors.New("conexión rechazada")))
}

func TestKindOf_NoDependeDelTexto(t *testing.T) {
	// Un error interno cuyo texto menciona "forbidden" sigue siendo interno.
	assert.Equal(t, domain.KindInternal, domain.KindOf(errors.New("forbidden: not found")))
}

func TestError_IsCentinelas(t *testing.T) {
	err := domain.Forbidden("sin permiso")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	details := map[string]string{"email": "required"}
	assert.Equal(t, details, domain.DetailsOf(domain.InvalidInput("datos inválidos", details)))
	assert.Nil(t, domain.DetailsOf(errors.New("otro")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "FORBIDDEN", domain.KindForbidden.String())
	assert.Equal(t, "INTERNAL", domain.KindInternal.String())
}
