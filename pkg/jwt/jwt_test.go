package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/pkg/jwt"
)

const secret = "secreto-de-pruebas"

func TestGenerateParse_ConservaLaSesion(t *testing.T) {
	in := jwt.Session{
		UserID:          "u-1",
		CompanyID:       "c1",
		ClientCompanyID: "cc1",
		SiteID:          "s1",
		Role:            "CLIENTE_OPERARIO",
	}
	token, err := jwt.Generate(secret, "mantenimiento-api", 5, in)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, in, claims.Session())
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "mantenimiento-api", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate(secret, "x", 5, jwt.Session{UserID: "u-1", Role: "TECNICO"})
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate(secret, "x", -1, jwt.Session{UserID: "u-1", Role: "TECNICO"})
	require.NoError(t, err)

	_, err = jwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestSecretoVacio(t *testing.T) {
	_, err := jwt.Generate("", "x", 5, jwt.Session{UserID: "u"})
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)

	_, err = jwt.Parse("", "token")
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}
