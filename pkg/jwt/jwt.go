package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret se devuelve cuando no hay secreto configurado.
var ErrEmptySecret = errors.New("jwt: secret vacío")

// Claims incluye los claims estándar JWT más los campos de sesión de la aplicación.
// Role es la clave del rol fijo; si CustomRoleID no está vacío el rol es personalizado
// y sus permisos se cargan desde la base de datos.
type Claims struct {
	jwt.RegisteredClaims
	UserID          string `json:"user_id"`
	CompanyID       string `json:"company_id,omitempty"`
	ClientCompanyID string `json:"client_company_id,omitempty"`
	SiteID          string `json:"site_id,omitempty"`
	Role            string `json:"role,omitempty"`
	CustomRoleID    string `json:"custom_role_id,omitempty"`
}

// Session son los datos que se firman en el token.
type Session struct {
	UserID          string
	CompanyID       string
	ClientCompanyID string
	SiteID          string
	Role            string
	CustomRoleID    string
}

// Generate genera un token JWT HS256 con los datos de sesión.
func Generate(secret, issuer string, expMinutes int, s Session) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:          s.UserID,
		CompanyID:       s.CompanyID,
		ClientCompanyID: s.ClientCompanyID,
		SiteID:          s.SiteID,
		Role:            s.Role,
		CustomRoleID:    s.CustomRoleID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve los claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("claims inválidos: user_id vacío")
	}
	return claims, nil
}

// Session devuelve los datos de sesión contenidos en los claims.
func (c *Claims) Session() Session {
	return Session{
		UserID:          c.UserID,
		CompanyID:       c.CompanyID,
		ClientCompanyID: c.ClientCompanyID,
		SiteID:          c.SiteID,
		Role:            c.Role,
		CustomRoleID:    c.CustomRoleID,
	}
}
