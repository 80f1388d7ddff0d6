package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
)

// Locals keys de la sesión en Fiber.
const (
	LocalIdentity = "identity"
	LocalError    = "request_error"
)

// sessionResolver es lo que necesita el middleware; lo implementa *auth.SessionResolver.
type sessionResolver interface {
	Resolve(ctx context.Context, cred auth.Credentials) (access.Identity, error)
}

// AuthMiddleware resuelve la sesión (header Bearer o cookie) y deja la Identity en
// c.Locals. Sin sesión válida responde 401.
func AuthMiddleware(resolver sessionResolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cred := auth.Credentials{Authorization: c.Get(fiber.HeaderAuthorization)}
		if cookieName != "" {
			cred.Cookie = c.Cookies(cookieName)
		}
		id, err := resolver.Resolve(c.UserContext(), cred)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}

// GetIdentity devuelve la identidad de la petición; vacía si no pasó por AuthMiddleware.
func GetIdentity(c *fiber.Ctx) access.Identity {
	id, _ := c.Locals(LocalIdentity).(access.Identity)
	return id
}

// GetUserID devuelve el UserID de la sesión.
func GetUserID(c *fiber.Ctx) string {
	return GetIdentity(c).UserID
}

// GetCompanyID devuelve el CompanyID de la sesión.
func GetCompanyID(c *fiber.Ctx) string {
	return GetIdentity(c).CompanyID
}
