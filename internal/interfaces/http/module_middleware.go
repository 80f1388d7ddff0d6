package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
)

// moduleChecker es el contrato mínimo que necesita el middleware para verificar módulos.
// Lo implementa *usecase.ModuleService; el uso de interfaz evita el import circular.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}

// RequireModule devuelve un middleware Fiber que verifica si la empresa de la sesión
// tiene el módulo activo. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - Roles globales (SUPER_ADMIN, ADMIN_GRUPO) no dependen de un plan: pasan.
//   - 403 Forbidden → módulo no contratado o vencido.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireModule(moduleName string, checker moduleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := access.ScopeFor(GetIdentity(c))
		if err != nil {
			return respondError(c, err)
		}
		if scope.IsGlobal() {
			return c.Next()
		}

		active, err := checker.HasActiveModule(c.UserContext(), scope.CompanyID, moduleName)
		if err != nil {
			c.Locals(LocalError, err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:  "MODULE_CHECK_FAILED",
				Error: "no se pudo verificar el módulo, intente más tarde",
			})
		}

		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:  "MODULE_DISABLED",
				Error: "el módulo '" + moduleName + "' no está activo para esta empresa",
			})
		}

		return c.Next()
	}
}
