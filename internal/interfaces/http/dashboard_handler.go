package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Mantenimiento-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen operativo
// @Description  OTs por estado y vencidas, activos por estado y repuestos bajo mínimo.
// @Description  Cada bloque aparece solo si la sesión tiene el permiso de ver ese módulo.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), GetIdentity(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(summary)
}
