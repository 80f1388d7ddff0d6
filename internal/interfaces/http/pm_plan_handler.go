package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
)

// PMPlanHandler maneja los planes de mantenimiento preventivo.
type PMPlanHandler struct {
	uc *usecase.PMPlanUseCase
}

// NewPMPlanHandler construye el handler.
func NewPMPlanHandler(uc *usecase.PMPlanUseCase) *PMPlanHandler {
	return &PMPlanHandler{uc: uc}
}

// Create godoc
// @Summary      Crear plan preventivo
// @Description  Frecuencia calendario con intervalo, o CRON con expresión de 5 campos.
// @Tags         preventive
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePMPlanRequest  true  "Datos del plan"
// @Success      201   {object}  dto.PMPlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pm-plans [post]
func (h *PMPlanHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePMPlanRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener plan preventivo
// @Tags         preventive
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del plan"
// @Success      200  {object}  dto.PMPlanResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pm-plans/{id} [get]
func (h *PMPlanHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar planes preventivos
// @Tags         preventive
// @Security     Bearer
// @Produce      json
// @Param        asset_id  query  string  false  "Activo"
// @Param        active    query  bool    false  "Solo activos"
// @Param        limit     query  int     false  "Límite (default 20, máx 100)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ListResponse[dto.PMPlanResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/pm-plans [get]
func (h *PMPlanHandler) List(c *fiber.Ctx) error {
	var q dto.PMPlanQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar plan preventivo
// @Description  Cambiar la recurrencia recalcula el próximo vencimiento.
// @Tags         preventive
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del plan"
// @Param        body  body  dto.UpdatePMPlanRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.PMPlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pm-plans/{id} [patch]
func (h *PMPlanHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePMPlanRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar plan preventivo
// @Tags         preventive
// @Security     Bearer
// @Param        id   path  string  true  "ID del plan"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pm-plans/{id} [delete]
func (h *PMPlanHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), GetIdentity(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
