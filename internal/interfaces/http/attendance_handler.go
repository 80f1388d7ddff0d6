package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
)

// AttendanceHandler maneja la asistencia de técnicos en sede.
type AttendanceHandler struct {
	uc *usecase.AttendanceUseCase
}

// NewAttendanceHandler construye el handler.
func NewAttendanceHandler(uc *usecase.AttendanceUseCase) *AttendanceHandler {
	return &AttendanceHandler{uc: uc}
}

// CheckIn godoc
// @Summary      Registrar llegada
// @Description  Un usuario no puede tener dos llegadas abiertas (409).
// @Tags         attendance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckInRequest  true  "Sede y coordenadas"
// @Success      201   {object}  dto.AttendanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *fiber.Ctx) error {
	var in dto.CheckInRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CheckIn(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CheckOut godoc
// @Summary      Registrar salida
// @Tags         attendance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckOutRequest  true  "Notas"
// @Success      200   {object}  dto.AttendanceResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c *fiber.Ctx) error {
	var in dto.CheckOutRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return respondError(c, err)
		}
	}
	out, err := h.uc.CheckOut(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar registros de asistencia
// @Tags         attendance
// @Security     Bearer
// @Produce      json
// @Param        user_id  query  string  false  "Usuario"
// @Param        from     query  string  false  "Desde (RFC 3339 o AAAA-MM-DD)"
// @Param        to       query  string  false  "Hasta (RFC 3339 o AAAA-MM-DD)"
// @Param        limit    query  int     false  "Límite (default 20, máx 100)"
// @Param        offset   query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ListResponse[dto.AttendanceResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/attendance [get]
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	var q dto.AttendanceQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	var err error
	if q.From, err = queryTime(c, "from"); err != nil {
		return respondError(c, err)
	}
	if q.To, err = queryTime(c, "to"); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
