package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/compliance"
)

// DocumentHandler maneja los documentos de cumplimiento de una familia (seguridad o
// calidad). Se registra una instancia por familia con su propio prefijo de ruta.
type DocumentHandler struct {
	uc     *usecase.DocumentUseCase
	family compliance.Family
}

// NewDocumentHandler construye el handler de la familia indicada.
func NewDocumentHandler(uc *usecase.DocumentUseCase, family compliance.Family) *DocumentHandler {
	return &DocumentHandler{uc: uc, family: family}
}

// Create godoc
// @Summary      Crear documento (JSA, LOTO, PERMISO_TRABAJO / CAPA, RCA)
// @Tags         compliance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        family  path  string                     true  "safety | quality"
// @Param        body    body  dto.CreateDocumentRequest  true  "Tipo, título y contenido"
// @Success      201     {object}  dto.DocumentResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/{family}/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), h.family, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener documento
// @Tags         compliance
// @Security     Bearer
// @Produce      json
// @Param        family  path  string  true  "safety | quality"
// @Param        id      path  string  true  "ID del documento"
// @Success      200     {object}  dto.DocumentResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/{family}/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetIdentity(c), h.family, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar documentos
// @Tags         compliance
// @Security     Bearer
// @Produce      json
// @Param        family         path   string  true   "safety | quality"
// @Param        type           query  string  false  "Tipo de documento"
// @Param        status         query  string  false  "Estado"
// @Param        work_order_id  query  string  false  "OT asociada"
// @Param        limit          query  int     false  "Límite (default 20, máx 100)"
// @Param        offset         query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ListResponse[dto.DocumentResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/{family}/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var q dto.DocumentQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), h.family, q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar contenido del documento
// @Description  Solo en BORRADOR o RECHAZADO.
// @Tags         compliance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        family  path  string                     true  "safety | quality"
// @Param        id      path  string                     true  "ID del documento"
// @Param        body    body  dto.UpdateDocumentRequest  true  "Campos a modificar"
// @Success      200     {object}  dto.DocumentResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/{family}/documents/{id} [patch]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDocumentRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetIdentity(c), h.family, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Cambiar estado del documento
// @Description  Aprobar o rechazar requiere el permiso de aprobación de la familia.
// @Tags         compliance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        family  path  string                         true  "safety | quality"
// @Param        id      path  string                         true  "ID del documento"
// @Param        body    body  dto.DocumentTransitionRequest  true  "Nuevo estado y motivo"
// @Success      200     {object}  dto.DocumentResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/{family}/documents/{id}/transition [post]
func (h *DocumentHandler) Transition(c *fiber.Ctx) error {
	var in dto.DocumentTransitionRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Transition(c.UserContext(), GetIdentity(c), h.family, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RequestUpload godoc
// @Summary      URL firmada para subir un adjunto
// @Tags         compliance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        family  path  string                       true  "safety | quality"
// @Param        id      path  string                       true  "ID del documento"
// @Param        body    body  dto.AttachmentUploadRequest  true  "Nombre, tipo y tamaño del archivo"
// @Success      201     {object}  dto.AttachmentUploadResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/{family}/documents/{id}/attachments [post]
func (h *DocumentHandler) RequestUpload(c *fiber.Ctx) error {
	var in dto.AttachmentUploadRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RequestUpload(c.UserContext(), GetIdentity(c), h.family, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAttachments godoc
// @Summary      Listar adjuntos del documento
// @Tags         compliance
// @Security     Bearer
// @Produce      json
// @Param        family  path  string  true  "safety | quality"
// @Param        id      path  string  true  "ID del documento"
// @Success      200     {array}   dto.AttachmentResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/{family}/documents/{id}/attachments [get]
func (h *DocumentHandler) ListAttachments(c *fiber.Ctx) error {
	out, err := h.uc.ListAttachments(c.UserContext(), GetIdentity(c), h.family, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DownloadURL godoc
// @Summary      URL firmada para descargar un adjunto
// @Tags         compliance
// @Security     Bearer
// @Produce      json
// @Param        family         path  string  true  "safety | quality"
// @Param        id             path  string  true  "ID del documento"
// @Param        attachment_id  path  string  true  "ID del adjunto"
// @Success      200     {object}  dto.SignedURLResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/{family}/documents/{id}/attachments/{attachment_id}/download [get]
func (h *DocumentHandler) DownloadURL(c *fiber.Ctx) error {
	out, err := h.uc.DownloadURL(c.UserContext(), GetIdentity(c), h.family, c.Params("id"), c.Params("attachment_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar documento en PDF
// @Tags         compliance
// @Security     Bearer
// @Produce      application/pdf
// @Param        family  path  string  true  "safety | quality"
// @Param        id      path  string  true  "ID del documento"
// @Success      200     {file}    binary
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/{family}/documents/{id}/pdf [get]
func (h *DocumentHandler) PDF(c *fiber.Ctx) error {
	body, fileName, err := h.uc.PDF(c.UserContext(), GetIdentity(c), h.family, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return attachment(c, body, "application/pdf", fileName)
}
