package http

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mantenimiento-api/internal/application/dto"
	"github.com/jhoicas/Mantenimiento-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los detalles usan el nombre JSON (o query) del campo, no el de Go.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// statusFor traduce la clase del error a HTTP. Nunca se mira el texto del error.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindInvalidInput:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// respondError escribe el cuerpo de error uniforme. Los errores internos no exponen su
// texto; quedan en Locals para el log de la petición.
func respondError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	c.Locals(LocalError, err)
	body := dto.ErrorResponse{Error: err.Error(), Code: kind.String()}
	if kind == domain.KindInvalidInput {
		body.Details = domain.DetailsOf(err)
	}
	if kind == domain.KindInternal {
		body.Error = "error interno"
	}
	return c.Status(statusFor(kind)).JSON(body)
}

// parseBody decodifica el JSON y lo valida con las etiquetas validate del DTO.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.InvalidInput("cuerpo inválido", nil)
	}
	return validateStruct(out)
}

// parseQuery decodifica los parámetros de consulta y los valida.
func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return domain.InvalidInput("parámetros de consulta inválidos", nil)
	}
	return validateStruct(out)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.InvalidInput("datos inválidos", nil)
	}
	details := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, dto.FieldError{Field: fieldPath(fe), Rule: fe.Tag(), Param: fe.Param()})
	}
	return domain.InvalidInput("datos inválidos", details)
}

// fieldPath quita el nombre del struct raíz: "CreateAssetRequest.code" → "code".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// queryTime interpreta un parámetro de fecha (RFC 3339 o AAAA-MM-DD). Vacío → nil.
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.InvalidInput("fecha inválida", []dto.FieldError{{Field: key, Rule: "datetime", Param: "RFC3339"}})
}

// attachment responde un archivo binario para descarga.
func attachment(c *fiber.Ctx, body []byte, contentType, fileName string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Attachment(fileName)
	return c.Status(fiber.StatusOK).Send(body)
}
